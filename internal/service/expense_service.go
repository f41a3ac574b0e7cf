package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// ExpenseService handles expense CRUD. Split calculation runs
// synchronously inside Create and Update; a ValidationError rejects the
// whole write and nothing is persisted.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ExpenseInput is the caller-supplied part of an expense.
type ExpenseInput struct {
	Description string
	// Amount is the total in minor units of the group currency.
	Amount int64
	// Currency is optional; when set it must match the group currency.
	Currency  string
	SplitType ledger.SplitType
	Payers    []ledger.PayerShare
	Directive ledger.Directive
}

// Create validates the input, computes splits, and persists the expense.
func (s *ExpenseService) Create(ctx context.Context, userID, groupID string, in ExpenseInput) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}

	expense, err := buildExpense(group, userID, in)
	if err != nil {
		slog.Warn("CreateExpense rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", groupID, "error", err)
		return nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", groupID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
	)
	return expense, nil
}

// Update recomputes splits from the new input and replaces the expense
// wholesale. All IsPaid flags reset: preserving them across an edit that
// may change membership and amounts has no coherent meaning. The group's
// pending settlements are dropped since they are now stale.
func (s *ExpenseService) Update(ctx context.Context, userID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, existing.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}

	expense, err := buildExpense(group, existing.CreatedBy, in)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", expenseID, "error", err)
		return nil, err
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}
	if err := s.store.DeletePendingSettlements(ctx, group.ID); err != nil {
		return nil, err
	}

	slog.Info("Expense updated", "expense_id", expense.ID, "group_id", group.ID)
	return expense, nil
}

// Get retrieves an expense visible to the user.
func (s *ExpenseService) Get(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}
	return expense, nil
}

// ListByGroup retrieves a group's expenses, newest first.
func (s *ExpenseService) ListByGroup(ctx context.Context, userID, groupID string) ([]*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// Delete removes an expense. Settlements derived from it are stale, so
// the group's pending settlements are dropped too.
func (s *ExpenseService) Delete(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, expense.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return ErrForbidden
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}
	if err := s.store.DeletePendingSettlements(ctx, group.ID); err != nil {
		return err
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", group.ID)
	return nil
}

// buildExpense runs the split calculator and all expense-level checks,
// returning a fully populated expense ready to persist.
func buildExpense(group *models.Group, createdBy string, in ExpenseInput) (*models.Expense, error) {
	if in.Currency != "" && in.Currency != group.Currency {
		return nil, &ledger.ValidationError{
			Reason: fmt.Sprintf("expense currency %q does not match group currency %q", in.Currency, group.Currency),
		}
	}

	splits, err := ledger.ComputeSplits(in.Amount, in.SplitType, in.Directive)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidatePayers(in.Amount, in.Payers); err != nil {
		return nil, err
	}

	// Participants and payers must belong to the group, and each payer
	// must be in the split. Payer inclusion is policy here, not in the
	// calculator.
	inSplit := make(map[string]bool, len(splits))
	for _, sp := range splits {
		if !group.HasMember(sp.UserID) {
			return nil, &ledger.ValidationError{
				Reason: fmt.Sprintf("participant %q is not a group member", sp.UserID),
			}
		}
		inSplit[sp.UserID] = true
	}
	for _, p := range in.Payers {
		if !inSplit[p.UserID] {
			return nil, &ledger.ValidationError{
				Reason: fmt.Sprintf("payer %q must be one of the participants", p.UserID),
			}
		}
	}

	return &models.Expense{
		GroupID:     group.ID,
		Description: in.Description,
		Amount:      in.Amount,
		Currency:    group.Currency,
		SplitType:   in.SplitType,
		Payers:      in.Payers,
		Splits:      splits,
		CreatedBy:   createdBy,
	}, nil
}
