package service

import (
	"context"
	"log/slog"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/metrics"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// SettlementService computes group balances, turns them into settlement
// suggestions, and drives settlements through their lifecycle.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// Balances computes the net balance of every group member from the
// group's expenses. Members without any expense activity appear with a
// zero balance.
func (s *SettlementService) Balances(ctx context.Context, userID, groupID string) (map[string]int64, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	views := make([]ledger.ExpenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, e.LedgerView())
	}
	balances := ledger.ComputeBalances(views)
	for _, member := range group.Members {
		if _, ok := balances[member]; !ok {
			balances[member] = 0
		}
	}
	return balances, nil
}

// Recalculate replaces the group's pending settlements with a fresh set
// computed from the current balances. Completed and cancelled settlements
// are history and stay untouched.
func (s *SettlementService) Recalculate(ctx context.Context, userID, groupID string) ([]*models.Settlement, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}

	balances, err := s.Balances(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	transfers := ledger.ComputeSettlements(balances)

	if err := s.store.DeletePendingSettlements(ctx, groupID); err != nil {
		slog.Error("DeletePendingSettlements failed", "error", err, "group_id", groupID)
		return nil, err
	}

	settlements := make([]*models.Settlement, 0, len(transfers))
	for _, t := range transfers {
		settlements = append(settlements, &models.Settlement{
			GroupID:    groupID,
			FromUserID: t.FromUserID,
			ToUserID:   t.ToUserID,
			Amount:     t.Amount,
			Currency:   group.Currency,
			Status:     models.SettlementPending,
		})
	}
	if err := s.store.CreateSettlements(ctx, settlements); err != nil {
		slog.Error("CreateSettlements failed", "error", err, "group_id", groupID)
		return nil, err
	}

	metrics.SettlementRuns.Inc()
	metrics.SettlementsEmitted.Add(float64(len(settlements)))
	slog.Info("Settlements recalculated", "group_id", groupID, "count", len(settlements))
	return settlements, nil
}

// List retrieves a group's settlements, optionally filtered by status.
func (s *SettlementService) List(ctx context.Context, userID, groupID string, status models.SettlementStatus) ([]*models.Settlement, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}
	return s.store.ListSettlementsByGroup(ctx, groupID, status)
}

// Complete marks a pending settlement as paid. Only the creditor, who
// received the money, may confirm it.
func (s *SettlementService) Complete(ctx context.Context, userID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.ToUserID != userID {
		return nil, ErrForbidden
	}
	if err := settlement.Complete(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSettlementStatus(ctx, settlement.ID, settlement.Status, settlement.SettledAt); err != nil {
		return nil, err
	}
	slog.Info("Settlement completed", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	return settlement, nil
}

// Cancel voids a pending settlement. Either party may cancel.
func (s *SettlementService) Cancel(ctx context.Context, userID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if settlement.FromUserID != userID && settlement.ToUserID != userID {
		return nil, ErrForbidden
	}
	if err := settlement.Cancel(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSettlementStatus(ctx, settlement.ID, settlement.Status, settlement.SettledAt); err != nil {
		return nil, err
	}
	slog.Info("Settlement cancelled", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	return settlement, nil
}

// Get retrieves a single settlement visible to the user.
func (s *SettlementService) Get(ctx context.Context, userID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, ErrForbidden
	}
	return settlement, nil
}

// Delete removes a settlement. Any group member may delete; the next
// recalculation will regenerate pending ones anyway.
func (s *SettlementService) Delete(ctx context.Context, userID, settlementID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, settlement.GroupID)
	if err != nil {
		return err
	}
	if !group.HasMember(userID) {
		return ErrForbidden
	}
	return s.store.DeleteSettlement(ctx, settlementID)
}
