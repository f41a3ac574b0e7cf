package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/report"
	"github.com/splitledger/splitledger/internal/storage"
)

// StatementService composes group statements (balances, expenses, and
// settlements with resolved display names) and renders them as PDFs.
type StatementService struct {
	store storage.Store
}

// NewStatementService creates a new StatementService with the given
// storage backend.
func NewStatementService(store storage.Store) *StatementService {
	return &StatementService{store: store}
}

// GroupStatementPDF builds a PDF statement for the group. Balances are
// listed for every member, debtors last; expenses and settlements come
// back newest first from the store.
func (s *StatementService) GroupStatementPDF(ctx context.Context, userID, groupID string) ([]byte, error) {
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
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID, "")
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

	names, err := s.displayNames(ctx, group.Members)
	if err != nil {
		return nil, err
	}

	st := &report.Statement{
		GroupName:   group.Name,
		Currency:    group.Currency,
		GeneratedAt: time.Now(),
	}
	for memberID, amount := range balances {
		st.Balances = append(st.Balances, report.BalanceLine{
			DisplayName: names.resolve(memberID),
			Amount:      amount,
		})
	}
	sort.Slice(st.Balances, func(i, j int) bool {
		if st.Balances[i].Amount != st.Balances[j].Amount {
			return st.Balances[i].Amount > st.Balances[j].Amount
		}
		return st.Balances[i].DisplayName < st.Balances[j].DisplayName
	})
	for _, e := range expenses {
		st.Expenses = append(st.Expenses, report.ExpenseLine{
			Description: e.Description,
			PaidBy:      names.resolvePayers(e.Payers),
			Amount:      e.Amount,
			CreatedAt:   e.CreatedAt,
		})
	}
	for _, settlement := range settlements {
		st.Settlements = append(st.Settlements, report.SettlementLine{
			From:   names.resolve(settlement.FromUserID),
			To:     names.resolve(settlement.ToUserID),
			Amount: settlement.Amount,
			Status: string(settlement.Status),
		})
	}

	pdf, err := report.BuildStatementPDF(st)
	if err != nil {
		slog.Error("BuildStatementPDF failed", "error", err, "group_id", groupID)
		return nil, err
	}
	return pdf, nil
}

type nameIndex map[string]string

// displayNames resolves group member IDs to display names. Users deleted
// since the group was created fall back to their raw ID.
func (s *StatementService) displayNames(ctx context.Context, memberIDs []string) (nameIndex, error) {
	names := make(nameIndex, len(memberIDs))
	for _, id := range memberIDs {
		user, err := s.store.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			names[id] = user.DisplayName
		}
	}
	return names, nil
}

func (n nameIndex) resolve(userID string) string {
	if name, ok := n[userID]; ok && name != "" {
		return name
	}
	return userID
}

func (n nameIndex) resolvePayers(payers []ledger.PayerShare) string {
	parts := make([]string, len(payers))
	for i, p := range payers {
		parts[i] = n.resolve(p.UserID)
	}
	return strings.Join(parts, ", ")
}
