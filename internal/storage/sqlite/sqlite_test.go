package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("GetUserByEmail", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got == nil || got.ID != user.ID || got.DisplayName != "Alice" {
			t.Errorf("got %+v, want user %s", got, user.ID)
		}
	})

	t.Run("GetUserByEmail missing returns nil", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got != nil {
			t.Errorf("got %+v, want nil", got)
		}
	})

	t.Run("GetUserByID", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got == nil || got.Email != "alice@example.com" {
			t.Errorf("got %+v, want alice", got)
		}
	})
}

func TestSQLiteStoreGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:      "Trip",
		Currency:  "USD",
		Members:   []string{"u1", "u2", "u3"},
		CreatedBy: "u1",
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.ID == "" || group.CreatedAt == 0 {
		t.Fatal("CreateGroup did not populate ID and CreatedAt")
	}

	t.Run("GetGroup", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Trip" || got.Currency != "USD" || len(got.Members) != 3 {
			t.Errorf("got %+v, want Trip/USD with 3 members", got)
		}
	})

	t.Run("GetGroup missing is ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "missing")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListGroupsByMember", func(t *testing.T) {
		groups, err := store.ListGroupsByMember(ctx, "u2")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("got %d groups, want the one u2 belongs to", len(groups))
		}

		none, err := store.ListGroupsByMember(ctx, "stranger")
		if err != nil {
			t.Fatalf("ListGroupsByMember failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("got %d groups for a non-member, want 0", len(none))
		}
	})

	t.Run("UpdateGroup replaces members", func(t *testing.T) {
		group.Name = "Road Trip"
		group.Members = []string{"u1", "u4"}
		if err := store.UpdateGroup(ctx, group); err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Road Trip" || len(got.Members) != 2 {
			t.Errorf("got %+v, want renamed group with 2 members", got)
		}
	})

	t.Run("DeleteGroup", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound after delete", err)
		}
	})
}

func TestSQLiteStoreExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Flat", Currency: "EUR", Members: []string{"u1", "u2"}, CreatedBy: "u1"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: "Groceries",
		Amount:      5000,
		Currency:    "EUR",
		SplitType:   ledger.SplitEqual,
		Payers:      []ledger.PayerShare{{UserID: "u1", AmountPaid: 5000}},
		Splits: []ledger.Split{
			{UserID: "u1", OwedAmount: 2500, Percentage: 50},
			{UserID: "u2", OwedAmount: 2500, Percentage: 50},
		},
		CreatedBy: "u1",
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	if expense.ID == "" || expense.CreatedAt == 0 {
		t.Fatal("CreateExpense did not populate ID and CreatedAt")
	}

	t.Run("GetExpense retrieves payers and splits", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Description != "Groceries" || got.Amount != 5000 {
			t.Errorf("got %+v, want Groceries/5000", got)
		}
		if len(got.Payers) != 1 || got.Payers[0].AmountPaid != 5000 {
			t.Errorf("payers = %+v, want u1 paying 5000", got.Payers)
		}
		if len(got.Splits) != 2 || got.Splits[0].OwedAmount != 2500 {
			t.Errorf("splits = %+v, want two shares of 2500", got.Splits)
		}
	})

	t.Run("UpdateExpense replaces splits wholesale", func(t *testing.T) {
		expense.Amount = 6000
		expense.Payers = []ledger.PayerShare{{UserID: "u2", AmountPaid: 6000}}
		expense.Splits = []ledger.Split{
			{UserID: "u1", OwedAmount: 4000, Percentage: 66.67},
			{UserID: "u2", OwedAmount: 2000, Percentage: 33.33},
		}
		if err := store.UpdateExpense(ctx, expense); err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}

		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount != 6000 || got.Payers[0].UserID != "u2" || got.Splits[0].OwedAmount != 4000 {
			t.Errorf("got %+v, update not applied", got)
		}
	})

	t.Run("ListExpensesByGroup", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 1 || expenses[0].ID != expense.ID {
			t.Errorf("got %d expenses, want 1", len(expenses))
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound after delete", err)
		}
	})
}

func TestSQLiteStoreSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Dinner", Currency: "THB", Members: []string{"u1", "u2", "u3"}, CreatedBy: "u1"}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	settlements := []*models.Settlement{
		{GroupID: group.ID, FromUserID: "u2", ToUserID: "u1", Amount: 10000, Currency: "THB", Status: models.SettlementPending},
		{GroupID: group.ID, FromUserID: "u3", ToUserID: "u1", Amount: 10000, Currency: "THB", Status: models.SettlementPending},
	}
	if err := store.CreateSettlements(ctx, settlements); err != nil {
		t.Fatalf("CreateSettlements failed: %v", err)
	}
	for _, settlement := range settlements {
		if settlement.ID == "" || settlement.CreatedAt == 0 {
			t.Fatal("CreateSettlements did not populate ID and CreatedAt")
		}
	}

	t.Run("GetSettlement", func(t *testing.T) {
		got, err := store.GetSettlement(ctx, settlements[0].ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.FromUserID != "u2" || got.Amount != 10000 || got.Status != models.SettlementPending {
			t.Errorf("got %+v, want pending u2->u1 of 10000", got)
		}
	})

	t.Run("ListSettlementsByGroup with status filter", func(t *testing.T) {
		all, err := store.ListSettlementsByGroup(ctx, group.ID, "")
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("got %d settlements, want 2", len(all))
		}

		completed, err := store.ListSettlementsByGroup(ctx, group.ID, models.SettlementCompleted)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(completed) != 0 {
			t.Errorf("got %d completed settlements, want 0", len(completed))
		}
	})

	t.Run("UpdateSettlementStatus", func(t *testing.T) {
		target := settlements[0]
		if err := target.Complete(); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		if err := store.UpdateSettlementStatus(ctx, target.ID, target.Status, target.SettledAt); err != nil {
			t.Fatalf("UpdateSettlementStatus failed: %v", err)
		}

		got, err := store.GetSettlement(ctx, target.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.Status != models.SettlementCompleted || got.SettledAt == 0 {
			t.Errorf("got %+v, want completed with SettledAt set", got)
		}
	})

	t.Run("DeletePendingSettlements keeps terminal ones", func(t *testing.T) {
		if err := store.DeletePendingSettlements(ctx, group.ID); err != nil {
			t.Fatalf("DeletePendingSettlements failed: %v", err)
		}

		remaining, err := store.ListSettlementsByGroup(ctx, group.ID, "")
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(remaining) != 1 || remaining[0].Status != models.SettlementCompleted {
			t.Errorf("got %+v, want only the completed settlement", remaining)
		}
	})

	t.Run("DeleteSettlement", func(t *testing.T) {
		if err := store.DeleteSettlement(ctx, settlements[0].ID); err != nil {
			t.Fatalf("DeleteSettlement failed: %v", err)
		}
		if _, err := store.GetSettlement(ctx, settlements[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound after delete", err)
		}
	})
}
