// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitledger/splitledger/internal/models"
)

// ErrNotFound is wrapped by store implementations when a record does not
// exist, so callers can map it to a 404 with errors.Is.
var ErrNotFound = errors.New("not found")

// Store defines the interface for persistence operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL) without changing
// the service layer.
type Store interface {
	// Users.

	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail retrieves a user by email; returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID retrieves a user by ID; returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Groups.

	// CreateGroup persists a new group, populating ID and CreatedAt.
	CreateGroup(ctx context.Context, group *models.Group) error
	// GetGroup retrieves a group with its member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	// ListGroupsByMember retrieves all groups the user belongs to.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)
	// UpdateGroup replaces the group's name and member list.
	UpdateGroup(ctx context.Context, group *models.Group) error
	// DeleteGroup removes a group and, via cascade, its expenses and
	// settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// Expenses.

	// CreateExpense persists an expense with its payers and computed
	// splits in one transaction, populating ID and CreatedAt.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense retrieves an expense with payers and splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	// ListExpensesByGroup retrieves a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	// UpdateExpense replaces an expense and its payers/splits wholesale.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	// DeleteExpense removes an expense and its payers/splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// Settlements.

	// CreateSettlements batch-inserts computed settlements, populating IDs
	// and CreatedAt.
	CreateSettlements(ctx context.Context, settlements []*models.Settlement) error
	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	// ListSettlementsByGroup retrieves a group's settlements, newest
	// first, optionally filtered by status ("" means all).
	ListSettlementsByGroup(ctx context.Context, groupID string, status models.SettlementStatus) ([]*models.Settlement, error)
	// UpdateSettlementStatus records a status transition.
	UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt int64) error
	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error
	// DeletePendingSettlements removes a group's pending settlements so a
	// recalculation starts clean. Terminal settlements are history and
	// stay untouched.
	DeletePendingSettlements(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
