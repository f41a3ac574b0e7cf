package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateExpense persists an expense with payers and splits transactionally.
func (s *PostgresStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO expenses (id, group_id, description, amount, currency, split_type, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount,
		expense.Currency, string(expense.SplitType), expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertPayersAndSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense replaces an expense and its payers/splits wholesale.
func (s *PostgresStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE expenses SET description = $1, amount = $2, currency = $3, split_type = $4
		 WHERE id = $5`,
		expense.Description, expense.Amount, expense.Currency, string(expense.SplitType), expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expense.ID)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM expense_payers WHERE expense_id = $1", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense payers: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM expense_splits WHERE expense_id = $1", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense splits: %w", err)
	}
	if err := insertPayersAndSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertPayersAndSplits(ctx context.Context, tx pgx.Tx, expense *models.Expense) error {
	for i, p := range expense.Payers {
		if _, err := tx.Exec(ctx,
			"INSERT INTO expense_payers (expense_id, user_id, amount_paid, position) VALUES ($1, $2, $3, $4)",
			expense.ID, p.UserID, p.AmountPaid, i,
		); err != nil {
			return fmt.Errorf("failed to insert expense payer: %w", err)
		}
	}
	for i, sp := range expense.Splits {
		if _, err := tx.Exec(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, owed_amount, percentage, is_paid, position) VALUES ($1, $2, $3, $4, $5, $6)",
			expense.ID, sp.UserID, sp.OwedAmount, sp.Percentage, sp.IsPaid, i,
		); err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense with payers and splits.
func (s *PostgresStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := s.pool.QueryRow(ctx,
		`SELECT id, group_id, description, amount, currency, split_type, created_by, created_at
		 FROM expenses WHERE id = $1`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Currency, &splitType, &expense.CreatedBy, &expense.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.SplitType = ledger.SplitType(splitType)

	payerRows, err := s.pool.Query(ctx,
		"SELECT user_id, amount_paid FROM expense_payers WHERE expense_id = $1 ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense payers: %w", err)
	}
	defer payerRows.Close()

	for payerRows.Next() {
		var p ledger.PayerShare
		if err := payerRows.Scan(&p.UserID, &p.AmountPaid); err != nil {
			return nil, fmt.Errorf("failed to scan expense payer: %w", err)
		}
		expense.Payers = append(expense.Payers, p)
	}
	if err := payerRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense payers: %w", err)
	}

	splitRows, err := s.pool.Query(ctx,
		"SELECT user_id, owed_amount, percentage, is_paid FROM expense_splits WHERE expense_id = $1 ORDER BY position",
		expense.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var sp ledger.Split
		if err := splitRows.Scan(&sp.UserID, &sp.OwedAmount, &sp.Percentage, &sp.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		expense.Splits = append(expense.Splits, sp)
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return expense, nil
}

// ListExpensesByGroup retrieves a group's expenses, newest first.
func (s *PostgresStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id FROM expenses WHERE group_id = $1 ORDER BY created_at DESC, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expense id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	expenses := make([]*models.Expense, 0, len(ids))
	for _, id := range ids {
		expense, err := s.GetExpense(ctx, id)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// DeleteExpense removes an expense; payers and splits cascade.
func (s *PostgresStore) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	return nil
}
