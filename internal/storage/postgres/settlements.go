package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateSettlements batch-inserts settlements using a pgx batch.
func (s *PostgresStore) CreateSettlements(ctx context.Context, settlements []*models.Settlement) error {
	if len(settlements) == 0 {
		return nil
	}

	now := time.Now().Unix()
	batch := &pgx.Batch{}
	for _, settlement := range settlements {
		if settlement.ID == "" {
			settlement.ID = uuid.New().String()
		}
		if settlement.CreatedAt == 0 {
			settlement.CreatedAt = now
		}

		var note *string
		if settlement.Note != "" {
			note = &settlement.Note
		}
		var settledAt *int64
		if settlement.SettledAt != 0 {
			settledAt = &settlement.SettledAt
		}

		batch.Queue(
			`INSERT INTO settlements (id, group_id, from_user_id, to_user_id, amount, currency, status, note, created_at, settled_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
			settlement.Amount, settlement.Currency, string(settlement.Status), note,
			settlement.CreatedAt, settledAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range settlements {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *PostgresStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var note *string
	var settledAt *int64

	err := s.pool.QueryRow(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, note, created_at, settled_at
		 FROM settlements WHERE id = $1`,
		settlementID,
	).Scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&settlement.Amount, &settlement.Currency, &status, &note, &settlement.CreatedAt, &settledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	settlement.Status = models.SettlementStatus(status)
	if note != nil {
		settlement.Note = *note
	}
	if settledAt != nil {
		settlement.SettledAt = *settledAt
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves a group's settlements, newest first,
// optionally filtered by status.
func (s *PostgresStore) ListSettlementsByGroup(ctx context.Context, groupID string, status models.SettlementStatus) ([]*models.Settlement, error) {
	query := `SELECT id, group_id, from_user_id, to_user_id, amount, currency, status, note, created_at, settled_at
		 FROM settlements WHERE group_id = $1`
	args := []interface{}{groupID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement := &models.Settlement{}
		var st string
		var note *string
		var settledAt *int64

		if err := rows.Scan(&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
			&settlement.Amount, &settlement.Currency, &st, &note, &settlement.CreatedAt, &settledAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}

		settlement.Status = models.SettlementStatus(st)
		if note != nil {
			settlement.Note = *note
		}
		if settledAt != nil {
			settlement.SettledAt = *settledAt
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// UpdateSettlementStatus records a status transition.
func (s *PostgresStore) UpdateSettlementStatus(ctx context.Context, settlementID string, status models.SettlementStatus, settledAt int64) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE settlements SET status = $1, settled_at = $2 WHERE id = $3",
		string(status), settledAt, settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	return nil
}

// DeleteSettlement removes a settlement by ID.
func (s *PostgresStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM settlements WHERE id = $1", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: settlement %s", storage.ErrNotFound, settlementID)
	}
	return nil
}

// DeletePendingSettlements removes a group's pending settlements.
func (s *PostgresStore) DeletePendingSettlements(ctx context.Context, groupID string) error {
	_, err := s.pool.Exec(ctx,
		"DELETE FROM settlements WHERE group_id = $1 AND status = $2",
		groupID, string(models.SettlementPending),
	)
	if err != nil {
		return fmt.Errorf("failed to delete pending settlements: %w", err)
	}
	return nil
}
