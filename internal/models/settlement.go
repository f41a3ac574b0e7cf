package models

import (
	"time"

	"github.com/splitledger/splitledger/internal/ledger"
)

// SettlementStatus is the state of a settlement. Completed and cancelled
// are terminal: no transition is defined out of them.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
	SettlementCancelled SettlementStatus = "cancelled"
)

// Settlement represents a directed payment between group members to clear
// debts: FromUserID owes ToUserID. Amount and parties are never mutated
// after creation; a correction requires deleting and recalculating.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID scopes the settlement; settlements never cross groups.
	GroupID string

	// FromUserID is the debtor (who pays).
	FromUserID string

	// ToUserID is the creditor (who receives).
	ToUserID string

	// Amount is the payment amount in minor units, always positive.
	Amount int64

	// Currency echoes the group currency.
	Currency string

	// Status is pending until either party completes or cancels it.
	Status SettlementStatus

	// Note is an optional description.
	Note string

	// CreatedAt is the Unix timestamp when the settlement was computed.
	CreatedAt int64

	// SettledAt is the Unix timestamp of the terminal transition, zero
	// while pending.
	SettledAt int64
}

// Complete marks a pending settlement as paid. Returns InvalidStateError
// if the settlement is already in a terminal state.
func (s *Settlement) Complete() error {
	return s.transition(SettlementCompleted)
}

// Cancel voids a pending settlement. Returns InvalidStateError if the
// settlement is already in a terminal state.
func (s *Settlement) Cancel() error {
	return s.transition(SettlementCancelled)
}

func (s *Settlement) transition(to SettlementStatus) error {
	if s.Status != SettlementPending {
		return &ledger.InvalidStateError{From: string(s.Status), To: string(to)}
	}
	s.Status = to
	s.SettledAt = time.Now().Unix()
	return nil
}
