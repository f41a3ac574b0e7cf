package models

import "github.com/splitledger/splitledger/internal/ledger"

// Expense represents a shared cost logged against a group. Splits are
// computed synchronously at creation/update time and stored alongside the
// expense; editing the amount or split rule recomputes them from scratch
// and resets all IsPaid flags.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner").
	Description string

	// Amount is the total cost in minor units of the group currency.
	Amount int64

	// Currency echoes the group currency; validated at creation time.
	Currency string

	// SplitType is how the amount is divided among participants.
	SplitType ledger.SplitType

	// Payers lists who contributed money and how much. The amounts sum to
	// Amount. A single payer is a one-element list.
	Payers []ledger.PayerShare

	// Splits is the computed output of the split calculator: each
	// participant's owed share. The owed amounts sum to Amount.
	Splits []ledger.Split

	// CreatedBy is the user ID that logged the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64
}

// LedgerView projects the expense into the shape the balance aggregator
// consumes.
func (e *Expense) LedgerView() ledger.ExpenseView {
	return ledger.ExpenseView{Payers: e.Payers, Splits: e.Splits}
}

// Participants returns the user IDs appearing in the computed splits.
func (e *Expense) Participants() []string {
	ids := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		ids[i] = s.UserID
	}
	return ids
}
