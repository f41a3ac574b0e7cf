// Package ledger implements the balance accounting and settlement engine:
// split calculation, per-member net balances, and greedy debt matching.
// Every function here is pure; all amounts are int64 minor units.
package ledger

import (
	"math"
	"sort"

	"github.com/splitledger/splitledger/internal/money"
)

// percentTolerance is the allowed deviation of a percentage directive's
// sum from 100, absorbing two-decimal-place rounding in the input.
const percentTolerance = 0.01

// SplitType selects how an expense amount is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitCustom     SplitType = "custom"
)

// Split is one participant's owed share of a single expense.
type Split struct {
	UserID     string  `json:"user_id"`
	OwedAmount int64   `json:"owed_amount"`
	Percentage float64 `json:"percentage"`
	IsPaid     bool    `json:"is_paid"`
}

// PayerShare records how much one participant contributed toward an
// expense's amount. A single payer is just a one-element list.
type PayerShare struct {
	UserID     string `json:"user_id"`
	AmountPaid int64  `json:"amount_paid"`
}

// PercentShare is a percentage directive entry.
type PercentShare struct {
	UserID  string  `json:"user_id"`
	Percent float64 `json:"percent"`
}

// CustomShare is a custom-amount directive entry.
type CustomShare struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// Directive carries the per-split-type input. Exactly one field is
// consulted, chosen by the SplitType passed to ComputeSplits.
type Directive struct {
	Participants []string       `json:"participants,omitempty"`
	Percents     []PercentShare `json:"percents,omitempty"`
	Amounts      []CustomShare  `json:"amounts,omitempty"`
}

// ComputeSplits converts (amount, splitType, directive) into a validated
// set of per-participant owed amounts. The returned splits always sum to
// the expense amount within money.Tolerance; for equal and percentage
// splits the rounding remainder is distributed (largest-remainder) so the
// sum reconciles exactly.
func ComputeSplits(amount int64, splitType SplitType, directive Directive) ([]Split, error) {
	if amount <= 0 {
		return nil, validationErrorf("amount must be positive, got %s", money.Format(amount))
	}

	switch splitType {
	case SplitEqual:
		return equalSplits(amount, directive.Participants)
	case SplitPercentage:
		return percentageSplits(amount, directive.Percents)
	case SplitCustom:
		return customSplits(amount, directive.Amounts)
	default:
		return nil, validationErrorf("unknown split type %q", splitType)
	}
}

func equalSplits(amount int64, participants []string) ([]Split, error) {
	if len(participants) == 0 {
		return nil, validationErrorf("equal split requires at least one participant")
	}
	if dup := firstDuplicate(participants); dup != "" {
		return nil, validationErrorf("participant %q appears more than once", dup)
	}

	n := int64(len(participants))
	base := amount / n
	remainder := amount % n
	pct := 100.0 / float64(n)

	splits := make([]Split, len(participants))
	for i, userID := range participants {
		owed := base
		// First amount%n participants carry one extra minor unit so the
		// shares sum to the amount exactly.
		if int64(i) < remainder {
			owed++
		}
		splits[i] = Split{UserID: userID, OwedAmount: owed, Percentage: pct}
	}
	return splits, nil
}

func percentageSplits(amount int64, shares []PercentShare) ([]Split, error) {
	if len(shares) == 0 {
		return nil, validationErrorf("percentage split requires at least one share")
	}

	var total float64
	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		if seen[s.UserID] {
			return nil, validationErrorf("participant %q appears more than once", s.UserID)
		}
		seen[s.UserID] = true
		if s.Percent < 0 {
			return nil, validationErrorf("percentage for %q must not be negative", s.UserID)
		}
		total += s.Percent
	}
	if math.Abs(total-100.0) > percentTolerance {
		return nil, validationErrorf("percentages must sum to 100, got %.2f", total)
	}

	// Floor each share, then hand out the leftover minor units in order of
	// largest fractional remainder.
	splits := make([]Split, len(shares))
	order := make([]int, len(shares))
	fractions := make([]float64, len(shares))
	var allocated int64
	for i, s := range shares {
		raw := float64(amount) * s.Percent / 100.0
		base := int64(math.Floor(raw))
		splits[i] = Split{UserID: s.UserID, OwedAmount: base, Percentage: s.Percent}
		fractions[i] = raw - float64(base)
		order[i] = i
		allocated += base
	}
	sort.SliceStable(order, func(a, b int) bool {
		return fractions[order[a]] > fractions[order[b]]
	})
	for leftover := amount - allocated; leftover != 0; {
		for _, idx := range order {
			if leftover > 0 {
				splits[idx].OwedAmount++
				leftover--
			} else {
				splits[idx].OwedAmount--
				leftover++
			}
			if leftover == 0 {
				break
			}
		}
	}
	return splits, nil
}

func customSplits(amount int64, shares []CustomShare) ([]Split, error) {
	if len(shares) == 0 {
		return nil, validationErrorf("custom split requires at least one share")
	}

	var total int64
	seen := make(map[string]bool, len(shares))
	for _, s := range shares {
		if seen[s.UserID] {
			return nil, validationErrorf("participant %q appears more than once", s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount < 0 {
			return nil, validationErrorf("custom amount for %q must not be negative", s.UserID)
		}
		total += s.Amount
	}
	if !money.WithinTolerance(total, amount) {
		return nil, validationErrorf("custom amounts sum to %s, expense amount is %s",
			money.Format(total), money.Format(amount))
	}

	// Splits carry the directive amounts verbatim; the percentage is
	// derived and informational only.
	splits := make([]Split, len(shares))
	for i, s := range shares {
		splits[i] = Split{
			UserID:     s.UserID,
			OwedAmount: s.Amount,
			Percentage: float64(s.Amount) / float64(amount) * 100.0,
		}
	}
	return splits, nil
}

// ValidatePayers checks that payer contributions sum to the expense amount
// and that no payer appears twice. Payer-inclusion-in-participants is
// caller policy and checked in the service layer, not here.
func ValidatePayers(amount int64, payers []PayerShare) error {
	if len(payers) == 0 {
		return validationErrorf("expense requires at least one payer")
	}
	var total int64
	seen := make(map[string]bool, len(payers))
	for _, p := range payers {
		if seen[p.UserID] {
			return validationErrorf("payer %q appears more than once", p.UserID)
		}
		seen[p.UserID] = true
		if p.AmountPaid <= 0 {
			return validationErrorf("payer %q amount must be positive", p.UserID)
		}
		total += p.AmountPaid
	}
	if !money.WithinTolerance(total, amount) {
		return validationErrorf("payer amounts sum to %s, expense amount is %s",
			money.Format(total), money.Format(amount))
	}
	return nil
}

func firstDuplicate(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}
