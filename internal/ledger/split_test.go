package ledger

import (
	"errors"
	"testing"
)

func sumOwed(splits []Split) int64 {
	var total int64
	for _, s := range splits {
		total += s.OwedAmount
	}
	return total
}

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       int64
		splitType    SplitType
		directive    Directive
		wantErr      bool
		validateFunc func(t *testing.T, splits []Split)
	}{
		{
			name:      "equal three-way split",
			amount:    30000,
			splitType: SplitEqual,
			directive: Directive{Participants: []string{"A", "B", "C"}},
			validateFunc: func(t *testing.T, splits []Split) {
				for _, s := range splits {
					if s.OwedAmount != 10000 {
						t.Errorf("%s owed = %d, want 10000", s.UserID, s.OwedAmount)
					}
				}
			},
		},
		{
			name:      "equal split distributes remainder to first participants",
			amount:    100,
			splitType: SplitEqual,
			directive: Directive{Participants: []string{"A", "B", "C"}},
			validateFunc: func(t *testing.T, splits []Split) {
				want := []int64{34, 33, 33}
				for i, s := range splits {
					if s.OwedAmount != want[i] {
						t.Errorf("%s owed = %d, want %d", s.UserID, s.OwedAmount, want[i])
					}
				}
				if got := sumOwed(splits); got != 100 {
					t.Errorf("splits sum to %d, want 100", got)
				}
			},
		},
		{
			name:      "equal split single participant",
			amount:    500,
			splitType: SplitEqual,
			directive: Directive{Participants: []string{"A"}},
			validateFunc: func(t *testing.T, splits []Split) {
				if len(splits) != 1 || splits[0].OwedAmount != 500 {
					t.Errorf("splits = %+v, want single share of 500", splits)
				}
			},
		},
		{
			name:      "equal split duplicate participant",
			amount:    100,
			splitType: SplitEqual,
			directive: Directive{Participants: []string{"A", "B", "A"}},
			wantErr:   true,
		},
		{
			name:      "equal split no participants",
			amount:    100,
			splitType: SplitEqual,
			directive: Directive{},
			wantErr:   true,
		},
		{
			name:      "percentage 50/30/20",
			amount:    10000,
			splitType: SplitPercentage,
			directive: Directive{Percents: []PercentShare{
				{UserID: "A", Percent: 50},
				{UserID: "B", Percent: 30},
				{UserID: "C", Percent: 20},
			}},
			validateFunc: func(t *testing.T, splits []Split) {
				want := map[string]int64{"A": 5000, "B": 3000, "C": 2000}
				for _, s := range splits {
					if s.OwedAmount != want[s.UserID] {
						t.Errorf("%s owed = %d, want %d", s.UserID, s.OwedAmount, want[s.UserID])
					}
				}
			},
		},
		{
			name:      "percentage rounding reconciles to amount",
			amount:    100,
			splitType: SplitPercentage,
			directive: Directive{Percents: []PercentShare{
				{UserID: "A", Percent: 33.33},
				{UserID: "B", Percent: 33.33},
				{UserID: "C", Percent: 33.34},
			}},
			validateFunc: func(t *testing.T, splits []Split) {
				if got := sumOwed(splits); got != 100 {
					t.Errorf("splits sum to %d, want 100", got)
				}
				for _, s := range splits {
					if s.OwedAmount < 33 || s.OwedAmount > 34 {
						t.Errorf("%s owed = %d, want 33 or 34", s.UserID, s.OwedAmount)
					}
				}
			},
		},
		{
			name:      "percentage sum 99 rejected",
			amount:    10000,
			splitType: SplitPercentage,
			directive: Directive{Percents: []PercentShare{
				{UserID: "A", Percent: 50},
				{UserID: "B", Percent: 49},
			}},
			wantErr: true,
		},
		{
			name:      "percentage sum just inside tolerance",
			amount:    10000,
			splitType: SplitPercentage,
			directive: Directive{Percents: []PercentShare{
				{UserID: "A", Percent: 50},
				{UserID: "B", Percent: 49.995},
			}},
			validateFunc: func(t *testing.T, splits []Split) {
				if got := sumOwed(splits); got != 10000 {
					t.Errorf("splits sum to %d, want 10000", got)
				}
			},
		},
		{
			name:      "percentage negative share rejected",
			amount:    10000,
			splitType: SplitPercentage,
			directive: Directive{Percents: []PercentShare{
				{UserID: "A", Percent: 120},
				{UserID: "B", Percent: -20},
			}},
			wantErr: true,
		},
		{
			name:      "custom amounts taken verbatim",
			amount:    10000,
			splitType: SplitCustom,
			directive: Directive{Amounts: []CustomShare{
				{UserID: "A", Amount: 3333},
				{UserID: "B", Amount: 3333},
				{UserID: "C", Amount: 3334},
			}},
			validateFunc: func(t *testing.T, splits []Split) {
				want := map[string]int64{"A": 3333, "B": 3333, "C": 3334}
				for _, s := range splits {
					if s.OwedAmount != want[s.UserID] {
						t.Errorf("%s owed = %d, want %d", s.UserID, s.OwedAmount, want[s.UserID])
					}
				}
			},
		},
		{
			name:      "custom amounts off by one unit accepted",
			amount:    10000,
			splitType: SplitCustom,
			directive: Directive{Amounts: []CustomShare{
				{UserID: "A", Amount: 5000},
				{UserID: "B", Amount: 4999},
			}},
			validateFunc: func(t *testing.T, splits []Split) {
				if got := sumOwed(splits); got != 9999 {
					t.Errorf("splits sum to %d, want verbatim 9999", got)
				}
			},
		},
		{
			name:      "custom amounts short by two units rejected",
			amount:    10000,
			splitType: SplitCustom,
			directive: Directive{Amounts: []CustomShare{
				{UserID: "A", Amount: 5000},
				{UserID: "B", Amount: 4998},
			}},
			wantErr: true,
		},
		{
			name:      "zero amount rejected",
			amount:    0,
			splitType: SplitEqual,
			directive: Directive{Participants: []string{"A"}},
			wantErr:   true,
		},
		{
			name:      "unknown split type rejected",
			amount:    100,
			splitType: SplitType("shares"),
			directive: Directive{Participants: []string{"A"}},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplits(tt.amount, tt.splitType, tt.directive)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Errorf("error = %v, want *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeSplits() error = %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, splits)
			}
		})
	}
}

func TestComputeSplitsNoPaidFlags(t *testing.T) {
	splits, err := ComputeSplits(900, SplitEqual, Directive{Participants: []string{"A", "B", "C"}})
	if err != nil {
		t.Fatalf("ComputeSplits() error = %v", err)
	}
	for _, s := range splits {
		if s.IsPaid {
			t.Errorf("%s IsPaid = true, fresh splits must start unpaid", s.UserID)
		}
	}
}

func TestValidatePayers(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		payers  []PayerShare
		wantErr bool
	}{
		{
			name:   "single payer covering the amount",
			amount: 30000,
			payers: []PayerShare{{UserID: "A", AmountPaid: 30000}},
		},
		{
			name:   "multiple payers summing to the amount",
			amount: 30000,
			payers: []PayerShare{
				{UserID: "A", AmountPaid: 20000},
				{UserID: "B", AmountPaid: 10000},
			},
		},
		{
			name:    "no payers",
			amount:  100,
			payers:  nil,
			wantErr: true,
		},
		{
			name:   "payer sum mismatch",
			amount: 30000,
			payers: []PayerShare{
				{UserID: "A", AmountPaid: 20000},
				{UserID: "B", AmountPaid: 5000},
			},
			wantErr: true,
		},
		{
			name:   "duplicate payer",
			amount: 200,
			payers: []PayerShare{
				{UserID: "A", AmountPaid: 100},
				{UserID: "A", AmountPaid: 100},
			},
			wantErr: true,
		},
		{
			name:    "non-positive payer amount",
			amount:  100,
			payers:  []PayerShare{{UserID: "A", AmountPaid: 0}, {UserID: "B", AmountPaid: 100}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayers(tt.amount, tt.payers)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("ValidatePayers() error = %v", err)
			}
		})
	}
}
