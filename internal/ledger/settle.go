package ledger

import (
	"sort"

	"github.com/splitledger/splitledger/internal/money"
)

// Transfer is a directed payment instruction: FromUserID owes ToUserID.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     int64
}

// ComputeSettlements reduces a balance mapping to a small set of directed
// payments that zeroes all balances. Greedy largest-remaining matching:
// repeatedly settle min(creditorRemaining, debtorRemaining) between the
// largest creditor and the largest debtor. This does not guarantee the
// theoretically minimal transaction count (an NP-hard partition problem)
// but terminates with at most n-1 transfers and a zero-sum result.
//
// Balances are sorted before matching so equal inputs produce equal
// outputs. Residues within money.Tolerance are treated as settled.
func ComputeSettlements(balances map[string]int64) []Transfer {
	type party struct {
		userID    string
		remaining int64
	}

	var creditors, debtors []party
	for userID, balance := range balances {
		switch {
		case balance > money.Tolerance:
			creditors = append(creditors, party{userID, balance})
		case balance < -money.Tolerance:
			debtors = append(debtors, party{userID, -balance})
		}
	}
	// Largest remaining first; user ID breaks ties for determinism.
	byRemaining := func(parties []party) func(i, j int) bool {
		return func(i, j int) bool {
			if parties[i].remaining != parties[j].remaining {
				return parties[i].remaining > parties[j].remaining
			}
			return parties[i].userID < parties[j].userID
		}
	}
	sort.Slice(creditors, byRemaining(creditors))
	sort.Slice(debtors, byRemaining(debtors))

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := debtor.remaining
		if creditor.remaining < amount {
			amount = creditor.remaining
		}
		if amount > money.Tolerance {
			transfers = append(transfers, Transfer{
				FromUserID: debtor.userID,
				ToUserID:   creditor.userID,
				Amount:     amount,
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount
		if debtor.remaining <= money.Tolerance {
			i++
		}
		if creditor.remaining <= money.Tolerance {
			j++
		}
	}
	return transfers
}
