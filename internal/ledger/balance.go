package ledger

// ExpenseView is the minimal expense shape the aggregator needs: who paid
// what and who owes what. The service layer builds these from stored
// expenses after pre-filtering to a single group.
type ExpenseView struct {
	Payers []PayerShare
	Splits []Split
}

// ComputeBalances folds a group's expense history into one signed net
// balance per participant, in minor units. Positive means the participant
// is owed money, negative means they owe.
//
// Trust boundary: expenses are assumed to have passed split validation
// (splits summing to the amount, payers summing to the amount). They are
// not re-validated here, which is what guarantees the result sums to zero.
func ComputeBalances(expenses []ExpenseView) map[string]int64 {
	balances := make(map[string]int64)
	for _, e := range expenses {
		for _, p := range e.Payers {
			balances[p.UserID] += p.AmountPaid
		}
		for _, s := range e.Splits {
			balances[s.UserID] -= s.OwedAmount
		}
	}
	return balances
}
