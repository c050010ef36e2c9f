// Package settle nets a set of parties' balances into direct pairwise
// transfers. The matching is the classic greedy two-pointer heuristic:
// near-minimal transfer counts for the small party sets this serves
// (exact minimization is NP-hard in general).
package settle

import (
	"math"
	"sort"

	"github.com/sells-group/investor-cli/internal/model"
)

// epsilon is the floating-point noise floor: transfers at or below this
// amount are dropped.
const epsilon = 0.01

// Balances computes each party's position against the pool.
// Balance = entitlement − netCollected: positive means the pool owes the
// party, negative means the party must pay in.
func Balances(parties []model.Party, netProceeds float64) []model.PartyBalance {
	balances := make([]model.PartyBalance, 0, len(parties))
	for _, p := range parties {
		entitlement := netProceeds * p.SplitPercent / 100
		collected := p.NetCollected()
		balances = append(balances, model.PartyBalance{
			Name:        p.Name,
			Entitlement: entitlement,
			Collected:   collected,
			Balance:     entitlement - collected,
		})
	}
	return balances
}

// Compute returns the transfers that settle all party balances. Debtors
// (most negative first) are greedily matched against creditors (largest
// first); party A can pay party B directly even if the two never
// exchanged goods.
func Compute(parties []model.Party, netProceeds float64) []model.Transfer {
	balances := Balances(parties, netProceeds)

	var debtors, creditors []model.PartyBalance
	for _, b := range balances {
		switch {
		case b.Balance < -epsilon:
			debtors = append(debtors, b)
		case b.Balance > epsilon:
			creditors = append(creditors, b)
		}
	}

	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].Balance < debtors[j].Balance
	})
	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].Balance > creditors[j].Balance
	})

	var transfers []model.Transfer
	di, ci := 0, 0
	for di < len(debtors) && ci < len(creditors) {
		owed := -debtors[di].Balance
		due := creditors[ci].Balance

		amount := math.Min(owed, due)
		if amount > epsilon {
			transfers = append(transfers, model.Transfer{
				From:   debtors[di].Name,
				To:     creditors[ci].Name,
				Amount: amount,
			})
		}

		debtors[di].Balance += amount
		creditors[ci].Balance -= amount

		if -debtors[di].Balance <= epsilon {
			di++
		}
		if creditors[ci].Balance <= epsilon {
			ci++
		}
	}

	return transfers
}
