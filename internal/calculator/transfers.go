package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/splitledger/internal/money"
)

// Transfer is a payment that moves Amount from a debtor to a creditor.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

type position struct {
	id        string
	remaining float64
}

// CalculateTransfers plans the payments that bring every balance to within
// money.Epsilon of zero.
//
// Greedy algorithm: match the largest remaining debt with the largest remaining
// credit, pay the smaller of the two, and move past whichever side is settled.
// Produces at most #creditors + #debtors - 1 transfers. Ties are ordered by member
// id so the same balances always yield the same plan.
func CalculateTransfers(balances Balances) []Transfer {
	var creditors, debtors []position
	for id, b := range balances {
		if b > money.Epsilon {
			creditors = append(creditors, position{id: id, remaining: b})
		} else if b < -money.Epsilon {
			debtors = append(debtors, position{id: id, remaining: -b})
		}
	}
	sortLargestFirst(creditors)
	sortLargestFirst(debtors)

	transfers := make([]Transfer, 0, len(creditors)+len(debtors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := min(debtor.remaining, creditor.remaining)
		if amount > money.Epsilon { // Avoid floating point noise
			transfers = append(transfers, Transfer{
				From:   debtor.id,
				To:     creditor.id,
				Amount: money.RoundCents(amount),
			})
		}

		debtor.remaining -= amount
		creditor.remaining -= amount

		if debtor.remaining < money.Epsilon {
			i++
		}
		if creditor.remaining < money.Epsilon {
			j++
		}
	}

	return transfers
}

func sortLargestFirst(ps []position) {
	slices.SortFunc(ps, func(a, b position) int {
		if c := cmp.Compare(b.remaining, a.remaining); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
}
