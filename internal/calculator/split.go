package calculator

import (
	"fmt"
)

// Split decides how an expense is charged to members. It is one of EqualAll,
// EqualSubset or CustomShares; a nil Split is treated as EqualAll.
type Split interface {
	isSplit()
}

// EqualAll divides the expense evenly across every group member.
type EqualAll struct{}

// EqualSubset divides the expense evenly across the listed members.
// Identifiers that are not group members are dropped before dividing.
type EqualSubset struct {
	Members []string
}

// CustomShares charges each listed member a fixed amount in the reference currency.
// Shares are not checked against the expense total; the payer absorbs any difference.
type CustomShares struct {
	Shares map[string]float64
}

func (EqualAll) isSplit()     {}
func (EqualSubset) isSplit()  {}
func (CustomShares) isSplit() {}

// Item represents a single line item on an itemized receipt.
type Item struct {
	Description string
	Amount      float64
	AssignedTo  []string
}

// ItemizedShares computes how much each participant owes for an itemized receipt,
// including a proportional share of tax and fees:
// person_total = person_subtotal × (1 + (total_tax / receipt_subtotal)).
//
// Items with no assignees are skipped, and so are assignees that are not listed
// participants; at least one item must reach a participant. With no items the
// total is divided equally. The result is meant to
// be used as a CustomShares split.
func ItemizedShares(items []Item, total float64, subtotal float64, participants []string) (map[string]float64, error) {
	if subtotal == 0 {
		return nil, fmt.Errorf("subtotal cannot be zero")
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}

	shares := make(map[string]float64, len(participants))
	for _, p := range participants {
		shares[p] = 0
	}

	if len(items) == 0 {
		perPerson := total / float64(len(participants))
		for p := range shares {
			shares[p] = perPerson
		}
		return shares, nil
	}

	assigned := false
	for _, item := range items {
		if len(item.AssignedTo) == 0 {
			continue
		}
		perPerson := item.Amount / float64(len(item.AssignedTo))
		for _, person := range item.AssignedTo {
			if _, ok := shares[person]; ok {
				shares[person] += perPerson
				assigned = true
			}
		}
	}
	if !assigned {
		return nil, fmt.Errorf("no item is assigned to a participant")
	}

	tax := total - subtotal
	for p, personSubtotal := range shares {
		shares[p] = personSubtotal + personSubtotal*(tax/subtotal)
	}

	return shares, nil
}
