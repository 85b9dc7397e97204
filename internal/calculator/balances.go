// Package calculator computes member balances for a group ledger and the transfers
// that settle them. Everything here is pure: inputs are read-only and every result
// is freshly allocated, so calls on independent ledgers can run concurrently.
package calculator

import (
	"errors"
	"maps"
	"slices"

	"github.com/mmynk/splitledger/internal/money"
)

// ExpenseTypePayment marks a reimbursement recorded among the expenses instead of
// the payments. Such entries move money between two members and are never split.
const ExpenseTypePayment = "payment"

// ErrNoMembers is returned when a ledger has no member universe at all.
var ErrNoMembers = errors.New("ledger has no members")

// Member is a participant of a group. Only the identifier matters for balances.
type Member struct {
	Name string
}

// Expense is a cost paid by one member on behalf of others.
type Expense struct {
	Amount     float64  // In the original currency.
	BaseAmount *float64 // Normalized amount; authoritative when set.
	PaidBy     string
	PaidTo     string // Only used when Type is ExpenseTypePayment.
	Type       string
	Split      Split
}

// Payment is a reimbursement from PaidBy to PaidTo.
type Payment struct {
	Amount     float64
	BaseAmount *float64
	PaidBy     string
	PaidTo     string
}

// Ledger is everything recorded for one group. A nil Members map means the member
// universe is missing; nil Expenses or Payments are simply empty.
type Ledger struct {
	Members  map[string]Member
	Expenses map[string]Expense
	Payments map[string]Payment
}

// Balances maps a member identifier to its net balance in the reference currency.
// Positive = owed money, negative = owes money.
type Balances map[string]float64

// normalized returns base if present, else amount.
func normalized(amount float64, base *float64) float64 {
	if base != nil {
		return *base
	}
	return amount
}

// balanceTable holds one running balance per validated member identifier. Updates
// addressed to any other identifier are dropped.
type balanceTable struct {
	ids    []string
	index  map[string]int
	values []float64
}

func newBalanceTable(members map[string]Member) *balanceTable {
	ids := slices.Sorted(maps.Keys(members))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return &balanceTable{ids: ids, index: index, values: make([]float64, len(ids))}
}

func (t *balanceTable) has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// add applies delta to id's balance, skipping identifiers that are not members.
func (t *balanceTable) add(id string, delta float64) {
	if i, ok := t.index[id]; ok {
		t.values[i] += delta
	}
}

func (t *balanceTable) transfer(from, to string, amount float64) {
	t.add(from, amount)
	t.add(to, -amount)
}

func (t *balanceTable) rounded() Balances {
	out := make(Balances, len(t.ids))
	for i, id := range t.ids {
		out[id] = money.RoundCents(t.values[i])
	}
	return out
}

// CalculateBalances aggregates a ledger into one net balance per member.
//
// Payments credit the payer and debit the payee. Expenses debit members according to
// their split and credit the payer with the full amount; an EqualSubset naming no
// known member is skipped entirely, payer credit included. Identifiers that are not
// members are ignored everywhere. Balances are rounded to cents and sum to zero
// within money.Epsilon.
func CalculateBalances(ledger Ledger) (Balances, error) {
	if ledger.Members == nil {
		return nil, ErrNoMembers
	}

	table := newBalanceTable(ledger.Members)
	if len(table.ids) == 0 {
		return Balances{}, nil
	}

	for _, id := range slices.Sorted(maps.Keys(ledger.Payments)) {
		p := ledger.Payments[id]
		table.transfer(p.PaidBy, p.PaidTo, normalized(p.Amount, p.BaseAmount))
	}

	for _, id := range slices.Sorted(maps.Keys(ledger.Expenses)) {
		applyExpense(table, ledger.Expenses[id])
	}

	return table.rounded(), nil
}

func applyExpense(table *balanceTable, e Expense) {
	amount := normalized(e.Amount, e.BaseAmount)

	if e.Type == ExpenseTypePayment {
		table.transfer(e.PaidBy, e.PaidTo, amount)
		return
	}

	switch split := e.Split.(type) {
	case CustomShares:
		for id, share := range split.Shares {
			table.add(id, -share)
		}
	case EqualSubset:
		valid := make([]string, 0, len(split.Members))
		for _, id := range split.Members {
			if table.has(id) {
				valid = append(valid, id)
			}
		}
		if len(valid) == 0 {
			return
		}
		share := amount / float64(len(valid))
		for _, id := range valid {
			table.add(id, -share)
		}
	case EqualAll, nil:
		share := amount / float64(len(table.ids))
		for _, id := range table.ids {
			table.add(id, -share)
		}
	default:
		return
	}

	table.add(e.PaidBy, amount)
}

// TotalSpent sums the normalized amounts of all real expenses, leaving out
// reimbursements recorded as ExpenseTypePayment.
func TotalSpent(expenses map[string]Expense) float64 {
	var total float64
	for _, id := range slices.Sorted(maps.Keys(expenses)) {
		e := expenses[id]
		if e.Type == ExpenseTypePayment {
			continue
		}
		total += normalized(e.Amount, e.BaseAmount)
	}
	return money.RoundCents(total)
}
