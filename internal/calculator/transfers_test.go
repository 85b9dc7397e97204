package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferTotal(ts []Transfer) float64 {
	var total float64
	for _, t := range ts {
		total += t.Amount
	}
	return total
}

func positiveTotal(b Balances) float64 {
	var total float64
	for _, v := range b {
		if v > 0 {
			total += v
		}
	}
	return total
}

func TestCalculateTransfers_SingleTransfer(t *testing.T) {
	ts := CalculateTransfers(Balances{"a": 50, "b": -50})

	require.Len(t, ts, 1)
	assert.Equal(t, Transfer{From: "b", To: "a", Amount: 50}, ts[0])
}

func TestCalculateTransfers_TwoPartyUnevenUsesSmallerSide(t *testing.T) {
	// Balances that do not net out (e.g. hand-built) still produce one transfer
	// of min(credit, debt).
	ts := CalculateTransfers(Balances{"a": 80, "b": -30})

	require.Len(t, ts, 1)
	assert.Equal(t, Transfer{From: "b", To: "a", Amount: 30}, ts[0])
}

func TestCalculateTransfers_OneCreditorTwoDebtors(t *testing.T) {
	ts := CalculateTransfers(Balances{"a": 60, "b": -30, "c": -30})

	require.Len(t, ts, 2)
	assert.InDelta(t, 60, transferTotal(ts), 0.01)
	for _, tr := range ts {
		assert.Equal(t, "a", tr.To)
	}
}

func TestCalculateTransfers_LargestFirst(t *testing.T) {
	ts := CalculateTransfers(Balances{
		"a": 70,
		"b": 30,
		"c": -60,
		"d": -40,
	})

	assert.Equal(t, []Transfer{
		{From: "c", To: "a", Amount: 60},
		{From: "d", To: "a", Amount: 10},
		{From: "d", To: "b", Amount: 30},
	}, ts)
}

func TestCalculateTransfers_TiesOrderedByID(t *testing.T) {
	ts := CalculateTransfers(Balances{"z": 10, "y": 10, "b": -10, "a": -10})

	assert.Equal(t, []Transfer{
		{From: "a", To: "y", Amount: 10},
		{From: "b", To: "z", Amount: 10},
	}, ts)
}

func TestCalculateTransfers_IgnoresDust(t *testing.T) {
	assert.Empty(t, CalculateTransfers(Balances{"a": 0.01, "b": -0.01}))
	assert.Empty(t, CalculateTransfers(Balances{"a": 0, "b": 0}))
	assert.Empty(t, CalculateTransfers(Balances{}))
	assert.Empty(t, CalculateTransfers(nil))
}

func TestCalculateTransfers_RoundsAmounts(t *testing.T) {
	ts := CalculateTransfers(Balances{"a": 66.67, "b": -33.33, "c": -33.34})

	require.Len(t, ts, 2)
	assert.Equal(t, Transfer{From: "c", To: "a", Amount: 33.34}, ts[0])
	assert.Equal(t, "b", ts[1].From)
	assert.Equal(t, 33.33, ts[1].Amount)
}

func TestCalculateTransfers_Completeness(t *testing.T) {
	cases := []Balances{
		{"a": 40, "b": 10, "c": -50},
		{"a": 12.5, "b": 7.25, "c": -3.75, "d": -16},
		{"a": 100, "b": -20, "c": -20, "d": -20, "e": -40},
		{"a": 33.34, "b": -16.67, "c": -16.67},
	}

	for _, bal := range cases {
		ts := CalculateTransfers(bal)

		assert.InDelta(t, positiveTotal(bal), transferTotal(ts), 0.01)

		creditors, debtors := 0, 0
		for _, v := range bal {
			if v > 0.01 {
				creditors++
			} else if v < -0.01 {
				debtors++
			}
		}
		assert.LessOrEqual(t, len(ts), creditors+debtors-1)

		for _, tr := range ts {
			assert.Greater(t, tr.Amount, 0.01)
			assert.NotEqual(t, tr.From, tr.To)
		}
	}
}

func TestCalculateTransfers_FromBalances(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, PaidBy: "a"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []Transfer{{From: "b", To: "a", Amount: 50}}, CalculateTransfers(bal))

	bal, err = CalculateBalances(Ledger{
		Members: members("a", "b", "c"),
		Expenses: map[string]Expense{
			"e1": {Amount: 90, PaidBy: "a"},
			"e2": {Amount: 60, PaidBy: "b"},
		},
	})
	require.NoError(t, err)

	ts := CalculateTransfers(bal)
	assert.InDelta(t, 50, transferTotal(ts), 0.01)
	assert.Equal(t, []Transfer{
		{From: "c", To: "a", Amount: 40},
		{From: "c", To: "b", Amount: 10},
	}, ts)
}
