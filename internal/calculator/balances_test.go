package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/currency"
)

func ptr(v float64) *float64 { return &v }

func members(ids ...string) map[string]Member {
	m := make(map[string]Member, len(ids))
	for _, id := range ids {
		m[id] = Member{Name: id}
	}
	return m
}

func sum(b Balances) float64 {
	var total float64
	for _, v := range b {
		total += v
	}
	return total
}

func TestCalculateBalances_EqualSplitTwoPeople(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, BaseAmount: ptr(100), PaidBy: "a"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Balances{"a": 50, "b": -50}, bal)
}

func TestCalculateBalances_EqualSplitThreePeople(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b", "c"),
		Expenses: map[string]Expense{
			"e1": {Amount: 90, PaidBy: "a"},
		},
	})
	require.NoError(t, err)

	// Payer nets A - A/k, everybody else -A/k.
	assert.InDelta(t, 60, bal["a"], 0.01)
	assert.InDelta(t, -30, bal["b"], 0.01)
	assert.InDelta(t, -30, bal["c"], 0.01)
}

func TestCalculateBalances_SumsToZero(t *testing.T) {
	ledgers := map[string]Ledger{
		"two expenses": {
			Members: members("a", "b", "c"),
			Expenses: map[string]Expense{
				"e1": {Amount: 90, PaidBy: "a"},
				"e2": {Amount: 60, PaidBy: "b"},
			},
		},
		"subset and payment": {
			Members: members("a", "b", "c"),
			Expenses: map[string]Expense{
				"e1": {Amount: 90, PaidBy: "a"},
				"e2": {Amount: 10, PaidBy: "c", Split: EqualSubset{Members: []string{"b", "c"}}},
			},
			Payments: map[string]Payment{
				"p1": {Amount: 13.37, PaidBy: "b", PaidTo: "a"},
			},
		},
		"mixed": {
			Members: members("a", "b", "c", "d"),
			Expenses: map[string]Expense{
				"e1": {Amount: 77.76, PaidBy: "d"},
				"e2": {Amount: 12, PaidBy: "a", Split: CustomShares{Shares: map[string]float64{"a": 4, "b": 8}}},
				"e3": {Amount: 50, PaidBy: "b", Type: ExpenseTypePayment, PaidTo: "d"},
			},
		},
	}

	for name, ledger := range ledgers {
		t.Run(name, func(t *testing.T) {
			bal, err := CalculateBalances(ledger)
			require.NoError(t, err)
			assert.InDelta(t, 0, sum(bal), 0.01)
		})
	}
}

func TestCalculateBalances_PaymentSettlesDebt(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, BaseAmount: ptr(100), PaidBy: "a"},
		},
		Payments: map[string]Payment{
			"p1": {Amount: 50, BaseAmount: ptr(50), PaidBy: "b", PaidTo: "a"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Balances{"a": 0, "b": 0}, bal)
}

func TestCalculateBalances_PaymentRoundTrip(t *testing.T) {
	// B pays A 40, then A pays 40 for both of them.
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 40, PaidBy: "a", Split: EqualSubset{Members: []string{"a", "b"}}},
		},
		Payments: map[string]Payment{
			"p1": {Amount: 40, PaidBy: "b", PaidTo: "a"},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 20, bal["b"], 0.01)
	assert.InDelta(t, -20, bal["a"], 0.01)

	// The same amount paid back closes it out.
	bal, err = CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 80, PaidBy: "a", Split: EqualSubset{Members: []string{"a", "b"}}},
		},
		Payments: map[string]Payment{
			"p1": {Amount: 40, PaidBy: "b", PaidTo: "a"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Balances{"a": 0, "b": 0}, bal)
}

func TestCalculateBalances_LegacyPaymentMatchesPayment(t *testing.T) {
	expense := Expense{Amount: 100, BaseAmount: ptr(100), PaidBy: "a"}

	legacy, err := CalculateBalances(Ledger{
		Members: members("a", "b", "c"),
		Expenses: map[string]Expense{
			"e1": expense,
			"p1": {Type: ExpenseTypePayment, Amount: 30, BaseAmount: ptr(30), PaidBy: "b", PaidTo: "a"},
		},
	})
	require.NoError(t, err)

	regular, err := CalculateBalances(Ledger{
		Members:  members("a", "b", "c"),
		Expenses: map[string]Expense{"e1": expense},
		Payments: map[string]Payment{
			"p1": {Amount: 30, BaseAmount: ptr(30), PaidBy: "b", PaidTo: "a"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, regular, legacy)
}

func TestCalculateBalances_LegacyPaymentIsNotSplit(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, BaseAmount: ptr(100), PaidBy: "a"},
			"p1": {Type: ExpenseTypePayment, Amount: 50, BaseAmount: ptr(50), PaidBy: "b", PaidTo: "a",
				Split: EqualAll{}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Balances{"a": 0, "b": 0}, bal)
}

func TestCalculateBalances_ForeignCurrencyEqualSplit(t *testing.T) {
	conv := currency.NewConverter("", nil)
	base := conv.ToBase(100, "USD")

	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, BaseAmount: &base, PaidBy: "a"},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, base/2, bal["a"], 0.01)
	assert.InDelta(t, -base/2, bal["b"], 0.01)
	assert.InDelta(t, 0, sum(bal), 0.01)
}

func TestCalculateBalances_CustomShares(t *testing.T) {
	conv := currency.NewConverter("", nil)
	aShare := conv.ToBase(60, "USD")
	bShare := conv.ToBase(40, "USD")
	total := conv.ToBase(100, "USD")

	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {
				Amount:     100,
				BaseAmount: &total,
				PaidBy:     "a",
				Split:      CustomShares{Shares: map[string]float64{"a": aShare, "b": bShare}},
			},
		},
	})
	require.NoError(t, err)

	// A paid everything and owes aShare, so A is owed exactly B's share.
	assert.InDelta(t, bShare, bal["a"], 0.02)
	assert.InDelta(t, -bShare, bal["b"], 0.02)
	assert.InDelta(t, 0, sum(bal), 0.01)
}

func TestCalculateBalances_CustomSharesNotValidated(t *testing.T) {
	// Shares only cover 30 of 100; the payer absorbs the rest.
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, PaidBy: "a", Split: CustomShares{Shares: map[string]float64{"b": 30}}},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Balances{"a": 100, "b": -30}, bal)
}

func TestCalculateBalances_UnknownMembers(t *testing.T) {
	t.Run("payment to and from strangers", func(t *testing.T) {
		bal, err := CalculateBalances(Ledger{
			Members: members("a", "b"),
			Payments: map[string]Payment{
				"p1": {Amount: 10, PaidBy: "zed", PaidTo: "a"},
				"p2": {Amount: 5, PaidBy: "b", PaidTo: "zed"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Balances{"a": -10, "b": 5}, bal)
	})

	t.Run("subset with only strangers is skipped", func(t *testing.T) {
		bal, err := CalculateBalances(Ledger{
			Members: members("a", "b"),
			Expenses: map[string]Expense{
				"e1": {Amount: 100, PaidBy: "a", Split: EqualSubset{Members: []string{"x", "y"}}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Balances{"a": 0, "b": 0}, bal)
	})

	t.Run("subset filters strangers before dividing", func(t *testing.T) {
		bal, err := CalculateBalances(Ledger{
			Members: members("a", "b", "c"),
			Expenses: map[string]Expense{
				"e1": {Amount: 60, PaidBy: "a", Split: EqualSubset{Members: []string{"b", "x", "c"}}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Balances{"a": 60, "b": -30, "c": -30}, bal)
	})

	t.Run("custom shares for strangers still credit the payer", func(t *testing.T) {
		bal, err := CalculateBalances(Ledger{
			Members: members("a", "b"),
			Expenses: map[string]Expense{
				"e1": {Amount: 20, PaidBy: "a", Split: CustomShares{Shares: map[string]float64{"x": 20}}},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Balances{"a": 20, "b": 0}, bal)
	})

	t.Run("unknown payer is not credited", func(t *testing.T) {
		bal, err := CalculateBalances(Ledger{
			Members: members("a", "b"),
			Expenses: map[string]Expense{
				"e1": {Amount: 20, PaidBy: "x"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, Balances{"a": -10, "b": -10}, bal)
	})
}

func TestCalculateBalances_AmountFallback(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"base wins":  {Amount: 999, BaseAmount: ptr(10), PaidBy: "a"},
			"amount":     {Amount: 20, PaidBy: "a"},
			"no amount":  {PaidBy: "b"},
			"zero based": {Amount: 50, BaseAmount: ptr(0), PaidBy: "b"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Balances{"a": 15, "b": -15}, bal)
}

func TestCalculateBalances_MissingMembers(t *testing.T) {
	_, err := CalculateBalances(Ledger{
		Expenses: map[string]Expense{"e1": {Amount: 10, PaidBy: "a"}},
	})
	assert.ErrorIs(t, err, ErrNoMembers)
}

func TestCalculateBalances_EmptyMembers(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members:  map[string]Member{},
		Expenses: map[string]Expense{"e1": {Amount: 10, PaidBy: "a"}},
	})
	require.NoError(t, err)
	assert.Empty(t, bal)
}

func TestCalculateBalances_NoRecords(t *testing.T) {
	bal, err := CalculateBalances(Ledger{Members: members("a", "b")})
	require.NoError(t, err)
	assert.Equal(t, Balances{"a": 0, "b": 0}, bal)
}

func TestCalculateBalances_RoundsToCents(t *testing.T) {
	bal, err := CalculateBalances(Ledger{
		Members: members("a", "b", "c"),
		Expenses: map[string]Expense{
			"e1": {Amount: 100, PaidBy: "a"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Balances{"a": 66.67, "b": -33.33, "c": -33.33}, bal)
}

func TestTotalSpent(t *testing.T) {
	total := TotalSpent(map[string]Expense{
		"e1": {Amount: 100, BaseAmount: ptr(100)},
		"p1": {Type: ExpenseTypePayment, Amount: 50, BaseAmount: ptr(50)},
		"e2": {Amount: 10.01},
	})

	assert.Equal(t, 110.01, total)
	assert.Equal(t, 0.0, TotalSpent(nil))
}

func TestCalculateBalances_OverflowDoesNotPanic(t *testing.T) {
	ledger := Ledger{
		Members: members("a", "b"),
		Expenses: map[string]Expense{
			"e1": {Amount: math.MaxFloat64, PaidBy: "a", Split: EqualSubset{Members: []string{"b"}}},
			"e2": {Amount: math.MaxFloat64, PaidBy: "a", Split: EqualSubset{Members: []string{"b"}}},
		},
	}

	var bal Balances
	assert.NotPanics(t, func() {
		var err error
		bal, err = CalculateBalances(ledger)
		require.NoError(t, err)
	})
	assert.True(t, math.IsInf(bal["a"], 1))
	assert.True(t, math.IsInf(bal["b"], -1))
}
