package models

// ExpenseTypePayment marks a reimbursement stored among the expenses.
// Older clients recorded payments this way; they are never split.
const ExpenseTypePayment = "payment"

// Split kinds as stored in the expenses table.
const (
	SplitEqualAll    = "equal_all"
	SplitEqualSubset = "equal_subset"
	SplitCustom      = "custom"
)

// Expense represents a cost paid by one member on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is what the money was spent on (e.g., "Dinner", "Taxi").
	Description string

	// Amount is the amount in the original currency.
	Amount float64

	// Currency is the original currency code. Empty means the group's base currency.
	Currency string

	// BaseAmount is Amount converted into the group's base currency.
	// Nil for records created before conversion was stored; Amount is used then.
	BaseAmount *float64

	// PaidBy is the member ID who paid.
	PaidBy string

	// PaidTo is the member ID who received the money.
	// Only set when Type is ExpenseTypePayment.
	PaidTo string

	// Type is empty for regular expenses or ExpenseTypePayment.
	Type string

	// Split describes who shares the expense.
	Split ExpenseSplit

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded the expense.
	CreatedBy string
}

// ExpenseSplit is the stored form of a split policy.
type ExpenseSplit struct {
	// Kind is one of SplitEqualAll, SplitEqualSubset or SplitCustom.
	// Empty is read as SplitEqualAll.
	Kind string

	// Members lists who shares an SplitEqualSubset expense.
	Members []string

	// Shares maps member ID to a fixed share in the base currency (SplitCustom).
	Shares map[string]float64
}
