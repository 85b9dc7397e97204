package models

// Payment represents money handed from one group member to another to clear debts.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// Amount is the payment amount in the original currency.
	Amount float64

	// Currency is the original currency code. Empty means the group's base currency.
	Currency string

	// BaseAmount is Amount converted into the group's base currency.
	BaseAmount *float64

	// PaidBy is the member who paid (debtor settling up).
	PaidBy string

	// PaidTo is the member who received payment (creditor being paid).
	PaidTo string

	// Note is an optional description for the payment.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this payment.
	CreatedBy string
}
