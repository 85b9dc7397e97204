package api

// Member is one participant of a group.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group is a set of members sharing expenses.
type Group struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	BaseCurrency string   `json:"base_currency"`
	Members      []Member `json:"members"`
	CreatedAt    int64    `json:"created_at"`
	CreatedBy    string   `json:"created_by,omitempty"`
}

// Split kinds accepted in Split.Kind.
const (
	SplitEqualAll    = "equal_all"
	SplitEqualSubset = "equal_subset"
	SplitCustom      = "custom"
)

// ExpenseTypePayment is the legacy expense type for a reimbursement.
const ExpenseTypePayment = "payment"

// Split says who shares an expense. An omitted split means every member.
type Split struct {
	Kind    string             `json:"kind"`
	Members []string           `json:"members,omitempty"`
	Shares  map[string]float64 `json:"shares,omitempty"`
}

// ReceiptItem is one line of an itemized receipt.
type ReceiptItem struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	AssignedTo  []string `json:"assigned_to"`
}

// Receipt describes an itemized bill. Subtotal is the pre-tax sum of the items;
// the difference to the expense amount is spread proportionally.
type Receipt struct {
	Items    []ReceiptItem `json:"items"`
	Subtotal float64       `json:"subtotal"`
}

// Expense is a recorded cost. Custom shares are in the base currency.
type Expense struct {
	ID          string   `json:"id"`
	GroupID     string   `json:"group_id"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency"`
	BaseAmount  *float64 `json:"base_amount,omitempty"`
	PaidBy      string   `json:"paid_by"`
	PaidTo      string   `json:"paid_to,omitempty"`
	Type        string   `json:"type,omitempty"`
	Split       Split    `json:"split"`
	CreatedAt   int64    `json:"created_at"`
	CreatedBy   string   `json:"created_by,omitempty"`
}

// Payment is money handed from one member to another.
type Payment struct {
	ID         string   `json:"id"`
	GroupID    string   `json:"group_id"`
	Amount     float64  `json:"amount"`
	Currency   string   `json:"currency"`
	BaseAmount *float64 `json:"base_amount,omitempty"`
	PaidBy     string   `json:"paid_by"`
	PaidTo     string   `json:"paid_to"`
	Note       string   `json:"note,omitempty"`
	CreatedAt  int64    `json:"created_at"`
	CreatedBy  string   `json:"created_by,omitempty"`
}

// MemberBalance is a member's net position. Positive means the member is owed.
type MemberBalance struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
}

// Transfer is a suggested payment that settles debts.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Currency is one row of the exchange rate table.
type Currency struct {
	Code string  `json:"code"`
	Rate float64 `json:"rate"`
}

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User      *User  `json:"user"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type CreateGroupRequest struct {
	Name         string   `json:"name"`
	BaseCurrency string   `json:"base_currency,omitempty"`
	Members      []Member `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID      string `json:"group_id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"base_currency,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type AddMembersRequest struct {
	GroupID string   `json:"group_id"`
	Members []Member `json:"members"`
}

type AddMembersResponse struct {
	Group *Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	BaseCurrency string          `json:"base_currency"`
	Balances     []MemberBalance `json:"balances"`
	Transfers    []Transfer      `json:"transfers"`
	TotalSpent   float64         `json:"total_spent"`
}

type AddExpenseRequest struct {
	GroupID     string   `json:"group_id"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Currency    string   `json:"currency,omitempty"`
	PaidBy      string   `json:"paid_by"`
	PaidTo      string   `json:"paid_to,omitempty"`
	Type        string   `json:"type,omitempty"`
	Split       *Split   `json:"split,omitempty"`
	Receipt     *Receipt `json:"receipt,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type RecordPaymentRequest struct {
	GroupID  string  `json:"group_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	PaidBy   string  `json:"paid_by"`
	PaidTo   string  `json:"paid_to"`
	Note     string  `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"group_id"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type DeletePaymentResponse struct{}

type ListCurrenciesRequest struct{}

type ListCurrenciesResponse struct {
	Base       string     `json:"base"`
	Currencies []Currency `json:"currencies"`
}
