package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/currency"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/metrics"
)

// LedgerService implements the Connect LedgerService: the expenses and payments
// recorded in a group.
type LedgerService struct {
	store     storage.Store
	converter *currency.Converter
	metrics   *metrics.Manager
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. m may be nil.
func NewLedgerService(store storage.Store, converter *currency.Converter, m *metrics.Manager) *LedgerService {
	return &LedgerService{store: store, converter: converter, metrics: m}
}

// currencyFor returns the normalized code for an amount entered in code, falling
// back to the group's base currency.
func (s *LedgerService) currencyFor(group *models.Group, code string) (string, error) {
	code = normalizeCode(code)
	if code == "" {
		code = group.BaseCurrency
	}
	if !s.converter.Supports(code) {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return code, nil
}

// AddExpense records an expense. Custom shares and receipt items are entered in the
// expense currency and stored in the base currency.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	msg := req.Msg
	slog.Info("AddExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount,
		"currency", msg.Currency,
		"paid_by", msg.PaidBy,
	)

	if msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if !validAmount(msg.Amount) {
		return nil, invalidArgument("amount must be positive and at most %g", money.MaxAmount)
	}
	if msg.Split != nil && msg.Receipt != nil {
		return nil, invalidArgument("split and receipt are mutually exclusive")
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		slog.Error("AddExpense failed - group not found", "group_id", msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	if !group.HasMember(msg.PaidBy) {
		return nil, invalidArgument("paid_by %q is not a member of the group", msg.PaidBy)
	}
	code, err := s.currencyFor(group, msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	baseAmount := s.converter.ToBase(msg.Amount, code)
	if !validConverted(baseAmount) {
		return nil, invalidArgument("amount %g %s is out of range in %s", msg.Amount, code, s.converter.Base())
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: strings.TrimSpace(msg.Description),
		Amount:      msg.Amount,
		Currency:    code,
		BaseAmount:  &baseAmount,
		PaidBy:      msg.PaidBy,
		CreatedBy:   middleware.GetUserID(ctx),
	}

	switch msg.Type {
	case "":
		split, err := s.buildSplit(group, msg, code)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		expense.Split = split
		if split.Kind == models.SplitCustom {
			warnUnbalancedShares(group.ID, baseAmount, split.Shares)
		}
	case api.ExpenseTypePayment:
		if msg.PaidTo == "" || !group.HasMember(msg.PaidTo) {
			return nil, invalidArgument("paid_to must be a member of the group")
		}
		if msg.PaidTo == msg.PaidBy {
			return nil, invalidArgument("paid_by and paid_to must differ")
		}
		expense.Type = models.ExpenseTypePayment
		expense.PaidTo = msg.PaidTo
		expense.Split = models.ExpenseSplit{Kind: models.SplitEqualAll}
	default:
		return nil, invalidArgument("unknown expense type %q", msg.Type)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	s.metrics.IncExpensesRecorded(expense.Split.Kind)

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"base_amount", baseAmount,
		"split", expense.Split.Kind,
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// buildSplit validates the requested split (or receipt) against the group and
// converts custom amounts from code into the base currency.
func (s *LedgerService) buildSplit(group *models.Group, msg *api.AddExpenseRequest, code string) (models.ExpenseSplit, error) {
	if msg.Receipt != nil {
		return s.receiptSplit(group, msg, code)
	}
	if msg.Split == nil {
		return models.ExpenseSplit{Kind: models.SplitEqualAll}, nil
	}

	switch msg.Split.Kind {
	case "", api.SplitEqualAll:
		return models.ExpenseSplit{Kind: models.SplitEqualAll}, nil

	case api.SplitEqualSubset:
		if len(msg.Split.Members) == 0 {
			return models.ExpenseSplit{}, fmt.Errorf("equal_subset split needs members")
		}
		seen := make(map[string]bool, len(msg.Split.Members))
		members := make([]string, 0, len(msg.Split.Members))
		for _, id := range msg.Split.Members {
			if !group.HasMember(id) {
				return models.ExpenseSplit{}, fmt.Errorf("split member %q is not a member of the group", id)
			}
			if !seen[id] {
				seen[id] = true
				members = append(members, id)
			}
		}
		return models.ExpenseSplit{Kind: models.SplitEqualSubset, Members: members}, nil

	case api.SplitCustom:
		if len(msg.Split.Shares) == 0 {
			return models.ExpenseSplit{}, fmt.Errorf("custom split needs shares")
		}
		shares := make(map[string]float64, len(msg.Split.Shares))
		for id, share := range msg.Split.Shares {
			if !group.HasMember(id) {
				return models.ExpenseSplit{}, fmt.Errorf("split member %q is not a member of the group", id)
			}
			if share < 0 || share > money.MaxAmount || math.IsNaN(share) {
				return models.ExpenseSplit{}, fmt.Errorf("share for %q must be between 0 and %g", id, money.MaxAmount)
			}
			converted := s.converter.ToBase(share, code)
			if !validConverted(converted) {
				return models.ExpenseSplit{}, fmt.Errorf("share for %q is out of range", id)
			}
			shares[id] = converted
		}
		return models.ExpenseSplit{Kind: models.SplitCustom, Shares: shares}, nil

	default:
		return models.ExpenseSplit{}, fmt.Errorf("unknown split kind %q", msg.Split.Kind)
	}
}

// receiptSplit turns an itemized receipt into custom shares. Tax and fees (the
// amount above the subtotal) are spread proportionally.
func (s *LedgerService) receiptSplit(group *models.Group, msg *api.AddExpenseRequest, code string) (models.ExpenseSplit, error) {
	if !validAmount(msg.Receipt.Subtotal) {
		return models.ExpenseSplit{}, fmt.Errorf("receipt subtotal must be positive and at most %g", money.MaxAmount)
	}

	items := make([]calculator.Item, len(msg.Receipt.Items))
	for i, it := range msg.Receipt.Items {
		if !validAmount(it.Amount) {
			return models.ExpenseSplit{}, fmt.Errorf("item %d: amount must be positive and at most %g", i, money.MaxAmount)
		}
		for _, id := range it.AssignedTo {
			if !group.HasMember(id) {
				return models.ExpenseSplit{}, fmt.Errorf("item %d: %q is not a member of the group", i, id)
			}
		}
		items[i] = calculator.Item{Description: it.Description, Amount: it.Amount, AssignedTo: it.AssignedTo}
	}

	participants := make([]string, len(group.Members))
	for i, m := range group.Members {
		participants[i] = m.ID
	}

	owed, err := calculator.ItemizedShares(items, msg.Amount, msg.Receipt.Subtotal, participants)
	if err != nil {
		return models.ExpenseSplit{}, err
	}

	shares := make(map[string]float64, len(owed))
	for id, amount := range owed {
		if money.IsZero(amount) {
			continue
		}
		converted := s.converter.ToBase(amount, code)
		if amount < 0 || !validConverted(converted) {
			return models.ExpenseSplit{}, fmt.Errorf("receipt share for %q is out of range", id)
		}
		shares[id] = converted
	}
	return models.ExpenseSplit{Kind: models.SplitCustom, Shares: shares}, nil
}

// warnUnbalancedShares logs custom shares that do not add up to the expense.
// They are stored anyway; the payer absorbs the difference.
func warnUnbalancedShares(groupID string, total float64, shares map[string]float64) {
	var sum float64
	for _, v := range shares {
		sum += v
	}
	if math.Abs(sum-total) > money.Epsilon {
		slog.Warn("Custom shares do not match expense total",
			"group_id", groupID,
			"total", total,
			"shares_sum", money.RoundCents(sum),
		)
	}
}

// GetExpense retrieves an expense by ID.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, storageError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// RecordPayment records money handed from one member to another.
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	msg := req.Msg
	slog.Info("RecordPayment request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount,
		"paid_by", msg.PaidBy,
		"paid_to", msg.PaidTo,
	)

	if msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if !validAmount(msg.Amount) {
		return nil, invalidArgument("amount must be positive and at most %g", money.MaxAmount)
	}
	if msg.PaidBy == msg.PaidTo {
		return nil, invalidArgument("paid_by and paid_to must differ")
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		slog.Error("RecordPayment failed - group not found", "group_id", msg.GroupID, "error", err)
		return nil, storageError(err)
	}
	if !group.HasMember(msg.PaidBy) || !group.HasMember(msg.PaidTo) {
		return nil, invalidArgument("paid_by and paid_to must be members of the group")
	}
	code, err := s.currencyFor(group, msg.Currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	baseAmount := s.converter.ToBase(msg.Amount, code)
	if !validConverted(baseAmount) {
		return nil, invalidArgument("amount %g %s is out of range in %s", msg.Amount, code, s.converter.Base())
	}

	payment := &models.Payment{
		GroupID:    group.ID,
		Amount:     msg.Amount,
		Currency:   code,
		BaseAmount: &baseAmount,
		PaidBy:     msg.PaidBy,
		PaidTo:     msg.PaidTo,
		Note:       strings.TrimSpace(msg.Note),
		CreatedBy:  middleware.GetUserID(ctx),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "group_id", group.ID, "error", err)
		return nil, storageError(err)
	}
	s.metrics.IncPaymentsRecorded()

	slog.Info("Payment recorded", "payment_id", payment.ID, "group_id", group.ID, "base_amount", baseAmount)

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(payment)}), nil
}

// ListPayments returns a group's payments, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, storageError(err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = toAPIPayment(p)
	}

	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// DeletePayment removes a payment.
func (s *LedgerService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	slog.Info("DeletePayment request received", "payment_id", req.Msg.PaymentID)

	if req.Msg.PaymentID == "" {
		return nil, invalidArgument("payment_id required")
	}

	if err := s.store.DeletePayment(ctx, req.Msg.PaymentID); err != nil {
		slog.Error("DeletePayment failed", "payment_id", req.Msg.PaymentID, "error", err)
		return nil, storageError(err)
	}

	return connect.NewResponse(&api.DeletePaymentResponse{}), nil
}

// ListCurrencies returns the exchange rate table.
func (s *LedgerService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	codes := s.converter.Codes()
	out := make([]api.Currency, 0, len(codes))
	for _, code := range codes {
		rate, _ := s.converter.Rate(code)
		out = append(out, api.Currency{Code: code, Rate: rate})
	}

	return connect.NewResponse(&api.ListCurrenciesResponse{
		Base:       s.converter.Base(),
		Currencies: out,
	}), nil
}
