package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "splitledger.v1.LedgerService"

// Procedure paths of the LedgerService RPCs.
const (
	LedgerServiceAddExpenseProcedure     = "/" + LedgerServiceName + "/AddExpense"
	LedgerServiceGetExpenseProcedure     = "/" + LedgerServiceName + "/GetExpense"
	LedgerServiceListExpensesProcedure   = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceDeleteExpenseProcedure  = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerServiceRecordPaymentProcedure  = "/" + LedgerServiceName + "/RecordPayment"
	LedgerServiceListPaymentsProcedure   = "/" + LedgerServiceName + "/ListPayments"
	LedgerServiceDeletePaymentProcedure  = "/" + LedgerServiceName + "/DeletePayment"
	LedgerServiceListCurrenciesProcedure = "/" + LedgerServiceName + "/ListCurrencies"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
type LedgerServiceHandler interface {
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[DeletePaymentRequest]) (*connect.Response[DeletePaymentResponse], error)
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler serving every LedgerService procedure.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		LedgerServiceAddExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceGetExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...),
		LedgerServiceListExpensesProcedure:   connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceDeleteExpenseProcedure:  connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...),
		LedgerServiceRecordPaymentProcedure:  connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...),
		LedgerServiceListPaymentsProcedure:   connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...),
		LedgerServiceDeletePaymentProcedure:  connect.NewUnaryHandler(LedgerServiceDeletePaymentProcedure, svc.DeletePayment, opts...),
		LedgerServiceListCurrenciesProcedure: connect.NewUnaryHandler(LedgerServiceListCurrenciesProcedure, svc.ListCurrencies, opts...),
	}
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// LedgerServiceClient calls a remote LedgerService. It also satisfies LedgerServiceHandler.
type LedgerServiceClient struct {
	addExpense     *connect.Client[AddExpenseRequest, AddExpenseResponse]
	getExpense     *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses   *connect.Client[ListExpensesRequest, ListExpensesResponse]
	deleteExpense  *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	recordPayment  *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	listPayments   *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	deletePayment  *connect.Client[DeletePaymentRequest, DeletePaymentResponse]
	listCurrencies *connect.Client[ListCurrenciesRequest, ListCurrenciesResponse]
}

var _ LedgerServiceHandler = (*LedgerServiceClient)(nil)

// NewLedgerServiceClient creates a client for the LedgerService served at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &LedgerServiceClient{
		addExpense:     connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		getExpense:     connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:   connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		deleteExpense:  connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		recordPayment:  connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+LedgerServiceRecordPaymentProcedure, opts...),
		listPayments:   connect.NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
		deletePayment:  connect.NewClient[DeletePaymentRequest, DeletePaymentResponse](httpClient, baseURL+LedgerServiceDeletePaymentProcedure, opts...),
		listCurrencies: connect.NewClient[ListCurrenciesRequest, ListCurrenciesResponse](httpClient, baseURL+LedgerServiceListCurrenciesProcedure, opts...),
	}
}

// AddExpense calls LedgerService.AddExpense.
func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

// GetExpense calls LedgerService.GetExpense.
func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

// ListExpenses calls LedgerService.ListExpenses.
func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

// DeleteExpense calls LedgerService.DeleteExpense.
func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// RecordPayment calls LedgerService.RecordPayment.
func (c *LedgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

// ListPayments calls LedgerService.ListPayments.
func (c *LedgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

// DeletePayment calls LedgerService.DeletePayment.
func (c *LedgerServiceClient) DeletePayment(ctx context.Context, req *connect.Request[DeletePaymentRequest]) (*connect.Response[DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

// ListCurrencies calls LedgerService.ListCurrencies.
func (c *LedgerServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}
