package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/currency"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/metrics"
)

const testSecret = "test-secret"

// testAuthInterceptor returns a Connect interceptor that sets a test user ID in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithUser(ctx, "user-alice", "alice@example.com"), req)
		}
	}
}

type testClients struct {
	groups *api.GroupServiceClient
	ledger *api.LedgerServiceClient
	auth   *api.AuthServiceClient
}

// setupTestServer serves all three services over a temp SQLite database.
// Group and ledger calls run as a fixed test user; auth calls go through the real
// JWT interceptor.
func setupTestServer(t *testing.T) testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	converter := currency.NewConverter("", nil)
	m := metrics.NewManager()
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	logger := slog.Default()

	testAuth := connect.WithInterceptors(testAuthInterceptor(), middleware.MetricsInterceptor(m))
	realAuth := connect.WithInterceptors(middleware.RequireAuth(jwtManager,
		api.AuthServiceRegisterProcedure,
		api.AuthServiceLoginProcedure,
	))

	mux := http.NewServeMux()
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, converter, m), testAuth))
	mux.Handle(api.NewLedgerServiceHandler(NewLedgerService(store, converter, m), testAuth))
	mux.Handle(api.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store, auth.WithBcryptCost(bcrypt.MinCost)), jwtManager, store, logger),
		realAuth,
	))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return testClients{
		groups: api.NewGroupServiceClient(http.DefaultClient, server.URL),
		ledger: api.NewLedgerServiceClient(http.DefaultClient, server.URL),
		auth:   api.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

func createGroup(t *testing.T, c testClients, ids ...string) *api.Group {
	t.Helper()

	members := make([]api.Member, len(ids))
	for i, id := range ids {
		members[i] = api.Member{ID: id}
	}
	resp, err := c.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{
		Name:    "Trip",
		Members: members,
	}))
	require.NoError(t, err)
	return resp.Msg.Group
}

func addExpense(t *testing.T, c testClients, req *api.AddExpenseRequest) *api.Expense {
	t.Helper()

	resp, err := c.ledger.AddExpense(context.Background(), connect.NewRequest(req))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func balancesOf(t *testing.T, c testClients, groupID string) *api.GetGroupBalancesResponse {
	t.Helper()

	resp, err := c.groups.GetGroupBalances(context.Background(), connect.NewRequest(&api.GetGroupBalancesRequest{
		GroupID: groupID,
	}))
	require.NoError(t, err)
	return resp.Msg
}

func balanceMap(resp *api.GetGroupBalancesResponse) map[string]float64 {
	out := make(map[string]float64, len(resp.Balances))
	for _, b := range resp.Balances {
		out[b.MemberID] = b.Balance
	}
	return out
}
