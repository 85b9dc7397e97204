package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/metrics"
)

// whoAmI echoes the user attached to the context.
type whoAmI struct{}

func (whoAmI) Register(ctx context.Context, _ *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return connect.NewResponse(&api.RegisterResponse{User: &api.User{ID: GetUserID(ctx)}}), nil
}

func (whoAmI) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
}

func (whoAmI) GetCurrentUser(ctx context.Context, _ *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{
		User: &api.User{ID: GetUserID(ctx), Email: GetEmail(ctx)},
	}), nil
}

func newClient(t *testing.T, interceptors ...connect.Interceptor) *api.AuthServiceClient {
	t.Helper()

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(whoAmI{}, connect.WithInterceptors(interceptors...)))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return api.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func tokenFor(t *testing.T, m *auth.JWTManager) string {
	t.Helper()

	token, err := m.Generate(&models.User{ID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	return token
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	client := newClient(t, RequireAuth(jwtManager, api.AuthServiceRegisterProcedure))
	ctx := context.Background()

	t.Run("valid token attaches user", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+tokenFor(t, jwtManager))

		resp, err := client.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.Msg.User.ID)
		assert.Equal(t, "u1@example.com", resp.Msg.User.Email)
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "bearer "+tokenFor(t, jwtManager))

		_, err := client.GetCurrentUser(ctx, req)
		assert.NoError(t, err)
	})

	rejected := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic abc",
		"no token":       "Bearer ",
		"forged token":   "Bearer " + tokenFor(t, auth.NewJWTManager("other", time.Hour)),
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			req := connect.NewRequest(&api.GetCurrentUserRequest{})
			if header != "" {
				req.Header().Set("Authorization", header)
			}
			_, err := client.GetCurrentUser(ctx, req)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		})
	}

	t.Run("public procedure skips the check", func(t *testing.T) {
		resp, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{}))
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.User.ID)
	})
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	client := newClient(t, OptionalAuth(jwtManager))
	ctx := context.Background()

	resp, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.User.ID)

	req := connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer garbage")
	resp, err = client.GetCurrentUser(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, resp.Msg.User.ID)

	req = connect.NewRequest(&api.GetCurrentUserRequest{})
	req.Header().Set("Authorization", "Bearer "+tokenFor(t, jwtManager))
	resp, err = client.GetCurrentUser(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.Msg.User.ID)
}

func TestLoggingAndMetricsInterceptors(t *testing.T) {
	m := metrics.NewManager()
	client := newClient(t, LoggingInterceptor(), MetricsInterceptor(m))
	ctx := context.Background()

	_, err := client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	require.NoError(t, err)

	_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `rpc_requests_total{code="ok",procedure="/splitledger.v1.AuthService/GetCurrentUser"} 1`)
	assert.Contains(t, out, `rpc_requests_total{code="unauthenticated",procedure="/splitledger.v1.AuthService/Login"} 1`)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, isClientError(connect.CodeInvalidArgument))
	assert.True(t, isClientError(connect.CodeNotFound))
	assert.False(t, isClientError(connect.CodeInternal))
	assert.False(t, isClientError(connect.CodeUnknown))
}
