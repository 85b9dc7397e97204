package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Client-side errors (bad input, missing records, auth) log at WARN, the rest at ERROR.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			// The auth interceptor runs inside this one, so the user is only known
			// for calls that authenticated with a valid token.
			userID := GetUserID(ctx)
			duration := time.Since(start).Milliseconds()
			if err != nil {
				code := connect.CodeOf(err)
				level := slog.LevelError
				if isClientError(code) {
					level = slog.LevelWarn
				}
				msg := err.Error()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					msg = connectErr.Message()
				}
				slog.Log(ctx, level, "RPC error",
					"procedure", procedure,
					"code", code,
					"error", msg,
					"user_id", userID,
					"duration_ms", duration,
				)
			} else {
				slog.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}

// MetricsInterceptor records the count and latency of every RPC by result code.
func MetricsInterceptor(m *metrics.Manager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.ObserveRPC(req.Spec().Procedure, code, time.Since(start))

			return resp, err
		}
	}
}

func isClientError(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeUnauthenticated, connect.CodePermissionDenied, connect.CodeFailedPrecondition:
		return true
	default:
		return false
	}
}
