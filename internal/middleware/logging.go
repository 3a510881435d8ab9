package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rentalmanager/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its duration. Client mistakes log at warn, server faults at
// error. A nil logger uses slog.Default.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			elapsed := time.Since(start)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"peer", req.Peer().Addr,
				"duration_ms", elapsed.Milliseconds(),
			}
			code := "ok"
			level := slog.LevelInfo
			if err != nil {
				c := connect.CodeOf(err)
				code = c.String()
				level = errorLevel(c)
				attrs = append(attrs, "code", code, "error", err)
			}
			logger.Log(ctx, level, "RPC handled", attrs...)
			metrics.ObserveRPC(req.Spec().Procedure, code, elapsed)

			return resp, err
		}
	}
}

func errorLevel(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInternal, connect.CodeUnknown, connect.CodeDataLoss, connect.CodeUnavailable:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
