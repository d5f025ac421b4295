package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDKey ctxKey = "request_id"

// RequestID returns the id the logging interceptor attached to ctx.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

type RPCObserver interface {
	ObserveRPC(method, code string)
}

// Logging writes one line per call and counts it. The request id comes
// from x-request-id metadata when the gateway set one.
func Logging(log zerolog.Logger, obs RPCObserver) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()

		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get("x-request-id"); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		ctx = context.WithValue(ctx, requestIDKey, id)

		resp, err := next(ctx, req)

		code := status.Code(err)
		if obs != nil {
			obs.ObserveRPC(info.FullMethod, code.String())
		}
		ev := log.Info()
		if err != nil {
			ev = log.Warn().Str("error", status.Convert(err).Message())
		}
		ev.Str("request_id", id).
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Msg("rpc")
		return resp, err
	}
}

// Chain composes interceptors so the first one runs outermost, matching
// grpc.ChainUnaryInterceptor. The HTTP gateway uses it to apply the same
// chain when it calls the service directly.
func Chain(ints ...grpc.UnaryServerInterceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, final grpc.UnaryHandler) (any, error) {
		h := final
		for i := len(ints) - 1; i >= 0; i-- {
			in, next := ints[i], h
			h = func(ctx context.Context, req any) (any, error) {
				return in(ctx, req, info, next)
			}
		}
		return h(ctx, req)
	}
}
