package sdk

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"cafe_task/internal/shared/logger"
	"cafe_task/internal/shared/types"
)

// InvocationMetadataKey carries the task invocation ID on every outgoing call.
const InvocationMetadataKey = "x-task-invocation"

type invocationKey struct{}

// WithInvocationID tags ctx so that calls made with it carry id as metadata.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

func invocationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

// Dial creates the single channel shared by all facades. It does not connect:
// an unreachable host shows up as an Unavailable error on the first call.
func Dial(conf types.RPCConf, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	l := logger.WithComponent("SDK/Channel")

	dialOptions := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  500 * time.Millisecond,
				Multiplier: 1.5,
				Jitter:     0.2,
				MaxDelay:   19 * time.Second,
			},
			MinConnectTimeout: 5 * time.Second,
		}),
		grpc.WithChainUnaryInterceptor(
			timeoutInterceptor(time.Duration(conf.CallTimeoutSeconds)*time.Second),
			invocationInterceptor(),
			loggingInterceptor(l),
		),
	}
	dialOptions = append(dialOptions, opts...)

	conn, err := grpc.NewClient(conf.Address, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("create rpc channel to %s: %w", conf.Address, err)
	}
	l.Debug().Str("address", conf.Address).Msg("RPC channel created.")
	return conn, nil
}

// timeoutInterceptor bounds calls whose context carries no deadline of its own.
func timeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if timeout > 0 {
			if _, ok := ctx.Deadline(); !ok {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func invocationInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if id := invocationIDFrom(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, InvocationMetadataKey, id)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

func loggingInterceptor(l zerolog.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		ev := l.Debug()
		if err != nil {
			ev = l.Warn().Err(err)
		}
		ev.Str("method", method).
			Str("code", status.Code(err).String()).
			Dur("elapsed", time.Since(start)).
			Msg("RPC call finished.")
		return err
	}
}
