package logging

import (
	"context"
	"log/slog"

	grpclogging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
)

// InterceptorLogger adapts slog to the go-grpc-middleware logging interface.
func InterceptorLogger(l *slog.Logger) grpclogging.Logger {
	return grpclogging.LoggerFunc(func(ctx context.Context, lvl grpclogging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}

// CallLoggingOptions returns dial options that log the start and finish
// of every unary and streaming call at debug level.
func CallLoggingOptions(l *slog.Logger) []grpc.DialOption {
	opts := []grpclogging.Option{
		grpclogging.WithLogOnEvents(grpclogging.StartCall, grpclogging.FinishCall),
		grpclogging.WithLevels(func(codes.Code) grpclogging.Level { return grpclogging.LevelDebug }),
	}
	return []grpc.DialOption{
		grpc.WithChainUnaryInterceptor(grpclogging.UnaryClientInterceptor(InterceptorLogger(l), opts...)),
		grpc.WithChainStreamInterceptor(grpclogging.StreamClientInterceptor(InterceptorLogger(l), opts...)),
	}
}
