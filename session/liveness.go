package session

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/immuclient/internal/logging"
)

const DefaultLivenessInterval = 30 * time.Second

// Pinger keeps the server-side session alive.
type Pinger interface {
	KeepAlive(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

// Liveness is the handle of a running keepalive loop.
type Liveness struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartLiveness pings p every interval until Stop is called. The loop is
// detached from the cancellation of ctx but keeps its values. Failed pings
// are logged at debug level and otherwise ignored; the first ping happens
// one interval after the start.
func StartLiveness(ctx context.Context, p Pinger, interval time.Duration, logger logging.Logger) *Liveness {
	if interval <= 0 {
		interval = DefaultLivenessInterval
	}
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With("module", "liveness")

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &Liveness{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(l.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				callCtx, callCancel := context.WithTimeout(ctx, interval)
				_, err := p.KeepAlive(callCtx, &emptypb.Empty{})
				callCancel()
				if err != nil && ctx.Err() == nil {
					logger.Debug(ctx, "keepalive failed", "error", err)
				}
			}
		}
	}()

	return l
}

// Stop requests termination and returns immediately. It is safe to call
// more than once.
func (l *Liveness) Stop() {
	l.cancel()
}

// Done is closed once the loop has exited.
func (l *Liveness) Done() <-chan struct{} {
	return l.done
}
