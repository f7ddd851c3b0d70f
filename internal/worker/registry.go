package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrShuttingDown is returned by Go once Shutdown has started
var ErrShuttingDown = errors.New("worker registry is shutting down")

// Registry runs detached background tasks and tracks them so the process
// can drain in-flight work before exiting. Tasks get a context that is
// never cancelled.
type Registry struct {
	mu       sync.Mutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
	log      *zap.Logger
}

// NewRegistry creates a new Registry
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{log: log}
}

// Go starts task in its own goroutine. A panic inside task is recovered
// and logged.
func (r *Registry) Go(name string, task func(ctx context.Context)) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrShuttingDown
	}
	r.wg.Add(1)
	r.inFlight.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer r.inFlight.Add(-1)
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Error("Background task panicked",
					zap.String("task", name),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
			}
		}()

		task(context.Background())
	}()

	return nil
}

// InFlight returns the number of running tasks
func (r *Registry) InFlight() int64 {
	return r.inFlight.Load()
}

// Shutdown refuses new tasks and waits for running ones until ctx is done
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	r.log.Info("Draining background tasks", zap.Int64("in_flight", r.InFlight()))

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.log.Info("Background tasks drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%d background tasks still running: %w", r.InFlight(), ctx.Err())
	}
}
