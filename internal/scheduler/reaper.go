package scheduler

import (
	"context"
	"time"

	"github.com/nischalsh/todo-service/internal/repository"
	"go.uber.org/zap"
)

// Reaper expires stale todos on a fixed wall-clock schedule: once per hour,
// at the top of the hour, it deletes todos completed more than staleAge ago
// and flips incomplete todos older than staleAge to pending.
type Reaper struct {
	todos    repository.TodoRepository
	lock     TickLock
	clock    Clock
	logger   *zap.Logger
	staleAge time.Duration
	lockTTL  time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewReaper creates a reaper. lock may be nil for single-instance
// deployments; ticks then run unguarded.
func NewReaper(todos repository.TodoRepository, lock TickLock, clock Clock, logger *zap.Logger, staleAge, lockTTL time.Duration) *Reaper {
	if clock == nil {
		clock = SystemClock()
	}
	return &Reaper{
		todos:    todos,
		lock:     lock,
		clock:    clock,
		logger:   logger,
		staleAge: staleAge,
		lockTTL:  lockTTL,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the schedule loop. Call Stop to end it.
func (r *Reaper) Start(ctx context.Context) {
	go r.run(ctx)
}

// Stop ends the schedule loop and waits for it to exit.
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Reaper) run(ctx context.Context) {
	defer close(r.done)

	for {
		timer := time.NewTimer(r.untilNextTick())

		select {
		case <-r.stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.RunTick(ctx)
		}
	}
}

// untilNextTick returns the wait until the next top of the hour.
func (r *Reaper) untilNextTick() time.Duration {
	now := r.clock.Now()
	next := now.Truncate(time.Hour).Add(time.Hour)
	return next.Sub(now)
}

// RunTick executes one reaping pass. Failures are logged and swallowed so a
// bad tick never takes the process down or blocks the next one.
func (r *Reaper) RunTick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("reaper tick panicked", zap.Any("panic", rec))
		}
	}()

	if r.lock != nil {
		acquired, err := r.lock.TryLock(ctx, r.lockTTL)
		if err != nil {
			r.logger.Error("reaper lock failed", zap.Error(err))
			return
		}
		if !acquired {
			r.logger.Debug("reaper tick skipped, another instance holds the lock")
			return
		}
	}

	cutoff := r.clock.Now().Add(-r.staleAge)

	deleted, err := r.todos.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		r.logger.Error("failed to delete expired completed todos", zap.Error(err))
	} else {
		r.logger.Info("deleted expired completed todos", zap.Int64("count", deleted))
	}

	moved, err := r.todos.MarkIncompleteAsPendingBefore(ctx, cutoff)
	if err != nil {
		r.logger.Error("failed to mark stale todos pending", zap.Error(err))
	} else {
		r.logger.Info("marked stale todos pending", zap.Int64("count", moved))
	}
}
