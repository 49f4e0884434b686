package workers

import (
	"context"
	"time"

	"github.com/psimao/ponto/internal/logging"
)

// localDayFormat keys daily dedup entries by the user's calendar date.
const localDayFormat = "2006-01-02"

// runLoop drives a worker: optional initial delay, then one tick per
// interval until the context is cancelled. Cancellation is observed between
// ticks only; a tick already in flight runs to completion with an
// uncancelled context, because a half-applied sweep (session ended but
// notification never sent) is safer than a half-applied commit.
func runLoop(ctx context.Context, name string, initialDelay, interval time.Duration, tick func(context.Context)) error {
	if initialDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(initialDelay):
		}
	}

	logging.Logger.Info("worker started", "worker", name, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Logger.Info("worker stopping", "worker", name)
			return ctx.Err()
		case <-ticker.C:
			tick(context.WithoutCancel(ctx))
		}
	}
}
