package workers

import (
	"context"
	"time"

	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

const (
	defaultForgotShutdownInterval = 5 * time.Minute
	forgotShutdownRetention       = 24 * time.Hour
)

// ForgotShutdownWorker reminds a user once per session when a running
// session greatly exceeds their own historical average for that state.
type ForgotShutdownWorker struct {
	sessionRepo ports.SessionRepository
	userReader  ports.UserReader
	notifier    ports.Notifier
	clock       ports.Clock
	interval    time.Duration

	// notified maps session ID to the instant the reminder went out.
	notified *dedupCache[string, time.Time]
}

// NewForgotShutdownWorker creates a new ForgotShutdownWorker.
func NewForgotShutdownWorker(sessionRepo ports.SessionRepository, userReader ports.UserReader, notifier ports.Notifier, clock ports.Clock, interval time.Duration) *ForgotShutdownWorker {
	if interval <= 0 {
		interval = defaultForgotShutdownInterval
	}
	return &ForgotShutdownWorker{
		sessionRepo: sessionRepo,
		userReader:  userReader,
		notifier:    notifier,
		clock:       clock,
		interval:    interval,
		notified:    newDedupCache[string, time.Time](),
	}
}

// Run blocks until the context is cancelled.
func (w *ForgotShutdownWorker) Run(ctx context.Context) error {
	return runLoop(ctx, "forgot-shutdown", 0, w.interval, w.Tick)
}

// Tick checks every active session against its user's historical average.
func (w *ForgotShutdownWorker) Tick(ctx context.Context) {
	now := w.clock.Now()

	cutoff := now.Add(-forgotShutdownRetention)
	w.notified.Prune(func(_ string, sentAt time.Time) bool {
		return sentAt.After(cutoff)
	})

	// Day-of-week evaluated in UTC. This misfires near midnight for users
	// far from UTC; tracked as an open issue rather than silently changed.
	if wd := now.UTC().Weekday(); wd == time.Saturday || wd == time.Sunday {
		return
	}

	active, err := w.sessionRepo.GetAllActiveSessions(ctx)
	if err != nil {
		logging.Logger.Error("forgot-shutdown: failed to load active sessions", "error", err)
		return
	}
	if len(active) == 0 {
		return
	}

	users, err := loadUserIndex(ctx, w.userReader)
	if err != nil {
		logging.Logger.Error("forgot-shutdown: failed to load users", "error", err)
		return
	}

	for _, session := range active {
		if _, seen := w.notified.Get(session.ID); seen {
			continue
		}

		user, ok := users[session.UserID]
		if !ok {
			logging.Logger.Warn("forgot-shutdown: user not found, skipping session",
				"user_id", session.UserID, "session_id", session.ID)
			continue
		}
		if !user.HasForgotShutdownThreshold() {
			continue
		}

		average, err := w.sessionRepo.GetAverageDuration(ctx, session.UserID, session.State)
		if err != nil {
			logging.Logger.Error("forgot-shutdown: failed to load average",
				"user_id", session.UserID, "state", session.State, "error", err)
			continue
		}
		if average == nil {
			// No history to compare against
			continue
		}

		threshold := *average * float64(*user.ForgotShutdownThresholdPercent) / 100
		elapsed := session.Duration(now).Hours()
		if elapsed < threshold {
			continue
		}

		if err := w.notifier.SendForgotShutdownReminder(ctx, user.ID, session.State, elapsed, *average); err != nil {
			logging.Logger.Error("forgot-shutdown: failed to notify",
				"user_id", user.ID, "session_id", session.ID, "error", err)
			continue
		}
		w.notified.Set(session.ID, now)

		logging.Logger.Info("forgot-shutdown: reminder sent",
			"user_id", user.ID, "session_id", session.ID,
			"state", session.State, "elapsed_hours", elapsed, "average_hours", *average)
	}
}
