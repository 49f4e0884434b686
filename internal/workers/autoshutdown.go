package workers

import (
	"context"
	"time"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

const (
	defaultAutoShutdownInterval = 5 * time.Minute
	autoShutdownInitialDelay    = 30 * time.Second
)

// AutoShutdownWorker force-ends sessions that exceed the owning user's
// per-state hard ceiling. All endings of one sweep commit in a single
// transaction; notifications go out afterwards.
type AutoShutdownWorker struct {
	sessionRepo ports.SessionRepository
	userReader  ports.UserReader
	notifier    ports.Notifier
	clock       ports.Clock
	interval    time.Duration
}

// NewAutoShutdownWorker creates a new AutoShutdownWorker. A non-positive
// interval selects the default.
func NewAutoShutdownWorker(sessionRepo ports.SessionRepository, userReader ports.UserReader, notifier ports.Notifier, clock ports.Clock, interval time.Duration) *AutoShutdownWorker {
	if interval <= 0 {
		interval = defaultAutoShutdownInterval
	}
	return &AutoShutdownWorker{
		sessionRepo: sessionRepo,
		userReader:  userReader,
		notifier:    notifier,
		clock:       clock,
		interval:    interval,
	}
}

// Run blocks until the context is cancelled.
func (w *AutoShutdownWorker) Run(ctx context.Context) error {
	return runLoop(ctx, "auto-shutdown", autoShutdownInitialDelay, w.interval, w.Tick)
}

// Tick performs one sweep over all active sessions.
func (w *AutoShutdownWorker) Tick(ctx context.Context) {
	now := w.clock.Now()

	active, err := w.sessionRepo.GetAllActiveSessions(ctx)
	if err != nil {
		logging.Logger.Error("auto-shutdown: failed to load active sessions", "error", err)
		return
	}
	if len(active) == 0 {
		return
	}

	users, err := loadUserIndex(ctx, w.userReader)
	if err != nil {
		logging.Logger.Error("auto-shutdown: failed to load users", "error", err)
		return
	}

	var ended []domain.TrackingSession
	for _, session := range active {
		user, ok := users[session.UserID]
		if !ok {
			logging.Logger.Warn("auto-shutdown: user not found, skipping session",
				"user_id", session.UserID, "session_id", session.ID)
			continue
		}

		ceiling := user.MaxHoursFor(session.State)
		if ceiling == nil {
			continue
		}

		elapsed := session.Duration(now).Hours()
		if elapsed < *ceiling {
			continue
		}

		s := session
		if err := s.End(now); err != nil {
			logging.Logger.Error("auto-shutdown: failed to end session",
				"session_id", s.ID, "error", err)
			continue
		}
		ended = append(ended, s)
	}

	if len(ended) == 0 {
		return
	}

	err = w.sessionRepo.WithTx(ctx, func(store ports.SessionStore) error {
		for _, s := range ended {
			if err := store.Update(ctx, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logging.Logger.Error("auto-shutdown: failed to commit sweep", "error", err)
		return
	}

	for _, s := range ended {
		duration := s.Duration(now).Hours()
		if err := w.notifier.SendAutoShutdownNotification(ctx, s.UserID, s.State, duration); err != nil {
			logging.Logger.Error("auto-shutdown: failed to notify",
				"user_id", s.UserID, "session_id", s.ID, "error", err)
			continue
		}
		logging.Logger.Info("auto-shutdown: session force-ended",
			"user_id", s.UserID, "session_id", s.ID, "state", s.State, "hours", duration)
	}
}

// loadUserIndex fetches all users keyed by ID for a sweep.
func loadUserIndex(ctx context.Context, reader ports.UserReader) (map[int64]domain.User, error) {
	users, err := reader.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]domain.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index, nil
}
