package workers

import (
	"context"
	"time"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

const (
	defaultWorkHoursInterval = 15 * time.Minute

	// Dedup entries survive until the user's local date minus this many
	// days. Wider than the lunch worker's window on purpose: users span
	// many UTC offsets and today's entry must never be cleared early.
	workHoursRetentionDays = 2
)

// WorkHoursAlertWorker notifies a user, once per local day, when
// accumulated work time (including the running working session) reaches
// their configured daily target.
type WorkHoursAlertWorker struct {
	sessionRepo ports.SessionRepository
	userReader  ports.UserReader
	notifier    ports.Notifier
	clock       ports.Clock
	interval    time.Duration

	// alerted maps user ID to the local calendar date already alerted.
	alerted *dedupCache[int64, string]
}

// NewWorkHoursAlertWorker creates a new WorkHoursAlertWorker.
func NewWorkHoursAlertWorker(sessionRepo ports.SessionRepository, userReader ports.UserReader, notifier ports.Notifier, clock ports.Clock, interval time.Duration) *WorkHoursAlertWorker {
	if interval <= 0 {
		interval = defaultWorkHoursInterval
	}
	return &WorkHoursAlertWorker{
		sessionRepo: sessionRepo,
		userReader:  userReader,
		notifier:    notifier,
		clock:       clock,
		interval:    interval,
		alerted:     newDedupCache[int64, string](),
	}
}

// Run blocks until the context is cancelled.
func (w *WorkHoursAlertWorker) Run(ctx context.Context) error {
	return runLoop(ctx, "work-hours-alert", 0, w.interval, w.Tick)
}

// Tick evaluates every user with a configured daily target.
func (w *WorkHoursAlertWorker) Tick(ctx context.Context) {
	now := w.clock.Now()

	users, err := loadUserIndex(ctx, w.userReader)
	if err != nil {
		logging.Logger.Error("work-hours-alert: failed to load users", "error", err)
		return
	}

	w.alerted.Prune(func(userID int64, day string) bool {
		user, ok := users[userID]
		if !ok {
			return false
		}
		alertedDay, err := time.ParseInLocation(localDayFormat, day, user.Location())
		if err != nil {
			return false
		}
		cutoff := user.LocalDay(now).AddDate(0, 0, -workHoursRetentionDays)
		return !alertedDay.Before(cutoff)
	})

	for _, user := range users {
		if user.TargetWorkHours == nil {
			continue
		}
		if err := w.checkUser(ctx, user, now); err != nil {
			logging.Logger.Error("work-hours-alert: check failed",
				"user_id", user.ID, "error", err)
		}
	}
}

func (w *WorkHoursAlertWorker) checkUser(ctx context.Context, user domain.User, now time.Time) error {
	if user.IsLocalWeekend(now) {
		return nil
	}

	today := user.LocalDay(now).Format(localDayFormat)
	if day, ok := w.alerted.Get(user.ID); ok && day == today {
		return nil
	}

	total, err := w.sessionRepo.GetTotalWorkHoursForDay(ctx, user.ID, user.LocalDayStartUTC(now), now)
	if err != nil {
		return err
	}
	if total < *user.TargetWorkHours {
		return nil
	}

	if err := w.notifier.SendWorkHoursComplete(ctx, user.ID, *user.TargetWorkHours, total); err != nil {
		return err
	}
	w.alerted.Set(user.ID, today)

	logging.Logger.Info("work-hours-alert: target reached",
		"user_id", user.ID, "target_hours", *user.TargetWorkHours, "actual_hours", total)
	return nil
}
