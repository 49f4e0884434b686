package workers

import (
	"context"
	"time"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

const defaultLunchReminderInterval = 15 * time.Minute

// LunchReminderWorker reminds a working user, once per local day, to take
// lunch after their configured reminder time. A user who already took a
// short lunch and resumed working must not be reminded again the same day.
type LunchReminderWorker struct {
	sessionRepo ports.SessionRepository
	userReader  ports.UserReader
	notifier    ports.Notifier
	clock       ports.Clock
	interval    time.Duration

	// reminded maps user ID to the local calendar date already reminded.
	reminded *dedupCache[int64, string]
}

// NewLunchReminderWorker creates a new LunchReminderWorker.
func NewLunchReminderWorker(sessionRepo ports.SessionRepository, userReader ports.UserReader, notifier ports.Notifier, clock ports.Clock, interval time.Duration) *LunchReminderWorker {
	if interval <= 0 {
		interval = defaultLunchReminderInterval
	}
	return &LunchReminderWorker{
		sessionRepo: sessionRepo,
		userReader:  userReader,
		notifier:    notifier,
		clock:       clock,
		interval:    interval,
		reminded:    newDedupCache[int64, string](),
	}
}

// Run blocks until the context is cancelled.
func (w *LunchReminderWorker) Run(ctx context.Context) error {
	return runLoop(ctx, "lunch-reminder", 0, w.interval, w.Tick)
}

// Tick evaluates every user with a configured reminder time.
func (w *LunchReminderWorker) Tick(ctx context.Context) {
	now := w.clock.Now()

	users, err := loadUserIndex(ctx, w.userReader)
	if err != nil {
		logging.Logger.Error("lunch-reminder: failed to load users", "error", err)
		return
	}

	// Dedup keys are local dates, so staleness is per-user: drop entries
	// from earlier days and entries for users that no longer exist.
	w.reminded.Prune(func(userID int64, day string) bool {
		user, ok := users[userID]
		if !ok {
			return false
		}
		return day == user.LocalDay(now).Format(localDayFormat)
	})

	for _, user := range users {
		if !user.HasLunchReminder() {
			continue
		}
		if err := w.checkUser(ctx, user, now); err != nil {
			logging.Logger.Error("lunch-reminder: check failed",
				"user_id", user.ID, "error", err)
		}
	}
}

func (w *LunchReminderWorker) checkUser(ctx context.Context, user domain.User, now time.Time) error {
	local := user.LocalTime(now)
	reminderMinute := *user.LunchReminderHour*60 + *user.LunchReminderMinute
	if local.Hour()*60+local.Minute() < reminderMinute {
		return nil
	}

	today := user.LocalDay(now).Format(localDayFormat)
	if day, ok := w.reminded.Get(user.ID); ok && day == today {
		return nil
	}

	active, err := w.sessionRepo.GetActiveSession(ctx, user.ID)
	if err != nil {
		return err
	}
	if active == nil || active.State != domain.StateWorking {
		return nil
	}

	// Any lunch session started inside the local day counts, completed or
	// not; the reminder must not re-fire after a short early lunch.
	sessions, err := w.sessionRepo.GetSessionsByDate(ctx, user.ID, user.LocalDayStartUTC(now))
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if s.State == domain.StateLunch {
			return nil
		}
	}

	if err := w.notifier.SendLunchReminder(ctx, user.ID); err != nil {
		return err
	}
	w.reminded.Set(user.ID, today)

	logging.Logger.Info("lunch-reminder: reminder sent", "user_id", user.ID, "local_day", today)
	return nil
}
