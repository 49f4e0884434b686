package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psimao/ponto/internal/domain"
)

func lunchUser(offsetMinutes int) domain.User {
	return domain.User{
		ID:                  1,
		UTCOffsetMinutes:    offsetMinutes,
		LunchReminderHour:   iptr(12),
		LunchReminderMinute: iptr(0),
	}
}

func TestLunchReminder_FiresAfterReminderTime(t *testing.T) {
	repo, notifier, clock := workerFixture(t) // 14:00 UTC, reminder at 12:00
	repo.SeedUser(lunchUser(0))
	seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-5*time.Hour))

	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "lunch_reminder", sent[0].Kind)
	assert.Equal(t, int64(1), sent[0].UserID)
}

func TestLunchReminder_OncePerLocalDay(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(lunchUser(0))
	seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-5*time.Hour))

	w := NewLunchReminderWorker(repo, repo, notifier, clock, 0)
	ctx := context.Background()

	w.Tick(ctx)
	clock.Advance(15 * time.Minute)
	w.Tick(ctx)
	clock.Advance(15 * time.Minute)
	w.Tick(ctx)

	assert.Len(t, notifier.Sent(), 1)
}

func TestLunchReminder_BeforeReminderTimeStaysQuiet(t *testing.T) {
	repo, notifier, _ := workerFixture(t)
	clock := &testClock{now: time.Date(2025, 3, 12, 11, 30, 0, 0, time.UTC)}
	repo.SeedUser(lunchUser(0))
	seedActive(t, repo, 1, domain.StateWorking, clock.now.Add(-3*time.Hour))

	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	assert.Empty(t, notifier.Sent())
}

func TestLunchReminder_ReminderTimeIsLocal(t *testing.T) {
	// 14:00 UTC is 11:00 at UTC-3, before a 12:00 local reminder.
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(lunchUser(-180))
	seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-5*time.Hour))

	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())
	assert.Empty(t, notifier.Sent())

	// Two hours later it is 13:00 local and the reminder fires.
	clock.Advance(2 * time.Hour)
	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())
	assert.Len(t, notifier.Sent(), 1)
}

func TestLunchReminder_OnlyWhileWorking(t *testing.T) {
	tests := []struct {
		name  string
		state domain.State
	}{
		{"no active session", ""},
		{"commuting", domain.StateCommuting},
		{"already at lunch", domain.StateLunch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, notifier, clock := workerFixture(t)
			repo.SeedUser(lunchUser(0))
			if tt.state != "" {
				seedActive(t, repo, 1, tt.state, tickNow.Add(-time.Hour))
			}

			NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

			assert.Empty(t, notifier.Sent())
		})
	}
}

func TestLunchReminder_CompletedLunchSuppressesReminder(t *testing.T) {
	// A user who took an early lunch at 11:00 and went back to work must
	// not be reminded once the reminder time passes.
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(lunchUser(0))

	lunchStart := time.Date(2025, 3, 12, 11, 0, 0, 0, time.UTC)
	lunch, err := domain.NewSession(1, domain.StateLunch, lunchStart)
	require.NoError(t, err)
	require.NoError(t, lunch.End(lunchStart.Add(20*time.Minute)))
	repo.SeedSession(lunch)

	seedActive(t, repo, 1, domain.StateWorking, lunchStart.Add(20*time.Minute))

	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	assert.Empty(t, notifier.Sent())
}

func TestLunchReminder_YesterdaysLunchDoesNotSuppress(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(lunchUser(0))

	yesterday := tickNow.AddDate(0, 0, -1)
	lunch, err := domain.NewSession(1, domain.StateLunch, yesterday)
	require.NoError(t, err)
	require.NoError(t, lunch.End(yesterday.Add(30*time.Minute)))
	repo.SeedSession(lunch)

	seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-5*time.Hour))

	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	assert.Len(t, notifier.Sent(), 1)
}

func TestLunchReminder_NoConfigNoReminder(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(domain.User{ID: 1}) // no reminder time configured
	seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-5*time.Hour))

	NewLunchReminderWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	assert.Empty(t, notifier.Sent())
}

func TestLunchReminder_FiresAgainNextDay(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(lunchUser(0))
	seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-5*time.Hour))

	w := NewLunchReminderWorker(repo, repo, notifier, clock, 0)
	ctx := context.Background()

	w.Tick(ctx)
	require.Len(t, notifier.Sent(), 1)

	// Next day, same wall-clock time, still heads-down working.
	clock.Advance(24 * time.Hour)
	w.Tick(ctx)

	assert.Len(t, notifier.Sent(), 2)
}
