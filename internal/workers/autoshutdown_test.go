package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psimao/ponto/internal/domain"
)

func TestAutoShutdown_EndsSessionAtCeiling(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(domain.User{ID: 1, MaxWorkHours: fptr(8)})

	over := seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-8*time.Hour-1*time.Minute))
	under := seedActive(t, repo, 2, domain.StateWorking, tickNow.Add(-7*time.Hour-59*time.Minute))
	repo.SeedUser(domain.User{ID: 2, MaxWorkHours: fptr(8)})

	w := NewAutoShutdownWorker(repo, repo, notifier, clock, 0)
	w.Tick(context.Background())

	ctx := context.Background()
	stored, err := repo.Get(ctx, over.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EndedAt)
	assert.Equal(t, tickNow, *stored.EndedAt)

	stillActive, err := repo.Get(ctx, under.ID)
	require.NoError(t, err)
	assert.Nil(t, stillActive.EndedAt)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "auto_shutdown", sent[0].Kind)
	assert.Equal(t, int64(1), sent[0].UserID)
	assert.Equal(t, domain.StateWorking, sent[0].State)
	assert.InDelta(t, 8.0167, sent[0].Duration, 0.001)
}

func TestAutoShutdown_PerStateCeilings(t *testing.T) {
	tests := []struct {
		name      string
		user      domain.User
		state     domain.State
		elapsed   time.Duration
		wantEnded bool
	}{
		{"commute over its ceiling", domain.User{ID: 1, MaxCommuteHours: fptr(2)}, domain.StateCommuting, 3 * time.Hour, true},
		{"lunch over its ceiling", domain.User{ID: 1, MaxLunchHours: fptr(1)}, domain.StateLunch, 90 * time.Minute, true},
		{"work ceiling does not apply to lunch", domain.User{ID: 1, MaxWorkHours: fptr(1)}, domain.StateLunch, 5 * time.Hour, false},
		{"no ceiling configured", domain.User{ID: 1}, domain.StateWorking, 48 * time.Hour, false},
		{"exactly at the ceiling ends", domain.User{ID: 1, MaxWorkHours: fptr(8)}, domain.StateWorking, 8 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, notifier, clock := workerFixture(t)
			repo.SeedUser(tt.user)
			session := seedActive(t, repo, 1, tt.state, tickNow.Add(-tt.elapsed))

			NewAutoShutdownWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

			stored, err := repo.Get(context.Background(), session.ID)
			require.NoError(t, err)
			if tt.wantEnded {
				assert.NotNil(t, stored.EndedAt)
				assert.Len(t, notifier.Sent(), 1)
			} else {
				assert.Nil(t, stored.EndedAt)
				assert.Empty(t, notifier.Sent())
			}
		})
	}
}

func TestAutoShutdown_SkipsSessionWithoutUser(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	session := seedActive(t, repo, 99, domain.StateWorking, tickNow.Add(-20*time.Hour))

	NewAutoShutdownWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	stored, err := repo.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.EndedAt)
	assert.Empty(t, notifier.Sent())
}

func TestAutoShutdown_SweepEndsAllInOneCommit(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(domain.User{ID: 1, MaxWorkHours: fptr(8), MaxLunchHours: fptr(1)})

	first := seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-9*time.Hour))
	repo.SeedUser(domain.User{ID: 2, MaxLunchHours: fptr(1)})
	second := seedActive(t, repo, 2, domain.StateLunch, tickNow.Add(-2*time.Hour))

	NewAutoShutdownWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	ctx := context.Background()
	for _, id := range []string{first.ID, second.ID} {
		stored, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.NotNil(t, stored.EndedAt, "session %s should be ended", id)
	}
	assert.Len(t, notifier.Sent(), 2)
}

func TestAutoShutdown_CommitHappensBeforeNotification(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	notifier.Err = errors.New("redis down")

	repo.SeedUser(domain.User{ID: 1, MaxWorkHours: fptr(8)})
	session := seedActive(t, repo, 1, domain.StateWorking, tickNow.Add(-9*time.Hour))

	NewAutoShutdownWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	// A failed notification must never resurrect the session.
	stored, err := repo.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.EndedAt)
	assert.Empty(t, notifier.Sent())
}

func TestAutoShutdown_NoActiveSessionsIsQuiet(t *testing.T) {
	repo, notifier, clock := workerFixture(t)
	repo.SeedUser(domain.User{ID: 1, MaxWorkHours: fptr(8)})
	seedEnded(t, repo, 1, domain.StateWorking, tickNow.Add(-10*time.Hour), tickNow.Add(-time.Hour))

	NewAutoShutdownWorker(repo, repo, notifier, clock, 0).Tick(context.Background())

	assert.Empty(t, notifier.Sent())
}
