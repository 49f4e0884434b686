package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/psimao/ponto/internal/adapters/memory"
	"github.com/psimao/ponto/internal/domain"
)

// 2025-03-12 is a Wednesday; all workers treat it as a plain weekday.
var tickNow = time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func workerFixture(t *testing.T) (*memory.Repository, *memory.Notifier, *testClock) {
	t.Helper()
	return memory.NewRepository(), memory.NewNotifier(), &testClock{now: tickNow}
}

func seedActive(t *testing.T, repo *memory.Repository, userID int64, state domain.State, startedAt time.Time) domain.TrackingSession {
	t.Helper()
	var (
		session domain.TrackingSession
		err     error
	)
	if state == domain.StateCommuting {
		session, err = domain.NewCommuteSession(userID, domain.DirectionToWork, startedAt)
	} else {
		session, err = domain.NewSession(userID, state, startedAt)
	}
	require.NoError(t, err)
	repo.SeedSession(session)
	return session
}

func seedEnded(t *testing.T, repo *memory.Repository, userID int64, state domain.State, startedAt, endedAt time.Time) domain.TrackingSession {
	t.Helper()
	session, err := domain.NewSession(userID, state, startedAt)
	require.NoError(t, err)
	require.NoError(t, session.End(endedAt))
	repo.SeedSession(session)
	return session
}
