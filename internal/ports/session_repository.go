package ports

import (
	"context"
	"time"

	"github.com/psimao/ponto/internal/domain"
)

// SessionReader reads session data
type SessionReader interface {
	// Get returns a session by ID, ended or not.
	Get(ctx context.Context, id string) (*domain.TrackingSession, error)

	// GetActiveSession returns the user's active session, or nil.
	GetActiveSession(ctx context.Context, userID int64) (*domain.TrackingSession, error)

	// GetAllActiveSessions returns every active session across all users.
	GetAllActiveSessions(ctx context.Context) ([]domain.TrackingSession, error)

	// GetLastCommuteSessionToday returns the most recent commute session
	// started on or after dayStart, or nil.
	GetLastCommuteSessionToday(ctx context.Context, userID int64, dayStart time.Time) (*domain.TrackingSession, error)

	// HasWorkedToday reports whether a completed working session started on
	// or after dayStart exists.
	HasWorkedToday(ctx context.Context, userID int64, dayStart time.Time) (bool, error)

	GetSessionsByDate(ctx context.Context, userID int64, dayStart time.Time) ([]domain.TrackingSession, error)
	GetSessionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]domain.TrackingSession, error)
	GetRecentSessions(ctx context.Context, userID int64, limit int) ([]domain.TrackingSession, error)
}

// SessionWriter creates and updates sessions
type SessionWriter interface {
	Add(ctx context.Context, session domain.TrackingSession) error
	Update(ctx context.Context, session domain.TrackingSession) error
}

// SessionAggregator computes statistics over completed sessions
type SessionAggregator interface {
	// GetAverageDuration returns the user's average completed-session
	// duration in hours for a state, or nil when no history exists.
	GetAverageDuration(ctx context.Context, userID int64, state domain.State) (*float64, error)

	// GetTotalWorkHoursForDay returns accumulated working hours for the
	// local day starting at dayStart, including time accrued by a
	// still-active working session measured up to now.
	GetTotalWorkHoursForDay(ctx context.Context, userID int64, dayStart, now time.Time) (float64, error)
}

// SessionStore groups the session operations available inside a unit of work
type SessionStore interface {
	SessionReader
	SessionWriter
	SessionAggregator
}

// SessionRepository is the composite interface
type SessionRepository interface {
	SessionStore

	// WithTx runs fn against a transaction-bound store. All mutations made
	// through the store commit together when fn returns nil, and roll back
	// when it returns an error.
	WithTx(ctx context.Context, fn func(SessionStore) error) error

	Close() error
}
