package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State represents the activity a user is currently tracking
type State string

const (
	StateIdle      State = "idle"
	StateCommuting State = "commuting"
	StateWorking   State = "working"
	StateLunch     State = "lunch"
)

// Valid reports whether s is one of the known tracking states.
func (s State) Valid() bool {
	switch s {
	case StateIdle, StateCommuting, StateWorking, StateLunch:
		return true
	}
	return false
}

// CommuteDirection indicates which way a commute session is headed
type CommuteDirection string

const (
	DirectionToWork CommuteDirection = "to_work"
	DirectionToHome CommuteDirection = "to_home"
)

// TrackingSession represents a single continuous activity interval for one
// user (domain entity). Idle is never persisted as a session; the absence of
// an active session means the user is idle.
type TrackingSession struct {
	ID               string
	UserID           int64
	State            State
	CommuteDirection CommuteDirection
	StartedAt        time.Time
	EndedAt          *time.Time
	Note             string
}

// NewSession creates a non-commute tracking session starting at the given
// instant. Commute sessions must be created with NewCommuteSession so the
// direction invariant is enforced at construction.
func NewSession(userID int64, state State, startedAt time.Time) (TrackingSession, error) {
	if !state.Valid() || state == StateIdle {
		return TrackingSession{}, fmt.Errorf("%w: %q", ErrInvalidState, state)
	}
	if state == StateCommuting {
		return TrackingSession{}, fmt.Errorf("%w: commute session requires a direction", ErrInvalidState)
	}
	return TrackingSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		State:     state,
		StartedAt: startedAt.UTC(),
	}, nil
}

// NewCommuteSession creates a commute tracking session with a direction.
func NewCommuteSession(userID int64, direction CommuteDirection, startedAt time.Time) (TrackingSession, error) {
	if direction != DirectionToWork && direction != DirectionToHome {
		return TrackingSession{}, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	return TrackingSession{
		ID:               uuid.New().String(),
		UserID:           userID,
		State:            StateCommuting,
		CommuteDirection: direction,
		StartedAt:        startedAt.UTC(),
	}, nil
}

// IsActive reports whether the session is still running.
func (s *TrackingSession) IsActive() bool {
	return s.EndedAt == nil
}

// End closes the session at the given instant. Ending an already-ended
// session indicates a lost toggle event and is surfaced, never ignored.
func (s *TrackingSession) End(at time.Time) error {
	if s.EndedAt != nil {
		return fmt.Errorf("%w: session %s", ErrSessionAlreadyEnded, s.ID)
	}
	at = at.UTC()
	if at.Before(s.StartedAt) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidTimeRange, at.Format(time.RFC3339), s.StartedAt.Format(time.RFC3339))
	}
	s.EndedAt = &at
	return nil
}

// Duration returns the elapsed time of the session. Active sessions are
// measured against the provided instant.
func (s *TrackingSession) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.UTC().Sub(s.StartedAt)
}
