package domain

import "time"

// Action is the decision produced by Resolve. It is a closed set:
// EndSession, StartNewSession, or NoChange.
type Action interface {
	isAction()
}

// EndSession closes the currently active session (same-state toggle).
type EndSession struct {
	Session TrackingSession
}

// StartNewSession starts a new session; SessionToEnd carries the previously
// active session when one must be closed first (exclusive state switch).
type StartNewSession struct {
	NewSession   TrackingSession
	SessionToEnd *TrackingSession
}

// NoChange means the request requires no mutation.
type NoChange struct{}

func (EndSession) isAction()      {}
func (StartNewSession) isAction() {}
func (NoChange) isAction()        {}

// ResolveInput carries everything Resolve needs; it performs no I/O.
type ResolveInput struct {
	UserID      int64
	TargetState State
	Timestamp   time.Time

	// ActiveSession is the user's currently active session, if any.
	ActiveSession *TrackingSession

	// LastCommuteToday is the most recent commute session started today,
	// ended or not. Reserved for direction inference off the previous
	// commute; the current rule keys off HasWorkedToday instead.
	LastCommuteToday *TrackingSession

	// HasWorkedToday is true iff a completed working session exists today.
	HasWorkedToday bool
}

// Resolve maps a requested state against the current active session to the
// action the orchestrator must apply. Deterministic and side-effect free.
//
// Re-issuing the active session's state is a toggle-off; for commuting this
// holds regardless of direction. Requesting a different state ends the
// active session (if any) and starts the new one. Requesting idle with no
// active session is a no-op.
func Resolve(in ResolveInput) (Action, error) {
	if !in.TargetState.Valid() {
		return nil, ErrInvalidState
	}

	if in.ActiveSession != nil && in.ActiveSession.State == in.TargetState {
		return EndSession{Session: *in.ActiveSession}, nil
	}

	if in.TargetState == StateIdle {
		if in.ActiveSession == nil {
			return NoChange{}, nil
		}
		// Idle is not persisted; switching to idle just ends the session.
		return EndSession{Session: *in.ActiveSession}, nil
	}

	var (
		next TrackingSession
		err  error
	)
	if in.TargetState == StateCommuting {
		// First commute of the day is assumed to be the inbound trip; once
		// a working session has completed, the commute heads home.
		direction := DirectionToWork
		if in.HasWorkedToday {
			direction = DirectionToHome
		}
		next, err = NewCommuteSession(in.UserID, direction, in.Timestamp)
	} else {
		next, err = NewSession(in.UserID, in.TargetState, in.Timestamp)
	}
	if err != nil {
		return nil, err
	}

	return StartNewSession{NewSession: next, SessionToEnd: in.ActiveSession}, nil
}
