package domain

// TrackingResult is the outcome of an orchestrated state change, tagged the
// same way Action is: SessionEnded, SessionStarted, or ResultNoChange.
type TrackingResult interface {
	isTrackingResult()
}

// SessionEnded reports a toggle-off of the active session.
type SessionEnded struct {
	Session TrackingSession
}

// SessionStarted reports a newly started session; EndedSession is non-nil
// when an exclusive switch closed a previous one.
type SessionStarted struct {
	Session      TrackingSession
	EndedSession *TrackingSession
}

// ResultNoChange reports that no mutation was necessary.
type ResultNoChange struct{}

func (SessionEnded) isTrackingResult()   {}
func (SessionStarted) isTrackingResult() {}
func (ResultNoChange) isTrackingResult() {}
