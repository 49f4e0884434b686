package services

import (
	"context"
	"fmt"
	"time"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

// TrackerService orchestrates interactive state changes. It is the only path
// by which commands mutate session state: it loads today's context, asks the
// resolver for a decision, and applies it in a single transaction.
type TrackerService struct {
	sessionRepo ports.SessionRepository
	userReader  ports.UserReader
	clock       ports.Clock
}

// NewTrackerService creates a new TrackerService
func NewTrackerService(sessionRepo ports.SessionRepository, userReader ports.UserReader, clock ports.Clock) *TrackerService {
	return &TrackerService{
		sessionRepo: sessionRepo,
		userReader:  userReader,
		clock:       clock,
	}
}

// StartState records that the user switched to the target state at the given
// instant. Pass the zero time to use the current time.
func (s *TrackerService) StartState(ctx context.Context, userID int64, target domain.State, at time.Time) (domain.TrackingResult, error) {
	if at.IsZero() {
		at = s.clock.Now()
	}
	at = at.UTC()

	user, err := s.userReader.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	dayStart := user.LocalDayStartUTC(at)

	var result domain.TrackingResult

	err = s.sessionRepo.WithTx(ctx, func(store ports.SessionStore) error {
		active, err := store.GetActiveSession(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load active session: %w", err)
		}
		lastCommute, err := store.GetLastCommuteSessionToday(ctx, userID, dayStart)
		if err != nil {
			return fmt.Errorf("failed to load last commute: %w", err)
		}
		hasWorked, err := store.HasWorkedToday(ctx, userID, dayStart)
		if err != nil {
			return fmt.Errorf("failed to load has-worked flag: %w", err)
		}

		action, err := domain.Resolve(domain.ResolveInput{
			UserID:           userID,
			TargetState:      target,
			Timestamp:        at,
			ActiveSession:    active,
			LastCommuteToday: lastCommute,
			HasWorkedToday:   hasWorked,
		})
		if err != nil {
			return err
		}

		switch a := action.(type) {
		case domain.EndSession:
			ended := a.Session
			if err := ended.End(at); err != nil {
				return err
			}
			if err := store.Update(ctx, ended); err != nil {
				return fmt.Errorf("failed to end session: %w", err)
			}
			result = domain.SessionEnded{Session: ended}

		case domain.StartNewSession:
			var endedPtr *domain.TrackingSession
			if a.SessionToEnd != nil {
				ended := *a.SessionToEnd
				if err := ended.End(at); err != nil {
					return err
				}
				if err := store.Update(ctx, ended); err != nil {
					return fmt.Errorf("failed to end previous session: %w", err)
				}
				endedPtr = &ended
			}
			if err := store.Add(ctx, a.NewSession); err != nil {
				return fmt.Errorf("failed to add session: %w", err)
			}
			result = domain.SessionStarted{Session: a.NewSession, EndedSession: endedPtr}

		case domain.NoChange:
			result = domain.ResultNoChange{}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Logger.Info("state change applied",
		"user_id", userID,
		"target", target,
		"result", fmt.Sprintf("%T", result))

	return result, nil
}

// StartStateWithOffset records a state change shifted by offsetMinutes
// relative to now (positive = future, negative = past), so commands can
// retroactively record "I actually started 15 minutes ago."
func (s *TrackerService) StartStateWithOffset(ctx context.Context, userID int64, target domain.State, offsetMinutes int) (domain.TrackingResult, error) {
	at := s.clock.Now().Add(time.Duration(offsetMinutes) * time.Minute)
	return s.StartState(ctx, userID, target, at)
}

// AdjustStartTime moves an ended session's start. The new start must stay
// before the end and must not be in the future.
func (s *TrackerService) AdjustStartTime(ctx context.Context, sessionID string, newStart time.Time) (*domain.TrackingSession, error) {
	newStart = newStart.UTC()
	if newStart.After(s.clock.Now()) {
		return nil, fmt.Errorf("%w: %s", domain.ErrStartInFuture, newStart.Format(time.RFC3339))
	}

	var adjusted domain.TrackingSession
	err := s.sessionRepo.WithTx(ctx, func(store ports.SessionStore) error {
		session, err := store.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.EndedAt != nil && !newStart.Before(*session.EndedAt) {
			return fmt.Errorf("%w: start %s not before end %s",
				domain.ErrInvalidTimeRange, newStart.Format(time.RFC3339), session.EndedAt.Format(time.RFC3339))
		}
		session.StartedAt = newStart
		if err := store.Update(ctx, *session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		adjusted = *session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &adjusted, nil
}

// AdjustEndTime moves an ended session's end. Active sessions must be ended
// through StartState first; the new end must stay after the start.
func (s *TrackerService) AdjustEndTime(ctx context.Context, sessionID string, newEnd time.Time) (*domain.TrackingSession, error) {
	newEnd = newEnd.UTC()

	var adjusted domain.TrackingSession
	err := s.sessionRepo.WithTx(ctx, func(store ports.SessionStore) error {
		session, err := store.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		if session.EndedAt == nil {
			return fmt.Errorf("%w: end it before adjusting", domain.ErrSessionStillActive)
		}
		if !newEnd.After(session.StartedAt) {
			return fmt.Errorf("%w: end %s not after start %s",
				domain.ErrInvalidTimeRange, newEnd.Format(time.RFC3339), session.StartedAt.Format(time.RFC3339))
		}
		session.EndedAt = &newEnd
		if err := store.Update(ctx, *session); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
		adjusted = *session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &adjusted, nil
}

// SetNote replaces the free-text note on a session, active or ended.
func (s *TrackerService) SetNote(ctx context.Context, sessionID string, note string) error {
	return s.sessionRepo.WithTx(ctx, func(store ports.SessionStore) error {
		session, err := store.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		session.Note = note
		if err := store.Update(ctx, *session); err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}
		return nil
	})
}
