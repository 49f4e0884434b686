// Package memory implements the repository ports in process memory. It
// backs unit tests and local development; the SQLite adapter is the
// production implementation.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/ports"
)

// Repository implements ports.SessionRepository and ports.UserReader over
// plain maps.
type Repository struct {
	mu    sync.RWMutex
	store memStore
	users map[int64]domain.User
}

var (
	_ ports.SessionRepository = (*Repository)(nil)
	_ ports.UserReader        = (*Repository)(nil)
)

// NewRepository creates an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		store: memStore{sessions: make(map[string]domain.TrackingSession)},
		users: make(map[int64]domain.User),
	}
}

// SeedUser registers a user. Test/setup helper; the core never writes users.
func (r *Repository) SeedUser(user domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

// SeedSession inserts a session bypassing the orchestrator.
func (r *Repository) SeedSession(session domain.TrackingSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.sessions[session.ID] = session
}

// Close implements SessionRepository.Close
func (r *Repository) Close() error { return nil }

// WithTx implements SessionRepository.WithTx. The transaction works on a
// copy of the session map and swaps it in on success, so a failed fn leaves
// no partial mutation behind.
func (r *Repository) WithTx(ctx context.Context, fn func(ports.SessionStore) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := memStore{sessions: maps.Clone(r.store.sessions)}
	if err := fn(&tx); err != nil {
		return err
	}
	r.store.sessions = tx.sessions
	return nil
}

// Get implements SessionReader.Get
func (r *Repository) Get(ctx context.Context, id string) (*domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.Get(ctx, id)
}

// GetActiveSession implements SessionReader.GetActiveSession
func (r *Repository) GetActiveSession(ctx context.Context, userID int64) (*domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetActiveSession(ctx, userID)
}

// GetAllActiveSessions implements SessionReader.GetAllActiveSessions
func (r *Repository) GetAllActiveSessions(ctx context.Context) ([]domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetAllActiveSessions(ctx)
}

// GetLastCommuteSessionToday implements SessionReader.GetLastCommuteSessionToday
func (r *Repository) GetLastCommuteSessionToday(ctx context.Context, userID int64, dayStart time.Time) (*domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetLastCommuteSessionToday(ctx, userID, dayStart)
}

// HasWorkedToday implements SessionReader.HasWorkedToday
func (r *Repository) HasWorkedToday(ctx context.Context, userID int64, dayStart time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.HasWorkedToday(ctx, userID, dayStart)
}

// GetSessionsByDate implements SessionReader.GetSessionsByDate
func (r *Repository) GetSessionsByDate(ctx context.Context, userID int64, dayStart time.Time) ([]domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetSessionsByDate(ctx, userID, dayStart)
}

// GetSessionsInRange implements SessionReader.GetSessionsInRange
func (r *Repository) GetSessionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetSessionsInRange(ctx, userID, from, to)
}

// GetRecentSessions implements SessionReader.GetRecentSessions
func (r *Repository) GetRecentSessions(ctx context.Context, userID int64, limit int) ([]domain.TrackingSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetRecentSessions(ctx, userID, limit)
}

// Add implements SessionWriter.Add
func (r *Repository) Add(ctx context.Context, session domain.TrackingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Add(ctx, session)
}

// Update implements SessionWriter.Update
func (r *Repository) Update(ctx context.Context, session domain.TrackingSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Update(ctx, session)
}

// GetAverageDuration implements SessionAggregator.GetAverageDuration
func (r *Repository) GetAverageDuration(ctx context.Context, userID int64, state domain.State) (*float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetAverageDuration(ctx, userID, state)
}

// GetTotalWorkHoursForDay implements SessionAggregator.GetTotalWorkHoursForDay
func (r *Repository) GetTotalWorkHoursForDay(ctx context.Context, userID int64, dayStart, now time.Time) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.store.GetTotalWorkHoursForDay(ctx, userID, dayStart, now)
}

// GetUser implements UserReader.GetUser
func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return r.userByID(id)
}

// GetAllUsers implements UserReader.GetAllUsers
func (r *Repository) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// GetUserByExternalID implements UserReader.GetUserByExternalID
func (r *Repository) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ExternalID == externalID {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: external id %s", domain.ErrUserNotFound, externalID)
}

func (r *Repository) userByID(id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
	}
	user := u
	return &user, nil
}

// memStore holds the session map and implements ports.SessionStore without
// locking; Repository and WithTx add the synchronization.
type memStore struct {
	sessions map[string]domain.TrackingSession
}

var _ ports.SessionStore = (*memStore)(nil)

func (s *memStore) Get(ctx context.Context, id string) (*domain.TrackingSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return &session, nil
}

func (s *memStore) GetActiveSession(ctx context.Context, userID int64) (*domain.TrackingSession, error) {
	var latest *domain.TrackingSession
	for _, session := range s.sessions {
		if session.UserID != userID || !session.IsActive() {
			continue
		}
		if latest == nil || session.StartedAt.After(latest.StartedAt) {
			cp := session
			latest = &cp
		}
	}
	return latest, nil
}

func (s *memStore) GetAllActiveSessions(ctx context.Context) ([]domain.TrackingSession, error) {
	var active []domain.TrackingSession
	for _, session := range s.sessions {
		if session.IsActive() {
			active = append(active, session)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].StartedAt.Before(active[j].StartedAt) })
	return active, nil
}

func (s *memStore) GetLastCommuteSessionToday(ctx context.Context, userID int64, dayStart time.Time) (*domain.TrackingSession, error) {
	var latest *domain.TrackingSession
	for _, session := range s.sessions {
		if session.UserID != userID || session.State != domain.StateCommuting {
			continue
		}
		if session.StartedAt.Before(dayStart.UTC()) {
			continue
		}
		if latest == nil || session.StartedAt.After(latest.StartedAt) {
			cp := session
			latest = &cp
		}
	}
	return latest, nil
}

func (s *memStore) HasWorkedToday(ctx context.Context, userID int64, dayStart time.Time) (bool, error) {
	for _, session := range s.sessions {
		if session.UserID == userID &&
			session.State == domain.StateWorking &&
			session.EndedAt != nil &&
			!session.StartedAt.Before(dayStart.UTC()) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) GetSessionsByDate(ctx context.Context, userID int64, dayStart time.Time) ([]domain.TrackingSession, error) {
	return s.GetSessionsInRange(ctx, userID, dayStart, dayStart.Add(24*time.Hour))
}

func (s *memStore) GetSessionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]domain.TrackingSession, error) {
	var result []domain.TrackingSession
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		if session.StartedAt.Before(from.UTC()) || !session.StartedAt.Before(to.UTC()) {
			continue
		}
		result = append(result, session)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.Before(result[j].StartedAt) })
	return result, nil
}

func (s *memStore) GetRecentSessions(ctx context.Context, userID int64, limit int) ([]domain.TrackingSession, error) {
	var result []domain.TrackingSession
	for _, session := range s.sessions {
		if session.UserID == userID {
			result = append(result, session)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartedAt.After(result[j].StartedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *memStore) Add(ctx context.Context, session domain.TrackingSession) error {
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *memStore) Update(ctx context.Context, session domain.TrackingSession) error {
	if _, exists := s.sessions[session.ID]; !exists {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, session.ID)
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *memStore) GetAverageDuration(ctx context.Context, userID int64, state domain.State) (*float64, error) {
	var totalHours float64
	var count int
	for _, session := range s.sessions {
		if session.UserID == userID && session.State == state && session.EndedAt != nil {
			totalHours += session.EndedAt.Sub(session.StartedAt).Hours()
			count++
		}
	}
	if count == 0 {
		return nil, nil
	}
	average := totalHours / float64(count)
	return &average, nil
}

func (s *memStore) GetTotalWorkHoursForDay(ctx context.Context, userID int64, dayStart, now time.Time) (float64, error) {
	dayEnd := dayStart.UTC().Add(24 * time.Hour)
	now = now.UTC()

	var total float64
	for _, session := range s.sessions {
		if session.UserID != userID || session.State != domain.StateWorking {
			continue
		}
		if session.StartedAt.Before(dayStart.UTC()) || !session.StartedAt.Before(dayEnd) {
			continue
		}
		end := now
		if session.EndedAt != nil {
			end = session.EndedAt.UTC()
		}
		if end.After(session.StartedAt) {
			total += end.Sub(session.StartedAt).Hours()
		}
	}
	return total, nil
}
