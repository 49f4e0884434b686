package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/logging"
	"github.com/psimao/ponto/internal/ports"
)

// SQLiteRepository implements ports.SessionRepository using GORM
type SQLiteRepository struct {
	sessionStore
	db *gorm.DB
}

// Verify interface compliance at compile time
var (
	_ ports.SessionRepository = (*SQLiteRepository)(nil)
	_ ports.SessionStore      = (*sessionStore)(nil)
)

// gormLogger wraps the ponto logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err,
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else if elapsed > 200*time.Millisecond {
		logging.Logger.Warn("slow query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed,
			"sql", sql,
			"rows", rows,
		)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("PONTO_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteRepository creates a new SQLiteRepository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		PrepareStmt: false,
		NowFunc:     func() time.Time { return time.Now().UTC() },
		Logger:      newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode so worker sweeps and interactive commands can interleave
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA synchronous=NORMAL")
	db.Exec("PRAGMA foreign_keys=ON")

	if err := db.AutoMigrate(&SessionModel{}, &UserModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	return &SQLiteRepository{sessionStore: sessionStore{db: db}, db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx implements SessionRepository.WithTx. All operations made through
// the store commit together; an error from fn rolls everything back.
func (r *SQLiteRepository) WithTx(ctx context.Context, fn func(ports.SessionStore) error) error {
	return withRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&sessionStore{db: tx})
		})
	}, 3)
}

// sessionStore implements ports.SessionStore against either the root
// connection or a transaction handle.
type sessionStore struct {
	db *gorm.DB
}

// Get implements SessionReader.Get
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.TrackingSession, error) {
	var model SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, err
	}
	session := sessionModelToDomain(model)
	return &session, nil
}

// GetActiveSession implements SessionReader.GetActiveSession
func (s *sessionStore) GetActiveSession(ctx context.Context, userID int64) (*domain.TrackingSession, error) {
	var model SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ? AND ended_at IS NULL", userID).
			Order("started_at DESC").
			First(&model).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	session := sessionModelToDomain(model)
	return &session, nil
}

// GetAllActiveSessions implements SessionReader.GetAllActiveSessions
func (s *sessionStore) GetAllActiveSessions(ctx context.Context) ([]domain.TrackingSession, error) {
	var models []SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("ended_at IS NULL").
			Order("started_at ASC").
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, err
	}
	return sessionsToDomain(models), nil
}

// GetLastCommuteSessionToday implements SessionReader.GetLastCommuteSessionToday
func (s *sessionStore) GetLastCommuteSessionToday(ctx context.Context, userID int64, dayStart time.Time) (*domain.TrackingSession, error) {
	var model SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ? AND state = ? AND started_at >= ?", userID, string(domain.StateCommuting), dayStart.UTC()).
			Order("started_at DESC").
			First(&model).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	session := sessionModelToDomain(model)
	return &session, nil
}

// HasWorkedToday implements SessionReader.HasWorkedToday
func (s *sessionStore) HasWorkedToday(ctx context.Context, userID int64, dayStart time.Time) (bool, error) {
	var count int64
	err := withRetry(func() error {
		return s.db.WithContext(ctx).Model(&SessionModel{}).
			Where("user_id = ? AND state = ? AND ended_at IS NOT NULL AND started_at >= ?",
				userID, string(domain.StateWorking), dayStart.UTC()).
			Count(&count).Error
	}, 3)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetSessionsByDate implements SessionReader.GetSessionsByDate
func (s *sessionStore) GetSessionsByDate(ctx context.Context, userID int64, dayStart time.Time) ([]domain.TrackingSession, error) {
	return s.GetSessionsInRange(ctx, userID, dayStart, dayStart.Add(24*time.Hour))
}

// GetSessionsInRange implements SessionReader.GetSessionsInRange
func (s *sessionStore) GetSessionsInRange(ctx context.Context, userID int64, from, to time.Time) ([]domain.TrackingSession, error) {
	var models []SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from.UTC(), to.UTC()).
			Order("started_at ASC").
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, err
	}
	return sessionsToDomain(models), nil
}

// GetRecentSessions implements SessionReader.GetRecentSessions
func (s *sessionStore) GetRecentSessions(ctx context.Context, userID int64, limit int) ([]domain.TrackingSession, error) {
	var models []SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("started_at DESC").
			Limit(limit).
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, err
	}
	return sessionsToDomain(models), nil
}

// Add implements SessionWriter.Add
func (s *sessionStore) Add(ctx context.Context, session domain.TrackingSession) error {
	model := domainToSessionModel(session)
	return withRetry(func() error {
		if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		return nil
	}, 3)
}

// Update implements SessionWriter.Update
func (s *sessionStore) Update(ctx context.Context, session domain.TrackingSession) error {
	model := domainToSessionModel(session)
	return withRetry(func() error {
		result := s.db.WithContext(ctx).Model(&SessionModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]any{
				"commute_direction": model.CommuteDirection,
				"ended_at":          model.EndedAt,
				"note":              model.Note,
				"started_at":        model.StartedAt,
				"state":             model.State,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, session.ID)
		}
		return nil
	}, 3)
}

// GetAverageDuration implements SessionAggregator.GetAverageDuration. The
// duration arithmetic happens in Go: SQLite datetime string parsing across
// driver timestamp formats is not worth trusting for correctness.
func (s *sessionStore) GetAverageDuration(ctx context.Context, userID int64, state domain.State) (*float64, error) {
	var models []SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ? AND state = ? AND ended_at IS NOT NULL", userID, string(state)).
			Find(&models).Error
	}, 3)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	var totalHours float64
	for _, m := range models {
		totalHours += m.EndedAt.Sub(m.StartedAt).Hours()
	}
	average := totalHours / float64(len(models))
	return &average, nil
}

// GetTotalWorkHoursForDay implements SessionAggregator.GetTotalWorkHoursForDay.
// A still-active working session contributes its elapsed time up to now.
func (s *sessionStore) GetTotalWorkHoursForDay(ctx context.Context, userID int64, dayStart, now time.Time) (float64, error) {
	var models []SessionModel
	err := withRetry(func() error {
		return s.db.WithContext(ctx).
			Where("user_id = ? AND state = ? AND started_at >= ? AND started_at < ?",
				userID, string(domain.StateWorking), dayStart.UTC(), dayStart.UTC().Add(24*time.Hour)).
			Find(&models).Error
	}, 3)
	if err != nil {
		return 0, err
	}

	now = now.UTC()
	var total float64
	for _, m := range models {
		end := now
		if m.EndedAt != nil {
			end = m.EndedAt.UTC()
		}
		if end.After(m.StartedAt) {
			total += end.Sub(m.StartedAt).Hours()
		}
	}
	return total, nil
}

func sessionsToDomain(models []SessionModel) []domain.TrackingSession {
	sessions := make([]domain.TrackingSession, len(models))
	for i, m := range models {
		sessions[i] = sessionModelToDomain(m)
	}
	return sessions
}

// withRetry retries operations on SQLITE_BUSY with exponential backoff
func withRetry(fn func() error, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
			time.Sleep(time.Millisecond * time.Duration(50*(i+1)))
			continue
		}

		return err
	}
	return fmt.Errorf("operation failed after %d retries", maxRetries)
}
