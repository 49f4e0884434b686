package cmd

import (
	adapternotify "github.com/psimao/ponto/internal/adapters/notify"
	adapterstorage "github.com/psimao/ponto/internal/adapters/storage"
	"github.com/psimao/ponto/internal/ports"
	"github.com/psimao/ponto/internal/services"
)

// Container holds all dependencies for the application
type Container struct {
	TrackerService *services.TrackerService

	SessionRepo ports.SessionRepository
	UserReader  ports.UserReader
	Notifier    ports.Notifier
	Clock       ports.Clock

	// Internal - for cleanup only
	notifier *adapternotify.RedisNotifier
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(dbPath, redisAddr string) (*Container, error) {
	sessionRepo, err := adapterstorage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, err
	}

	userRepo := adapterstorage.NewUserRepository(sessionRepo)
	notifier := adapternotify.NewRedisNotifier(redisAddr)
	clock := ports.SystemClock{}

	return &Container{
		TrackerService: services.NewTrackerService(sessionRepo, userRepo, clock),
		SessionRepo:    sessionRepo,
		UserReader:     userRepo,
		Notifier:       notifier,
		Clock:          clock,
		notifier:       notifier,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.notifier != nil {
		if err := c.notifier.Close(); err != nil {
			return err
		}
	}
	if c.SessionRepo != nil {
		return c.SessionRepo.Close()
	}
	return nil
}
