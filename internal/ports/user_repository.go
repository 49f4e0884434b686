package ports

import (
	"context"

	"github.com/psimao/ponto/internal/domain"
)

// UserReader reads user tracking configuration. The core never mutates
// users; provisioning belongs to the chat transport.
type UserReader interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}
