package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/ports"
)

// UserRepository implements ports.UserReader against the same database the
// session repository uses. The core only reads user configuration.
type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserReader = (*UserRepository)(nil)

// NewUserRepository creates a UserRepository sharing the session
// repository's connection.
func NewUserRepository(repo *SQLiteRepository) *UserRepository {
	return &UserRepository{db: repo.db}
}

// GetUser implements UserReader.GetUser
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var model UserModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrUserNotFound, id)
		}
		return nil, err
	}
	user := userModelToDomain(model)
	return &user, nil
}

// GetAllUsers implements UserReader.GetAllUsers
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	var models []UserModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Order("id ASC").Find(&models).Error
	}, 3)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(models))
	for i, m := range models {
		users[i] = userModelToDomain(m)
	}
	return users, nil
}

// GetUserByExternalID implements UserReader.GetUserByExternalID
func (r *UserRepository) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var model UserModel
	err := withRetry(func() error {
		return r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&model).Error
	}, 3)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: external id %s", domain.ErrUserNotFound, externalID)
		}
		return nil, err
	}
	user := userModelToDomain(model)
	return &user, nil
}
