package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psimao/ponto/internal/domain"
)

func seedUserModel(t *testing.T, repo *SQLiteRepository, model *UserModel) {
	t.Helper()
	require.NoError(t, repo.db.Create(model).Error)
}

func TestUserRepository_GetUser(t *testing.T) {
	repo := newTestRepo(t)
	users := NewUserRepository(repo)

	maxWork := 8.0
	threshold := 150
	seedUserModel(t, repo, &UserModel{
		ExternalID:                     "U123",
		DisplayName:                    "Alice",
		UTCOffsetMinutes:               -180,
		MaxWorkHours:                   &maxWork,
		ForgotShutdownThresholdPercent: &threshold,
	})

	got, err := users.GetUserByExternalID(context.Background(), "U123")
	require.NoError(t, err)

	byID, err := users.GetUser(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.DisplayName)
	assert.Equal(t, -180, byID.UTCOffsetMinutes)
	require.NotNil(t, byID.MaxWorkHours)
	assert.Equal(t, 8.0, *byID.MaxWorkHours)
	require.NotNil(t, byID.ForgotShutdownThresholdPercent)
	assert.Equal(t, 150, *byID.ForgotShutdownThresholdPercent)
	assert.Nil(t, byID.TargetWorkHours)
	assert.Nil(t, byID.LunchReminderHour)
}

func TestUserRepository_GetUserNotFound(t *testing.T) {
	repo := newTestRepo(t)
	users := NewUserRepository(repo)

	_, err := users.GetUser(context.Background(), 999)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = users.GetUserByExternalID(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_GetAllUsers(t *testing.T) {
	repo := newTestRepo(t)
	users := NewUserRepository(repo)

	all, err := users.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	seedUserModel(t, repo, &UserModel{ExternalID: "U1", DisplayName: "Alice"})
	seedUserModel(t, repo, &UserModel{ExternalID: "U2", DisplayName: "Bob"})

	all, err = users.GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].DisplayName)
	assert.Equal(t, "Bob", all[1].DisplayName)
}
