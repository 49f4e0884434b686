package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psimao/ponto/internal/domain"
	"github.com/psimao/ponto/internal/ports"
)

var memNow = time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

func TestRepository_WithTxRollsBack(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	existing, err := domain.NewSession(1, domain.StateWorking, memNow.Add(-2*time.Hour))
	require.NoError(t, err)
	repo.SeedSession(existing)

	added, err := domain.NewSession(1, domain.StateLunch, memNow)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.WithTx(ctx, func(store ports.SessionStore) error {
		if err := store.Add(ctx, added); err != nil {
			return err
		}
		mutated := existing
		if err := mutated.End(memNow); err != nil {
			return err
		}
		if err := store.Update(ctx, mutated); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Neither the add nor the update may survive the failed transaction.
	_, err = repo.Get(ctx, added.ID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	got, err := repo.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Nil(t, got.EndedAt)
}

func TestRepository_WithTxCommits(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	session, err := domain.NewSession(1, domain.StateWorking, memNow)
	require.NoError(t, err)

	require.NoError(t, repo.WithTx(ctx, func(store ports.SessionStore) error {
		return store.Add(ctx, session)
	}))

	got, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestRepository_GetActiveSessionPicksLatest(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	older, err := domain.NewSession(1, domain.StateWorking, memNow.Add(-3*time.Hour))
	require.NoError(t, err)
	repo.SeedSession(older)

	newer, err := domain.NewSession(1, domain.StateLunch, memNow.Add(-time.Hour))
	require.NoError(t, err)
	repo.SeedSession(newer)

	got, err := repo.GetActiveSession(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}

func TestRepository_Users(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	repo.SeedUser(domain.User{ID: 2, ExternalID: "U2", DisplayName: "Bob"})
	repo.SeedUser(domain.User{ID: 1, ExternalID: "U1", DisplayName: "Alice"})

	user, err := repo.GetUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.DisplayName)

	_, err = repo.GetUser(ctx, 3)
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	byExternal, err := repo.GetUserByExternalID(ctx, "U2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), byExternal.ID)

	all, err := repo.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
}
