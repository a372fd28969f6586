package repositories_test

import (
	"context"
	"github.com/myrjola/cluequest/internal/models"
	"github.com/myrjola/cluequest/internal/repositories"
	"github.com/myrjola/cluequest/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"sync"
	"testing"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := repositories.NewUserRepository(db, testhelpers.NewLogger(io.Discard))

	id := []byte("test-user-handle")

	t.Run("get before create returns ErrNoRecord", func(t *testing.T) {
		_, err := users.Get(ctx, id)
		assert.ErrorIs(t, err, repositories.ErrNoRecord)

		exists, err := users.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("create and get", func(t *testing.T) {
		err := users.Create(ctx, &models.User{
			ID:          id,
			DisplayName: "Anonymous detective",
			Progress:    0,
		})
		require.NoError(t, err)

		user, err := users.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Anonymous detective", user.DisplayName)
		assert.EqualValues(t, 0, user.Progress)
		assert.EqualValues(t, 1, user.Level())

		exists, err := users.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("increment progress", func(t *testing.T) {
		progress, err := users.IncrementProgress(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, 1, progress)

		user, err := users.Get(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, 1, user.Progress)
		assert.EqualValues(t, 2, user.Level())
	})

	t.Run("increment progress for unknown user returns ErrNoRecord", func(t *testing.T) {
		_, err := users.IncrementProgress(ctx, []byte("no-such-user"))
		assert.ErrorIs(t, err, repositories.ErrNoRecord)
	})
}

func TestUserRepository_IncrementProgress_concurrent(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := repositories.NewUserRepository(db, testhelpers.NewLogger(io.Discard))

	id := []byte("concurrent-user")
	createTestUser(t, db, id)

	const solves = 10
	var wg sync.WaitGroup
	errs := make(chan error, solves)
	for i := 0; i < solves; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := users.IncrementProgress(ctx, id)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	user, err := users.Get(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, solves, user.Progress)
}
