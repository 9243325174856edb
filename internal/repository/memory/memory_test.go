package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stored sessions are copies", func(t *testing.T) {
		// Given: a stored session
		repo := NewSessionRepository()
		session := entity.NewSession("s1", "hangman", []*entity.Player{entity.NewPlayer("a", "")}, time.Unix(0, 0).UTC())
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: the caller keeps mutating its own value
		session.Start()

		// Then: the stored one is untouched until saved again
		stored, err := repo.GetByID(ctx, "s1")
		require.NoError(t, err)
		assert.True(t, stored.IsWaiting())
		assert.Equal(t, []string{"a"}, stored.PlayerIDs())
	})

	t.Run("Missing and deleted", func(t *testing.T) {
		repo := NewSessionRepository()

		_, err := repo.GetByID(ctx, "nope")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		require.ErrorIs(t, repo.DeleteByID(ctx, "nope"), apperror.ErrSessionNotFound)

		require.NoError(t, repo.CreateOrUpdate(ctx, &entity.Session{ID: "s2"}))
		require.NoError(t, repo.DeleteByID(ctx, "s2"))

		_, err = repo.GetByID(ctx, "s2")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestPlayerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPlayerRepository()

	// Given: players written concurrently
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.CreateOrUpdate(ctx, &entity.Player{ID: id, SessionID: "s1"}))
		}()
	}
	wg.Wait()

	// Then: all are readable and deletion is idempotent
	player, err := repo.GetByID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "s1", player.SessionID)

	require.NoError(t, repo.DeleteByID(ctx, "c"))
	require.NoError(t, repo.DeleteByID(ctx, "c"))

	_, err = repo.GetByID(ctx, "c")
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}
