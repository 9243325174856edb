package repository

import (
	"testing"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage, 0)

	// Given: a player bound to a session
	player := &entity.Player{
		ID:        "123",
		Name:      "alice",
		SessionID: "s1",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage, 0)

		// Given: a stored player
		player := &entity.Player{
			ID:        "123",
			SessionID: "s1",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		assert.Equal(t, player, retrievedPlayer)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, "9999999")

		// Then: an ErrPlayerNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
		assert.Nil(t, retrievedPlayer)
	})
}

func TestPlayerRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage, 0)

	// Given: a stored player
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: "123"}))

	// When: deleting it twice
	require.NoError(t, playerRepo.DeleteByID(ctx, "123"))
	require.NoError(t, playerRepo.DeleteByID(ctx, "123"))

	// Then: it is gone
	_, err := playerRepo.GetByID(ctx, "123")
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}
