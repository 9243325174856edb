package numbermemory

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	for digits := 1; digits <= 12; digits++ {
		number := Generate(rng, digits)

		assert.Len(t, number, digits)
		assert.NotEqual(t, byte('0'), number[0])
	}
}

func TestGame(t *testing.T) {
	t.Run("Right answers climb levels", func(t *testing.T) {
		// Given: a new game at level one
		game := New("p", rand.New(rand.NewPCG(1, 2)))

		// When: answering three numbers correctly
		for range 3 {
			state := game.Snapshot().(State)
			move, err := session.Validate[string](game, session.Input{PlayerID: "p", Value: " " + state.Number + " "})
			require.NoError(t, err)
			require.NoError(t, game.Apply("p", move))
		}

		// Then: the game is at level four with a four-digit number shown longer
		state := game.Snapshot().(State)
		assert.Equal(t, 4, state.Level)
		assert.Len(t, state.Number, 4)
		assert.Equal(t, 5*time.Second, state.ShowFor)
		assert.Nil(t, game.Result())
	})

	t.Run("Wrong answer ends the game", func(t *testing.T) {
		game := New("p", rand.New(rand.NewPCG(1, 2)))
		number := game.Snapshot().(State).Number

		require.NoError(t, game.Apply("p", number))
		require.NoError(t, game.Apply("p", "0"))

		require.NotNil(t, game.Result())
		assert.Equal(t, entity.ReasonLoss, game.Result().Reason)
		assert.Equal(t, 1, game.Result().Score)
	})

	t.Run("Letters are rejected", func(t *testing.T) {
		game := New("p", rand.New(rand.NewPCG(1, 2)))

		_, err := session.Validate[string](game, session.Input{PlayerID: "p", Value: "12a"})

		require.ErrorIs(t, err, ErrNotANumber)
		require.ErrorIs(t, err, apperror.ErrInputRejected)
	})
}
