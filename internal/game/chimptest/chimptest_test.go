package chimptest

import (
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func click(t *testing.T, game *Game, cell int) error {
	t.Helper()

	move, err := session.Validate[int](game, session.Input{PlayerID: "p", Value: strconv.Itoa(cell + 1)})
	if err != nil {
		return err
	}

	require.NoError(t, game.Apply("p", move))

	return nil
}

func TestNew(t *testing.T) {
	game, err := New("p", 0, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	numbers := 0
	for _, number := range game.Snapshot().(State).Grid {
		if number > 0 {
			numbers++
		}
	}

	assert.Equal(t, DefaultCount, numbers)

	_, err = New("p", 26, rand.New(rand.NewPCG(1, 2)))
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestGame(t *testing.T) {
	t.Run("Clicking in ascending order wins", func(t *testing.T) {
		// Given: four numbers on the grid
		game, err := New("p", 4, rand.New(rand.NewPCG(3, 4)))
		require.NoError(t, err)

		// When: clicking the first one
		require.NoError(t, click(t, game, game.order[0]))

		// Then: the other numbers are hidden
		state := game.Snapshot().(State)
		assert.True(t, state.Hidden)
		assert.Equal(t, 1, state.Grid[game.order[0]])
		assert.Equal(t, 0, state.Grid[game.order[1]])

		for _, cell := range game.order[1:] {
			require.NoError(t, click(t, game, cell))
		}

		require.NotNil(t, game.Result())
		assert.Equal(t, entity.ReasonWin, game.Result().Reason)
		assert.Equal(t, 4, game.Result().Score)
	})

	t.Run("Out of order click loses", func(t *testing.T) {
		game, err := New("p", 4, rand.New(rand.NewPCG(3, 4)))
		require.NoError(t, err)

		require.NoError(t, click(t, game, game.order[0]))
		require.NoError(t, click(t, game, game.order[2]))

		require.NotNil(t, game.Result())
		assert.Equal(t, entity.ReasonLoss, game.Result().Reason)
		assert.Equal(t, 1, game.Result().Score)
		assert.Equal(t, 3, game.Snapshot().(State).Grid[game.order[2]])
	})

	t.Run("Empty and revealed cells are rejected", func(t *testing.T) {
		game, err := New("p", 1, rand.New(rand.NewPCG(3, 4)))
		require.NoError(t, err)

		empty := (game.order[0] + 1) % Cells
		require.ErrorIs(t, click(t, game, empty), ErrEmptyCell)

		_, err = session.Validate[int](game, session.Input{PlayerID: "p", Value: "26"})
		require.ErrorIs(t, err, ErrInvalidCell)
	})

	t.Run("Revealed cell cannot be clicked again", func(t *testing.T) {
		game, err := New("p", 3, rand.New(rand.NewPCG(3, 4)))
		require.NoError(t, err)

		require.NoError(t, click(t, game, game.order[0]))
		require.ErrorIs(t, click(t, game, game.order[0]), ErrAlreadyFound)
	})
}
