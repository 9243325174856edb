package connectfour

import (
	"testing"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrop(t *testing.T) {
	t.Run("Discs stack from the bottom", func(t *testing.T) {
		var board Board

		row, err := Drop(&board, 3, Red)
		require.NoError(t, err)
		assert.Equal(t, Rows-1, row)

		row, err = Drop(&board, 3, Blue)
		require.NoError(t, err)
		assert.Equal(t, Rows-2, row)
		assert.Equal(t, Blue, board[Rows-2][3])
	})

	t.Run("Full column", func(t *testing.T) {
		var board Board
		for range Rows {
			_, err := Drop(&board, 0, Red)
			require.NoError(t, err)
		}

		_, err := Drop(&board, 0, Red)
		require.ErrorIs(t, err, ErrColumnFull)

		_, err = Drop(&board, 7, Red)
		require.ErrorIs(t, err, ErrInvalidColumn)
	})
}

func TestFindWinner(t *testing.T) {
	t.Run("Horizontal", func(t *testing.T) {
		var board Board
		for col := 2; col < 6; col++ {
			board[5][col] = Blue
		}

		assert.Equal(t, Blue, FindWinner(board))
	})

	t.Run("Rising diagonal", func(t *testing.T) {
		var board Board
		for i := range Connect {
			board[5-i][i] = Red
		}

		assert.Equal(t, Red, FindWinner(board))
	})

	t.Run("Three in a row is not enough", func(t *testing.T) {
		var board Board
		for row := 3; row < 6; row++ {
			board[row][0] = Red
		}

		assert.Equal(t, Blank, FindWinner(board))
	})
}

func TestGame(t *testing.T) {
	t.Run("Vertical four wins for the mover", func(t *testing.T) {
		// Given: red stacks column 1 while blue plays column 2
		game := New("r", "b")
		for _, col := range []int{0, 1, 0, 1, 0, 1} {
			require.NoError(t, game.Apply(game.Eligible()[0], col))
		}

		// When: red drops the fourth disc
		move, err := session.Validate[int](game, session.Input{PlayerID: "r", Value: "1"})
		require.NoError(t, err)
		require.NoError(t, game.Apply("r", move))

		// Then: red wins
		require.NotNil(t, game.Result())
		assert.Equal(t, entity.ReasonWin, game.Result().Reason)
		assert.Equal(t, "r", game.Result().Winner)
	})

	t.Run("Full column is rejected without passing the turn", func(t *testing.T) {
		game := New("r", "b")
		for range Rows {
			require.NoError(t, game.Apply(game.Eligible()[0], 6))
		}

		_, err := session.Validate[int](game, session.Input{PlayerID: "r", Value: "7️⃣"})

		require.ErrorIs(t, err, ErrColumnFull)
		require.ErrorIs(t, err, apperror.ErrInputRejected)
		assert.Equal(t, []string{"r"}, game.Eligible())
	})
}
