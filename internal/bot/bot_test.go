package bot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/tictactoe"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// humanCells plays the given cells in order for the human seat.
type humanCells struct {
	cells []string
	asked int
}

func (that *humanCells) NextInput(ctx context.Context, _ session.Request) (session.Input, error) {
	that.asked++

	if len(that.cells) == 0 {
		<-ctx.Done()
		return session.Input{}, ctx.Err()
	}

	cell := that.cells[0]
	that.cells = that.cells[1:]

	return session.Input{PlayerID: "human", Value: cell}, nil
}

func TestSource_MakeTurn(t *testing.T) {
	t.Run("Only legal moves are picked", func(t *testing.T) {
		// Given: a request where only cell 5 is legal
		source := NewSource(slog.Default(), nil, tictactoe.BotMoves(), rand.New(rand.NewPCG(1, 2)), 0)
		req := session.Request{
			Eligible: []string{ID},
			Legal:    func(in session.Input) bool { return in.Value == "5" },
		}

		// When: the bot moves
		in, err := source.MakeTurn(req)

		// Then: it picked the only free cell
		require.NoError(t, err)
		assert.Equal(t, ID, in.PlayerID)
		assert.Equal(t, "5", in.Value)
	})

	t.Run("No legal moves", func(t *testing.T) {
		source := NewSource(slog.Default(), nil, []string{"1"}, rand.New(rand.NewPCG(1, 2)), 0)

		_, err := source.MakeTurn(session.Request{
			Eligible: []string{ID},
			Legal:    func(session.Input) bool { return false },
		})

		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}

func TestSource_PlaysFullGame(t *testing.T) {
	// Given: a human holding X against the bot, always playing the first free cell
	game := tictactoe.New("human", ID)
	human := &humanCells{cells: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}}
	source := NewSource(slog.Default(), &skipTaken{inner: human}, tictactoe.BotMoves(), rand.New(rand.NewPCG(3, 4)), 0)

	// When: the session runs to the end
	result, err := session.Run[int](context.Background(), game, session.IO{Input: source}, session.Options{Policy: session.PolicyReject})

	// Then: it ends normally and the bot never made an illegal move
	require.NoError(t, err)
	assert.Contains(t, []entity.Reason{entity.ReasonWin, entity.ReasonTie}, result.Reason)
}

// skipTaken drops human inputs for cells that are no longer free.
type skipTaken struct {
	inner *humanCells
}

func (that *skipTaken) NextInput(ctx context.Context, req session.Request) (session.Input, error) {
	for {
		in, err := that.inner.NextInput(ctx, req)
		if err != nil {
			return in, err
		}

		if req.Legal(in) {
			return in, nil
		}
	}
}

func TestNewPlayer(t *testing.T) {
	player := NewPlayer()

	assert.True(t, player.IsBot)
	assert.Equal(t, ID, player.ID)
}
