package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/config"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingText struct{}

func (failingText) Text(context.Context) (string, error) {
	return "", errors.New("quote service down")
}

func testParams(t *testing.T, players ...string) Params {
	t.Helper()

	pack, err := words.Default()
	require.NoError(t, err)

	return Params{
		Players: players,
		Config: config.Games{
			Twenty48:     config.Twenty48{WinAt: 2048},
			Hangman:      config.Hangman{Lives: 8},
			Wordle:       config.Wordle{Attempts: 6},
			Typerace:     config.Typerace{Winners: 3, Threshold: 0.9},
			VerbalMemory: config.VerbalMemory{Lives: 3},
			Reaction:     config.Reaction{MinPause: time.Second, MaxPause: 5 * time.Second},
		},
		Words: pack,
		Rand:  rand.New(rand.NewPCG(7, 11)),
	}
}

func TestRegistry(t *testing.T) {
	t.Run("Every default kind builds a runner", func(t *testing.T) {
		registry := Default()

		for _, kind := range registry.Kinds() {
			definition, err := registry.Get(kind)
			require.NoError(t, err)

			players := []string{"p1", "p2"}[:definition.MinPlayers]

			// When: building a session for the minimum seat count
			runner, err := definition.New(context.Background(), testParams(t, players...))

			// Then: the runner exposes an initial snapshot
			require.NoError(t, err, kind)
			assert.NotNil(t, runner.Snapshot(), kind)
		}
	})

	t.Run("Unknown kind", func(t *testing.T) {
		_, err := Default().Get("chess")
		require.ErrorIs(t, err, apperror.ErrUnknownGame)
	})

	t.Run("Kinds keep registration order and skip duplicates", func(t *testing.T) {
		registry := NewRegistry(
			Definition{Kind: "b"},
			Definition{Kind: "a"},
			Definition{Kind: "b", MaxPlayers: 2},
		)

		assert.Equal(t, []string{"b", "a"}, registry.Kinds())

		definition, err := registry.Get("b")
		require.NoError(t, err)
		assert.Equal(t, 2, definition.MaxPlayers)
	})

	t.Run("Text source failure aborts the start", func(t *testing.T) {
		definition, err := Default().Get(KindTyperace)
		require.NoError(t, err)

		params := testParams(t, "p1")
		params.Text = failingText{}

		_, err = definition.New(context.Background(), params)
		require.ErrorIs(t, err, apperror.ErrExternalFailure)
	})
}

func TestDefinition(t *testing.T) {
	timeouts := config.Session{MoveTimeout: 2 * time.Minute, TotalTimeout: 40 * time.Second}

	t.Run("Player count", func(t *testing.T) {
		definition, err := Default().Get(KindTicTacToe)
		require.NoError(t, err)

		require.NoError(t, definition.CheckPlayers(2))
		require.ErrorIs(t, definition.CheckPlayers(1), apperror.ErrWrongPlayerCount)
		require.ErrorIs(t, definition.CheckPlayers(3), apperror.ErrWrongPlayerCount)
	})

	t.Run("Turn based games get the move timeout", func(t *testing.T) {
		definition, err := Default().Get(KindBattleship)
		require.NoError(t, err)

		opts := definition.Options(session.Options{SessionID: "s1"}, timeouts)

		assert.Equal(t, "s1", opts.SessionID)
		assert.Equal(t, KindBattleship, opts.Kind)
		assert.Equal(t, 2*time.Minute, opts.MoveTimeout)
		assert.Zero(t, opts.TotalTimeout)
		assert.Equal(t, session.QuorumAll, opts.CancelQuorum)
		assert.Equal(t, CancelWord, opts.CancelWord)
	})

	t.Run("Timed games get the total timeout", func(t *testing.T) {
		definition, err := Default().Get(KindTyperace)
		require.NoError(t, err)

		opts := definition.Options(session.Options{}, timeouts)

		assert.Zero(t, opts.MoveTimeout)
		assert.Equal(t, 40*time.Second, opts.TotalTimeout)
		assert.Equal(t, session.PolicyIgnore, opts.Policy)
	})
}
