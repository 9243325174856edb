package typerace

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type script struct {
	inputs []session.Input
}

func (that *script) NextInput(_ context.Context, _ session.Request) (session.Input, error) {
	if len(that.inputs) == 0 {
		return session.Input{}, context.DeadlineExceeded
	}

	in := that.inputs[0]
	that.inputs = that.inputs[1:]

	return in, nil
}

type failingSource struct{}

func (failingSource) Text(context.Context) (string, error) {
	return "", errors.New("quote service down")
}

func typed(playerID, text string, after time.Duration) session.Input {
	return session.Input{PlayerID: playerID, Value: text, ReceivedAt: t0.Add(after)}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("the cat", "the cat"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.Greater(t, Similarity("the quick brown fox", "the quick brown fix"), 0.9)
}

func TestRace(t *testing.T) {
	const text = "one two three four five six"

	t.Run("First three distinct typists win", func(t *testing.T) {
		// Given: a race and four typists, one of them sloppy and one repeating
		game, err := New(text, 0, 0)
		require.NoError(t, err)

		source := &script{inputs: []session.Input{
			typed("a", "One two three four five six", 30*time.Second),
			typed("a", "one two three four five six", 31*time.Second),
			typed("b", "something else entirely", 32*time.Second),
			typed("b", "one two three four five sx", 40*time.Second),
			typed("c", "one two three four five six", time.Minute),
		}}

		// When: running the race
		result, err := session.Run[Attempt](context.Background(), game, session.IO{Input: source}, session.Options{
			Now: func() time.Time { return t0 },
		})

		// Then: a wins and the podium lists three finishers
		require.NoError(t, err)
		assert.Equal(t, entity.ReasonWin, result.Reason)
		assert.Equal(t, "a", result.Winner)
		assert.Len(t, strings.Split(result.Detail, "\n"), 3)

		finishers := game.Snapshot().(State).Finishers
		require.Len(t, finishers, 3)
		assert.Equal(t, 30*time.Second, finishers[0].Elapsed)
		assert.InDelta(t, 12.0, finishers[0].WPM, 1e-9)
		assert.InDelta(t, 100.0, finishers[0].Accuracy, 1e-9)
		assert.Equal(t, "c", finishers[2].PlayerID)
		assert.InDelta(t, 6.0, finishers[2].WPM, 1e-9)
	})

	t.Run("Timeout keeps earlier finishers", func(t *testing.T) {
		game, err := New(text, 3, 0.9)
		require.NoError(t, err)

		source := &script{inputs: []session.Input{typed("a", text, 10*time.Second)}}

		result, err := session.Run[Attempt](context.Background(), game, session.IO{Input: source}, session.Options{
			Now: func() time.Time { return t0 },
		})

		require.NoError(t, err)
		assert.Equal(t, entity.ReasonWin, result.Reason)
		assert.Equal(t, "a", result.Winner)
	})

	t.Run("Timeout without finishers", func(t *testing.T) {
		game, err := New(text, 3, 0.9)
		require.NoError(t, err)

		result, err := session.Run[Attempt](context.Background(), game, session.IO{Input: &script{}}, session.Options{})

		require.NoError(t, err)
		assert.Equal(t, entity.ReasonTimeout, result.Reason)
	})

	t.Run("Repeat finisher is rejected", func(t *testing.T) {
		game, err := New(text, 3, 0.9)
		require.NoError(t, err)
		game.Start(t0)

		move, err := session.Validate[Attempt](game, typed("a", text, time.Second))
		require.NoError(t, err)
		require.NoError(t, game.Apply("a", move))

		_, err = session.Validate[Attempt](game, typed("a", text, 2*time.Second))
		require.ErrorIs(t, err, ErrAlreadyFinished)
		require.ErrorIs(t, err, apperror.ErrInputRejected)
	})
}

func TestSources(t *testing.T) {
	t.Run("Word source builds fifteen words", func(t *testing.T) {
		source := WordSource{Words: []string{"go", "run"}, Rand: rand.New(rand.NewPCG(3, 4))}

		game, err := FromSource(context.Background(), source, 0, 0)

		require.NoError(t, err)
		assert.Len(t, strings.Fields(game.Snapshot().(State).Text), WordsPerRace)
	})

	t.Run("Failing source is an external failure", func(t *testing.T) {
		_, err := FromSource(context.Background(), failingSource{}, 0, 0)

		require.ErrorIs(t, err, apperror.ErrExternalFailure)
	})

	t.Run("Empty text", func(t *testing.T) {
		_, err := New("  \n ", 0, 0)

		require.ErrorIs(t, err, ErrEmptyText)
	})
}
