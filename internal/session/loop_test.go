package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Alternation(t *testing.T) {
	t.Run("Valid moves alternate turns until the game is won", func(t *testing.T) {
		// Given: a race to 5 between a and b
		game := newCountGame(5, "a", "b")
		source := &scriptedSource{inputs: []Input{in("a", "2"), in("b", "3")}}
		renderer := &recordingRenderer{}

		// When: running the session
		result, err := Run[int](context.Background(), game, IO{Input: source, Render: renderer}, Options{SessionID: "s1"})

		// Then: b wins and every await asked the right player
		require.NoError(t, err)
		assert.Equal(t, entity.ReasonWin, result.Reason)
		assert.Equal(t, "b", result.Winner)
		require.Len(t, source.requests, 2)
		assert.Equal(t, []string{"a"}, source.requests[0].Eligible)
		assert.Equal(t, []string{"b"}, source.requests[1].Eligible)
		assert.Equal(t, "s1", source.requests[0].SessionID)

		// And: initial, intermediate and final states were rendered
		require.Len(t, renderer.snapshots, 3)
		assert.Equal(t, 0, renderer.snapshots[0].State)
		assert.Equal(t, 5, renderer.last().State)
		assert.Equal(t, result, renderer.last().Result)
	})

	t.Run("Rejected input does not consume the turn", func(t *testing.T) {
		// Given: a's first input is malformed and b answers out of turn
		game := newCountGame(3, "a", "b")
		source := &scriptedSource{inputs: []Input{in("a", "nine"), in("b", "1"), in("a", "3")}}
		notifier := newRecordingNotifier()

		// When: running with the reject policy
		result, err := Run[int](context.Background(), game, IO{Input: source, Notify: notifier}, Options{Policy: PolicyReject})

		// Then: a still wins with its first valid move
		require.NoError(t, err)
		assert.Equal(t, "a", result.Winner)
		assert.Equal(t, []string{"send 1, 2 or 3"}, notifier.messages["a"])
		assert.Equal(t, []string{apperror.ErrNotYourTurn.Error()}, notifier.messages["b"])

		// And: every wait was addressed to a
		for _, req := range source.requests {
			assert.Equal(t, []string{"a"}, req.Eligible)
		}
	})

	t.Run("Ignore policy stays silent", func(t *testing.T) {
		game := newCountGame(1, "a", "b")
		source := &scriptedSource{inputs: []Input{in("a", "x"), in("b", "1"), in("a", "1")}}
		notifier := newRecordingNotifier()

		result, err := Run[int](context.Background(), game, IO{Input: source, Notify: notifier}, Options{})

		require.NoError(t, err)
		assert.Equal(t, "a", result.Winner)
		assert.Empty(t, notifier.messages)
	})

	t.Run("Outsiders hear only about authorization", func(t *testing.T) {
		// Given: a spectator chatting and then trying a move
		game := newCountGame(1, "a", "b")
		source := &scriptedSource{inputs: []Input{in("z", "hello"), in("z", "1"), in("a", "1")}}
		notifier := newRecordingNotifier()

		// When: running
		_, err := Run[int](context.Background(), game, IO{Input: source, Notify: notifier}, Options{Policy: PolicyReject})

		// Then: only the move attempt is answered
		require.NoError(t, err)
		assert.Equal(t, []string{apperror.ErrNotAParticipant.Error()}, notifier.messages["z"])
	})
}

func TestRun_Timeout(t *testing.T) {
	t.Run("No input ends the session without touching the board", func(t *testing.T) {
		// Given: one applied move and then silence
		game := newCountGame(9, "a", "b")
		source := &scriptedSource{inputs: []Input{in("a", "2")}}
		renderer := &recordingRenderer{}

		// When: running with a short move timeout
		result, err := Run[int](context.Background(), game, IO{Input: source, Render: renderer}, Options{MoveTimeout: 20 * time.Millisecond})

		// Then: the result is a timeout and the last state is frozen
		require.NoError(t, err)
		assert.Equal(t, entity.ReasonTimeout, result.Reason)
		assert.Equal(t, 2, renderer.last().State)
		assert.Equal(t, entity.ReasonTimeout, renderer.last().Result.Reason)
		assert.Empty(t, renderer.last().Eligible)
	})

	t.Run("Total timeout uses the game's own resolution", func(t *testing.T) {
		// Given: a game that turns a timeout into a win
		game := &delayedGame{countGame: newCountGame(9, "a"), timeout: entity.Win("a")}
		source := &scriptedSource{}
		var slept time.Duration

		// When: running with a total timeout and a fake sleeper
		result, err := Run[int](context.Background(), game, IO{Input: source}, Options{
			TotalTimeout: 20 * time.Millisecond,
			Sleep: func(_ context.Context, d time.Duration) error {
				slept = d
				return nil
			},
			Now: func() time.Time { return time.Unix(100, 0) },
		})

		// Then: the game resolved it, after its pause and start
		require.NoError(t, err)
		assert.Equal(t, entity.ReasonWin, result.Reason)
		assert.Equal(t, 3*time.Second, slept)
		assert.Equal(t, time.Unix(100, 0), game.startedAt)
	})
}

func TestRun_Cancel(t *testing.T) {
	t.Run("Two-sided cancel waits for both participants", func(t *testing.T) {
		// Given: a asks to cancel, plays on, then b agrees
		game := newCountGame(9, "a", "b")
		source := &scriptedSource{inputs: []Input{in("a", "cancel"), in("a", "1"), in("b", "CANCEL")}}
		notifier := newRecordingNotifier()

		// When: running with an all-participants quorum
		result, err := Run[int](context.Background(), game, IO{Input: source, Notify: notifier}, Options{
			CancelWord:   "cancel",
			CancelQuorum: QuorumAll,
		})

		// Then: the session ends cancelled after b's confirmation
		require.NoError(t, err)
		assert.Equal(t, entity.ReasonCancel, result.Reason)
		assert.Equal(t, 1, game.total)
		assert.Equal(t, []string{msgCancelWaiting}, notifier.messages["a"])
		assert.Len(t, notifier.messages["b"], 1)
	})

	t.Run("Single cancel is enough with the any quorum", func(t *testing.T) {
		game := newCountGame(9, "a", "b")
		source := &scriptedSource{inputs: []Input{in("b", "stop")}}

		result, err := Run[int](context.Background(), game, IO{Input: source}, Options{CancelWord: "stop"})

		require.NoError(t, err)
		assert.Equal(t, entity.ReasonCancel, result.Reason)
	})

	t.Run("Outsiders cannot cancel", func(t *testing.T) {
		game := newCountGame(1, "a", "b")
		source := &scriptedSource{inputs: []Input{in("z", "stop"), in("a", "1")}}

		result, err := Run[int](context.Background(), game, IO{Input: source}, Options{CancelWord: "stop"})

		require.NoError(t, err)
		assert.Equal(t, entity.ReasonWin, result.Reason)
	})
}

func TestRun_Failures(t *testing.T) {
	t.Run("Parent cancellation aborts the session", func(t *testing.T) {
		// Given: a context cancelled while waiting
		ctx, cancel := context.WithCancel(context.Background())
		game := newCountGame(9, "a", "b")
		source := &scriptedSource{}

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		// When: running
		result, err := Run[int](ctx, game, IO{Input: source}, Options{MoveTimeout: time.Minute})

		// Then: no result and an abort error
		assert.Nil(t, result)
		require.ErrorIs(t, err, apperror.ErrSessionAborted)
	})

	t.Run("Input source failure is an external failure", func(t *testing.T) {
		sourceErr := errors.New("connection lost")
		source := &scriptedSource{err: sourceErr}

		result, err := Run[int](context.Background(), newCountGame(9, "a", "b"), IO{Input: source}, Options{})

		assert.Nil(t, result)
		require.ErrorIs(t, err, apperror.ErrExternalFailure)
		require.ErrorIs(t, err, sourceErr)
	})

	t.Run("Missing input source", func(t *testing.T) {
		_, err := Run[int](context.Background(), newCountGame(9, "a"), IO{}, Options{})

		require.ErrorIs(t, err, apperror.ErrExternalFailure)
	})
}

func TestRun_LegalPredicate(t *testing.T) {
	// Given: a session stopped by its source after one move
	game := newCountGame(9, "a", "b")
	source := &scriptedSource{inputs: []Input{in("a", "2")}, err: errors.New("closed")}

	_, err := Run[int](context.Background(), game, IO{Input: source}, Options{CancelWord: "stop"})
	require.ErrorIs(t, err, apperror.ErrExternalFailure)

	// Then: the predicate handed to the source mirrors validation
	legal := source.requests[1].Legal
	assert.True(t, legal(in("b", "1")))
	assert.True(t, legal(in("a", "stop")))
	assert.False(t, legal(in("a", "1")))
	assert.False(t, legal(in("b", "7")))
}

func TestNewRunner(t *testing.T) {
	// Given: a type-erased runner
	runner := NewRunner[int](newCountGame(1, "a"))

	// When: running it
	result, err := runner.Run(context.Background(), IO{Input: &scriptedSource{inputs: []Input{in("a", "1")}}}, Options{})

	// Then: it drives the core
	require.NoError(t, err)
	assert.Equal(t, "a", result.Winner)
	assert.Equal(t, 1, runner.Snapshot())
}

func TestRun_Announcements(t *testing.T) {
	// Given: a game that narrates every move
	game := &announcingGame{countGame: newCountGame(3, "a", "b")}
	source := &scriptedSource{inputs: []Input{in("a", "1"), in("b", "2")}}
	notifier := newRecordingNotifier()

	// When: running it
	_, err := Run[int](context.Background(), game, IO{Input: source, Notify: notifier}, Options{})

	// Then: each mover heard about their move exactly once
	require.NoError(t, err)
	assert.Equal(t, []string{"added 1"}, notifier.messages["a"])
	assert.Equal(t, []string{"added 2"}, notifier.messages["b"])
}
