package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStatusMethods(t *testing.T) {
	t.Run("New session is waiting", func(t *testing.T) {
		// Given: a freshly created session
		session := NewSession("s1", "tictactoe", nil, time.Unix(0, 0))

		// Then: it should be waiting
		assert.True(t, session.IsWaiting())
		assert.False(t, session.IsOngoing())
		assert.False(t, session.IsFinished())
	})

	t.Run("Start makes the session ongoing", func(t *testing.T) {
		// Given: a waiting session
		session := NewSession("s1", "tictactoe", nil, time.Unix(0, 0))

		// When: starting it
		session.Start()

		// Then: it should be ongoing
		assert.True(t, session.IsOngoing())
	})
}

func TestSession_Finish(t *testing.T) {
	t.Run("Result is recorded once", func(t *testing.T) {
		// Given: an ongoing session
		session := NewSession("s1", "hangman", nil, time.Unix(0, 0))
		session.Start()

		// When: finishing it twice
		err := session.Finish(Win("p1"))
		require.NoError(t, err)
		err = session.Finish(Loss())

		// Then: the second result is refused and the first one kept
		require.ErrorIs(t, err, ErrResultAlreadySet)
		assert.Equal(t, ReasonWin, session.Result.Reason)
		assert.Equal(t, "p1", session.Result.Winner)
		assert.True(t, session.IsFinished())
	})
}

func TestSession_ConfirmOngoingState(t *testing.T) {
	t.Run("Returns ErrGameIsNotStarted when waiting", func(t *testing.T) {
		session := &Session{Status: StatusWaiting}

		assert.ErrorIs(t, session.ConfirmOngoingState(), apperror.ErrGameIsNotStarted)
	})

	t.Run("Returns ErrGameFinished when finished", func(t *testing.T) {
		session := &Session{Status: StatusFinished}

		assert.ErrorIs(t, session.ConfirmOngoingState(), apperror.ErrGameFinished)
	})

	t.Run("Returns error for unknown status", func(t *testing.T) {
		session := &Session{Status: "unknown"}

		err := session.ConfirmOngoingState()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown session status")
	})
}

func TestSession_Players(t *testing.T) {
	// Given: a session with two players
	session := NewSession("s1", "battleship", []*Player{NewPlayer("a", "Alice"), NewPlayer("b", "")}, time.Unix(0, 0))

	// Then: membership and order are reported
	assert.True(t, session.HasPlayer("a"))
	assert.False(t, session.HasPlayer("c"))
	assert.Equal(t, []string{"a", "b"}, session.PlayerIDs())
	assert.Equal(t, "b", session.Players[1].DisplayName())
}

func TestTerminalResult_Copies(t *testing.T) {
	// Given: a win result
	base := Win("p1")

	// When: deriving a scored copy
	scored := base.WithScore(12).WithDetail("boggle")

	// Then: the original is untouched
	assert.Equal(t, 0, base.Score)
	assert.Equal(t, 12, scored.Score)
	assert.Equal(t, "boggle", scored.Detail)
}
