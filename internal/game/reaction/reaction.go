package reaction

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	DefaultMinPause = time.Second
	DefaultMaxPause = 5 * time.Second
	Button          = "🖱️"
)

var (
	ErrNotTheButton = errors.New("not the reaction button")
	ErrTooEarly     = errors.New("reacted before the signal")
)

type State struct {
	Armed   bool          `json:"armed"`
	Winner  string        `json:"winner,omitempty"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
}

// Game waits a random pause, then arms; the first press after that wins.
type Game struct {
	pause    time.Duration
	controls session.Controls[struct{}]
	armedAt  time.Time
	winner   string
	elapsed  time.Duration
	result   *entity.TerminalResult
}

// New draws the pause uniformly from [minPause, maxPause].
func New(rng *rand.Rand, minPause, maxPause time.Duration) *Game {
	if minPause <= 0 {
		minPause = DefaultMinPause
	}

	if maxPause < minPause {
		maxPause = minPause
	}

	pause := minPause
	if span := maxPause - minPause; span > 0 {
		pause += time.Duration(rng.Int64N(int64(span) + 1))
	}

	return &Game{
		pause: pause,
		controls: session.NewControls(
			session.Binding[struct{}]{Token: Button},
			session.Binding[struct{}]{Token: "🖱"},
			session.Binding[struct{}]{Token: "click"},
			session.Binding[struct{}]{Token: "now"},
		),
	}
}

func (that *Game) Delay() time.Duration { return that.pause }

func (that *Game) Start(now time.Time) { that.armedAt = now }

func (that *Game) Players() []string  { return nil }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (time.Time, error) {
	if _, ok := that.controls.Lookup(in.Value); !ok {
		return time.Time{}, apperror.Reject(ErrNotTheButton, "press the button")
	}

	return in.ReceivedAt, nil
}

func (that *Game) Check(_ string, at time.Time) error {
	if that.armedAt.IsZero() || at.Before(that.armedAt) {
		return apperror.Reject(ErrTooEarly, "too early, wait for the signal")
	}

	return nil
}

func (that *Game) Apply(playerID string, at time.Time) error {
	that.winner = playerID
	that.elapsed = at.Sub(that.armedAt)
	that.result = entity.Win(playerID).
		WithScore(int(that.elapsed.Milliseconds())).
		WithDetail(fmt.Sprintf("%s reacted first in %.2fs", playerID, that.elapsed.Seconds()))

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{Armed: !that.armedAt.IsZero(), Winner: that.winner, Elapsed: that.elapsed}
}
