package numbermemory

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	InitialPause   = 2 * time.Second
	PauseIncrement = time.Second
)

var ErrNotANumber = errors.New("not a number")

// State carries the number itself; adapters show it for ShowFor and then
// hide it before the player answers.
type State struct {
	Level   int           `json:"level"`
	Number  string        `json:"number"`
	ShowFor time.Duration `json:"show_for"`
}

// Game shows a number with as many digits as the current level. A right
// answer moves to the next level, the first wrong one ends the game.
type Game struct {
	player string
	level  int
	number string
	rng    *rand.Rand
	result *entity.TerminalResult
}

func New(player string, rng *rand.Rand) *Game {
	game := &Game{player: player, level: 1, rng: rng}
	game.number = Generate(rng, game.level)

	return game
}

// Generate returns a number of the given length without a leading zero.
func Generate(rng *rand.Rand, digits int) string {
	var sb strings.Builder
	sb.WriteByte(byte('1' + rng.IntN(9)))

	for range digits - 1 {
		sb.WriteByte(byte('0' + rng.IntN(10)))
	}

	return sb.String()
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (string, error) {
	value := strings.TrimSpace(in.Value)
	if value == "" || strings.ContainsFunc(value, func(r rune) bool { return r < '0' || r > '9' }) {
		return "", apperror.Rejectf(ErrNotANumber, "%q is not a valid number", value)
	}

	return value, nil
}

func (that *Game) Check(string, string) error { return nil }

func (that *Game) Apply(_ string, guess string) error {
	if guess != that.number {
		that.result = entity.Loss().
			WithScore(that.level - 1).
			WithDetail(fmt.Sprintf("correct number: %s, your guess: %s", that.number, guess))

		return nil
	}

	that.level++
	that.number = Generate(that.rng, that.level)

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{
		Level:   that.level,
		Number:  that.number,
		ShowFor: InitialPause + time.Duration(that.level-1)*PauseIncrement,
	}
}
