package lightsout

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/grid"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	DefaultSize = 4
	MinSize     = 2
	MaxSize     = 5
)

var (
	ErrInvalidSize = errors.New("size must be between 2 and 5")
	ErrInvalidCell = errors.New("invalid cell")
)

type State struct {
	Size   int    `json:"size"`
	Lights []bool `json:"lights"`
	Moves  int    `json:"moves"`
}

type Game struct {
	player string
	size   int
	lights []bool
	moves  int
	result *entity.TerminalResult
}

// New lights the board by pressing random cells, so it can always be
// switched off again.
func New(player string, size int, rng *rand.Rand) (*Game, error) {
	if size == 0 {
		size = DefaultSize
	}

	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	game := &Game{player: player, size: size, lights: make([]bool, size*size)}
	for game.Dark() {
		for range size * size {
			game.Toggle(rng.IntN(size * size))
		}
	}

	return game, nil
}

// Toggle flips a cell and its orthogonal neighbours.
func (that *Game) Toggle(cell int) {
	p := grid.FromIndex(cell, that.size)

	that.lights[cell] = !that.lights[cell]
	for _, n := range grid.Neighbors(p, that.size, that.size, false) {
		that.lights[n.Index(that.size)] = !that.lights[n.Index(that.size)]
	}
}

// Dark reports whether every light is off.
func (that *Game) Dark() bool {
	return !slices.Contains(that.lights, true)
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (int, error) {
	cell, err := strconv.Atoi(strings.TrimSpace(in.Value))
	if err != nil || cell < 1 || cell > len(that.lights) {
		return 0, apperror.Rejectf(ErrInvalidCell, "pick a cell from 1 to %d", len(that.lights))
	}

	return cell - 1, nil
}

func (that *Game) Check(string, int) error { return nil }

func (that *Game) Apply(_ string, cell int) error {
	that.Toggle(cell)
	that.moves++

	if that.Dark() {
		that.result = entity.Win(that.player).WithScore(that.moves)
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{Size: that.size, Lights: slices.Clone(that.lights), Moves: that.moves}
}
