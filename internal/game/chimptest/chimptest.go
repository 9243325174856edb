package chimptest

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	Side         = 5
	Cells        = Side * Side
	DefaultCount = 9
)

var (
	ErrInvalidCell  = errors.New("invalid cell")
	ErrEmptyCell    = errors.New("cell holds no number")
	ErrAlreadyFound = errors.New("cell already revealed")
	ErrInvalidCount = errors.New("count must be between 1 and 25")
)

// State shows numbers until the first correct click, then only the found
// ones. Zero marks an empty or hidden cell.
type State struct {
	Grid   [Cells]int `json:"grid"`
	Step   int        `json:"step"`
	Hidden bool       `json:"hidden"`
}

type Game struct {
	player string
	grid   [Cells]int
	order  []int
	step   int
	result *entity.TerminalResult
}

// New scatters the numbers 1..count over the grid.
func New(player string, count int, rng *rand.Rand) (*Game, error) {
	if count == 0 {
		count = DefaultCount
	}

	if count < 1 || count > Cells {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	game := &Game{player: player, order: rng.Perm(Cells)[:count]}
	for i, cell := range game.order {
		game.grid[cell] = i + 1
	}

	return game, nil
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

// Parse accepts a 1-based cell number, row by row.
func (that *Game) Parse(in session.Input) (int, error) {
	cell, err := strconv.Atoi(strings.TrimSpace(in.Value))
	if err != nil || cell < 1 || cell > Cells {
		return 0, apperror.Rejectf(ErrInvalidCell, "pick a cell from 1 to %d", Cells)
	}

	return cell - 1, nil
}

func (that *Game) Check(_ string, cell int) error {
	if that.grid[cell] == 0 {
		return apperror.Reject(ErrEmptyCell, "that cell is empty")
	}

	if that.grid[cell] <= that.step {
		return apperror.Reject(ErrAlreadyFound, "you already found that one")
	}

	return nil
}

func (that *Game) Apply(_ string, cell int) error {
	if cell != that.order[that.step] {
		that.result = entity.Loss().WithScore(that.step)
		return nil
	}

	that.step++
	if that.step == len(that.order) {
		that.result = entity.Win(that.player).WithScore(that.step)
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	state := State{Step: that.step, Hidden: that.step > 0 && that.result == nil}
	for cell, number := range that.grid {
		if !state.Hidden || number <= that.step {
			state.Grid[cell] = number
		}
	}

	return state
}
