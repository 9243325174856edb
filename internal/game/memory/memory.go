// Package memory is the pairs game: find the twelve matching tiles on a
// five by five grid whose centre is blank.
package memory

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	Side  = 5
	Cells = Side * Side
	Pairs = 12
	blank = ""
)

var (
	ErrInvalidCell  = errors.New("invalid cell")
	ErrBlankCell    = errors.New("blank cell")
	ErrAlreadyOpen  = errors.New("tile is already open")
	ErrInvalidItems = errors.New("memory needs exactly twelve distinct items")

	DefaultItems = []string{"🥝", "🍓", "🍹", "🍋", "🥭", "🍎", "🍊", "🍍", "🍑", "🍇", "🍉", "🥬"}
)

// State lists the visible face of every cell. Peek holds the last
// mismatched pair, shown once and closed on the next click.
type State struct {
	Tiles [Cells]string `json:"tiles"`
	Peek  []int         `json:"peek,omitempty"`
	Moves int           `json:"moves"`
}

type Game struct {
	player  string
	tiles   [Cells]string
	matched [Cells]bool
	opened  int
	peek    []int
	moves   int
	result  *entity.TerminalResult
}

// New shuffles two copies of items around the blank centre cell.
func New(player string, items []string, rng *rand.Rand) (*Game, error) {
	if len(items) == 0 {
		items = DefaultItems
	}

	if len(items) != Pairs || len(slices.Compact(slices.Sorted(slices.Values(items)))) != Pairs {
		return nil, ErrInvalidItems
	}

	deck := append(slices.Clone(items), items...)
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	game := &Game{player: player, opened: -1}
	copy(game.tiles[:Cells/2], deck[:Cells/2])
	copy(game.tiles[Cells/2+1:], deck[Cells/2:])
	game.tiles[Cells/2] = blank

	return game, nil
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (int, error) {
	cell, err := strconv.Atoi(strings.TrimSpace(in.Value))
	if err != nil || cell < 1 || cell > Cells {
		return 0, apperror.Rejectf(ErrInvalidCell, "pick a cell from 1 to %d", Cells)
	}

	return cell - 1, nil
}

func (that *Game) Check(_ string, cell int) error {
	switch {
	case that.tiles[cell] == blank:
		return apperror.Reject(ErrBlankCell, "that cell is blank")
	case that.matched[cell] || cell == that.opened:
		return apperror.Reject(ErrAlreadyOpen, "that tile is already open")
	}

	return nil
}

func (that *Game) Apply(_ string, cell int) error {
	that.peek = nil

	if that.opened < 0 {
		that.opened = cell
		return nil
	}

	first := that.opened
	that.opened = -1
	that.moves++

	if that.tiles[first] != that.tiles[cell] {
		that.peek = []int{first, cell}
		return nil
	}

	that.matched[first] = true
	that.matched[cell] = true

	if that.found() == Pairs {
		that.result = entity.Win(that.player).
			WithScore(that.moves).
			WithDetail(fmt.Sprintf("cleared in %d moves", that.moves))
	}

	return nil
}

func (that *Game) found() int {
	count := 0
	for _, matched := range that.matched {
		if matched {
			count++
		}
	}

	return count / 2
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	state := State{Moves: that.moves, Peek: slices.Clone(that.peek)}
	for cell, tile := range that.tiles {
		if that.matched[cell] || cell == that.opened || slices.Contains(that.peek, cell) {
			state.Tiles[cell] = tile
		}
	}

	return state
}
