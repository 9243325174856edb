package numberslider

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
	Blank       = 0
)

var (
	ErrInvalidSize = errors.New("size must be between 2 and 5")
	ErrInvalidTile = errors.New("invalid tile")
	ErrNotMovable  = errors.New("tile is not next to the blank")
)

type State struct {
	Size  int   `json:"size"`
	Tiles []int `json:"tiles"`
	Moves int   `json:"moves"`
}

// Game is the sliding puzzle. Tiles are kept row-major with Blank for the gap.
type Game struct {
	player string
	size   int
	tiles  []int
	moves  int
	result *entity.TerminalResult
}

// New scrambles a solved board by random slides, so it is always solvable.
func New(player string, size int, rng *rand.Rand) (*Game, error) {
	if size == 0 {
		size = DefaultSize
	}

	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	game := &Game{player: player, size: size, tiles: Solved(size)}

	for game.IsSolved() {
		for range size * size * 20 {
			movable := game.Movable()
			game.slide(movable[rng.IntN(len(movable))])
		}
	}

	return game, nil
}

// Solved returns 1..n²-1 followed by the blank.
func Solved(size int) []int {
	tiles := make([]int, size*size)
	for i := range len(tiles) - 1 {
		tiles[i] = i + 1
	}

	return tiles
}

func (that *Game) IsSolved() bool {
	return slices.Equal(that.tiles, Solved(that.size))
}

// Movable lists the tiles orthogonally next to the blank.
func (that *Game) Movable() []int {
	gap := grid.FromIndex(slices.Index(that.tiles, Blank), that.size)

	out := make([]int, 0, 4)
	for _, p := range grid.Neighbors(gap, that.size, that.size, false) {
		out = append(out, that.tiles[p.Index(that.size)])
	}

	return out
}

func (that *Game) slide(tile int) {
	from := slices.Index(that.tiles, tile)
	gap := slices.Index(that.tiles, Blank)
	that.tiles[from], that.tiles[gap] = that.tiles[gap], that.tiles[from]
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (int, error) {
	tile, err := strconv.Atoi(strings.TrimSpace(in.Value))
	if err != nil || tile < 1 || tile >= that.size*that.size {
		return 0, apperror.Rejectf(ErrInvalidTile, "pick a tile from 1 to %d", that.size*that.size-1)
	}

	return tile, nil
}

func (that *Game) Check(_ string, tile int) error {
	if !slices.Contains(that.Movable(), tile) {
		return apperror.Rejectf(ErrNotMovable, "tile %d cannot move", tile)
	}

	return nil
}

func (that *Game) Apply(_ string, tile int) error {
	that.slide(tile)
	that.moves++

	if that.IsSolved() {
		that.result = entity.Win(that.player).WithScore(that.moves)
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{Size: that.size, Tiles: slices.Clone(that.tiles), Moves: that.moves}
}
