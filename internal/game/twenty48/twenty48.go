package twenty48

import (
	"errors"
	"math/rand/v2"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	Size       = 4
	SpawnValue = 2
)

type Direction string

const (
	Left  Direction = "left"
	Right Direction = "right"
	Up    Direction = "up"
	Down  Direction = "down"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidTarget    = errors.New("win tile must be 2048, 4096 or 8192")

	WinTargets = []int{2048, 4096, 8192}
)

type Board [][]int

// State is the render view of one board.
type State struct {
	Board Board `json:"board"`
	WinAt int   `json:"win_at"`
	Moves int   `json:"moves"`
	Best  int   `json:"best"`
}

type Game struct {
	player   string
	board    Board
	winAt    int
	moves    int
	rng      *rand.Rand
	controls session.Controls[Direction]
	result   *entity.TerminalResult
}

// New seeds the board with two tiles. winAt must be one of WinTargets.
func New(player string, winAt int, rng *rand.Rand) (*Game, error) {
	valid := false
	for _, target := range WinTargets {
		valid = valid || target == winAt
	}

	if !valid {
		return nil, ErrInvalidTarget
	}

	board := NewBoard()
	board[rng.IntN(Size)][rng.IntN(Size)] = SpawnValue
	board[rng.IntN(Size)][rng.IntN(Size)] = SpawnValue

	return &Game{
		player: player,
		board:  board,
		winAt:  winAt,
		rng:    rng,
		controls: session.NewControls(
			session.Binding[Direction]{Token: "⬅️", Value: Left},
			session.Binding[Direction]{Token: "➡️", Value: Right},
			session.Binding[Direction]{Token: "⬆️", Value: Up},
			session.Binding[Direction]{Token: "⬇️", Value: Down},
			session.Binding[Direction]{Token: "left", Value: Left},
			session.Binding[Direction]{Token: "right", Value: Right},
			session.Binding[Direction]{Token: "up", Value: Up},
			session.Binding[Direction]{Token: "down", Value: Down},
			session.Binding[Direction]{Token: "a", Value: Left},
			session.Binding[Direction]{Token: "d", Value: Right},
			session.Binding[Direction]{Token: "w", Value: Up},
			session.Binding[Direction]{Token: "s", Value: Down},
		),
	}, nil
}

func NewBoard() Board {
	board := make(Board, Size)
	for i := range board {
		board[i] = make([]int, Size)
	}

	return board
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (Direction, error) {
	dir, ok := that.controls.Lookup(in.Value)
	if !ok {
		return "", apperror.Reject(ErrInvalidDirection, "use the arrows to move")
	}

	return dir, nil
}

func (that *Game) Check(string, Direction) error { return nil }

// Apply slides the board, spawns a new tile and checks both ends of the game.
// A full board after the move is a loss even when the target was reached.
func (that *Game) Apply(_ string, dir Direction) error {
	next, err := Move(that.board, dir)
	if err != nil {
		return err
	}

	that.board = next
	that.moves++

	if lost := Spawn(that.board, that.rng); lost {
		that.result = entity.Loss().WithScore(Highest(that.board))
		return nil
	}

	if best := Highest(that.board); best >= that.winAt {
		that.result = entity.Win(that.player).WithScore(best)
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{Board: Clone(that.board), WinAt: that.winAt, Moves: that.moves, Best: Highest(that.board)}
}

// Move is the pure transition for one direction.
func Move(board Board, dir Direction) (Board, error) {
	switch dir {
	case Left:
		return Compress(Merge(Compress(board))), nil
	case Right:
		return Reverse(Compress(Merge(Compress(Reverse(board))))), nil
	case Up:
		return Transpose(Compress(Merge(Compress(Transpose(board))))), nil
	case Down:
		return Transpose(Reverse(Compress(Merge(Compress(Reverse(Transpose(board))))))), nil
	default:
		return nil, ErrInvalidDirection
	}
}

// Spawn puts a 2 on a random empty cell and reports a loss when none is left.
func Spawn(board Board, rng *rand.Rand) bool {
	var empty [][2]int
	for i, row := range board {
		for j, tile := range row {
			if tile == 0 {
				empty = append(empty, [2]int{i, j})
			}
		}
	}

	if len(empty) == 0 {
		return true
	}

	cell := empty[rng.IntN(len(empty))]
	board[cell[0]][cell[1]] = SpawnValue

	return false
}

// Reverse mirrors every row.
func Reverse(board Board) Board {
	out := Clone(board)
	for _, row := range out {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}

	return out
}

func Transpose(board Board) Board {
	out := NewBoard()
	for i := range Size {
		for j := range Size {
			out[j][i] = board[i][j]
		}
	}

	return out
}

// Compress left-packs non-zero tiles keeping their order.
func Compress(board Board) Board {
	out := NewBoard()
	for i, row := range board {
		pos := 0
		for _, tile := range row {
			if tile != 0 {
				out[i][pos] = tile
				pos++
			}
		}
	}

	return out
}

// Merge doubles the left tile of each equal adjacent pair in one pass.
// A tile produced by a merge is not merged again in the same pass.
func Merge(board Board) Board {
	out := Clone(board)
	for _, row := range out {
		for j := 0; j < len(row)-1; j++ {
			if row[j] != 0 && row[j] == row[j+1] {
				row[j] *= 2
				row[j+1] = 0
			}
		}
	}

	return out
}

func Clone(board Board) Board {
	out := make(Board, len(board))
	for i, row := range board {
		out[i] = append([]int(nil), row...)
	}

	return out
}

func Sum(board Board) int {
	total := 0
	for _, row := range board {
		for _, tile := range row {
			total += tile
		}
	}

	return total
}

func Highest(board Board) int {
	best := 0
	for _, row := range board {
		for _, tile := range row {
			best = max(best, tile)
		}
	}

	return best
}
