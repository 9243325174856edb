package connectfour

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/grid"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	Rows    = 6
	Columns = 7
	Connect = 4

	Red   = "red"
	Blue  = "blue"
	Blank = ""
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")

	keycaps = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣"}
	windows = grid.Windows(Rows, Columns, Connect)
)

// Board is indexed [row][column] with row 0 at the top.
type Board [Rows][Columns]string

type State struct {
	Board Board             `json:"board"`
	Turn  string            `json:"turn"`
	Discs map[string]string `json:"discs"`
}

// Game is a two-seat Connect-4. Red opens.
type Game struct {
	board    Board
	turns    *session.Turns
	discs    map[string]string
	controls session.Controls[int]
	result   *entity.TerminalResult
}

func New(red, blue string) *Game {
	bindings := make([]session.Binding[int], 0, 2*Columns)
	for col, keycap := range keycaps {
		bindings = append(bindings,
			session.Binding[int]{Token: strconv.Itoa(col + 1), Value: col},
			session.Binding[int]{Token: keycap, Value: col},
		)
	}

	return &Game{
		turns:    session.NewTurns(red, blue),
		discs:    map[string]string{red: Red, blue: Blue},
		controls: session.NewControls(bindings...),
	}
}

func BotMoves() []string {
	return []string{"1", "2", "3", "4", "5", "6", "7"}
}

func (that *Game) Players() []string  { return that.turns.Order() }
func (that *Game) Eligible() []string { return []string{that.turns.Current()} }

func (that *Game) Parse(in session.Input) (int, error) {
	col, ok := that.controls.Lookup(in.Value)
	if !ok {
		return 0, apperror.Reject(ErrInvalidColumn, "pick a column from 1 to 7")
	}

	return col, nil
}

func (that *Game) Check(_ string, col int) error {
	if that.board[0][col] != Blank {
		return apperror.Reject(ErrColumnFull, "that column is full")
	}

	return nil
}

func (that *Game) Apply(playerID string, col int) error {
	if _, err := Drop(&that.board, col, that.discs[playerID]); err != nil {
		return fmt.Errorf("failed to drop disc: %w", err)
	}

	switch winner := FindWinner(that.board); {
	case winner != Blank:
		that.result = entity.Win(playerID)
	case IsFull(that.board):
		that.result = entity.Tie()
	default:
		that.turns.Advance()
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	discs := make(map[string]string, len(that.discs))
	for id, disc := range that.discs {
		discs[id] = disc
	}

	return State{Board: that.board, Turn: that.turns.Current(), Discs: discs}
}

// Drop lets a disc fall to the lowest empty row of col and returns that row.
func Drop(board *Board, col int, disc string) (int, error) {
	if col < 0 || col >= Columns {
		return 0, ErrInvalidColumn
	}

	for row := Rows - 1; row >= 0; row-- {
		if board[row][col] == Blank {
			board[row][col] = disc
			return row, nil
		}
	}

	return 0, ErrColumnFull
}

// FindWinner scans every window of four in all directions.
func FindWinner(board Board) string {
	for _, window := range windows {
		first := board[window[0].Row][window[0].Col]
		if first == Blank {
			continue
		}

		won := true
		for _, p := range window[1:] {
			if board[p.Row][p.Col] != first {
				won = false
				break
			}
		}

		if won {
			return first
		}
	}

	return Blank
}

// IsFull is true once the top row is occupied, since discs stack from below.
func IsFull(board Board) bool {
	for _, cell := range board[0] {
		if cell == Blank {
			return false
		}
	}

	return true
}
