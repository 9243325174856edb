package tictactoe

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	MarkX     = "X"
	MarkO     = "O"
	MarkTie   = "-"
	EmptyCell = ""
)

var (
	ErrInvalidCell = errors.New("invalid cell index")

	keycaps = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}

	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

type Board [9]string

// State is what renderers and bots see.
type State struct {
	Board Board             `json:"board"`
	Turn  string            `json:"turn"`
	Marks map[string]string `json:"marks"`
}

// Game is a two-seat tic-tac-toe. X always opens.
type Game struct {
	board    Board
	turns    *session.Turns
	marks    map[string]string
	controls session.Controls[int]
	result   *entity.TerminalResult
}

func New(playerX, playerO string) *Game {
	return &Game{
		turns:    session.NewTurns(playerX, playerO),
		marks:    map[string]string{playerX: MarkX, playerO: MarkO},
		controls: NewControls(),
	}
}

// NewControls maps both digits and keycap emojis to cells, top-left first.
func NewControls() session.Controls[int] {
	bindings := make([]session.Binding[int], 0, 2*len(keycaps))
	for cell, keycap := range keycaps {
		bindings = append(bindings,
			session.Binding[int]{Token: strconv.Itoa(cell + 1), Value: cell},
			session.Binding[int]{Token: keycap, Value: cell},
		)
	}

	return session.NewControls(bindings...)
}

// BotMoves lists the tokens an automated player may try.
func BotMoves() []string {
	return []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}
}

func (that *Game) Players() []string {
	return that.turns.Order()
}

func (that *Game) Eligible() []string {
	return []string{that.turns.Current()}
}

func (that *Game) Parse(in session.Input) (int, error) {
	cell, ok := that.controls.Lookup(in.Value)
	if !ok {
		return 0, apperror.Reject(ErrInvalidCell, "pick a cell from 1 to 9")
	}

	return cell, nil
}

func (that *Game) Check(_ string, cell int) error {
	if that.board[cell] != EmptyCell {
		return apperror.Reject(apperror.ErrCellOccupied, "that cell is already taken")
	}

	return nil
}

func (that *Game) Apply(playerID string, cell int) error {
	mark := that.marks[playerID]

	if err := Place(&that.board, cell, mark); err != nil {
		return fmt.Errorf("failed to place %s: %w", mark, err)
	}

	switch winner := DetermineGameResult(that.board); winner {
	case MarkX, MarkO:
		that.result = entity.Win(playerID)
	case MarkTie:
		that.result = entity.Tie()
	default:
		that.turns.Advance()
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult {
	return that.result
}

func (that *Game) Snapshot() any {
	marks := make(map[string]string, len(that.marks))
	for id, mark := range that.marks {
		marks[id] = mark
	}

	return State{Board: that.board, Turn: that.turns.Current(), Marks: marks}
}

// Place puts a mark on an empty cell.
func Place(board *Board, cell int, mark string) error {
	if cell < 0 || cell >= len(board) {
		return ErrInvalidCell
	}

	if board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	board[cell] = mark

	return nil
}

// DetermineGameResult returns the winning mark, MarkTie for a full board
// without a line, or EmptyCell while the game goes on.
func DetermineGameResult(board Board) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell == EmptyCell {
			return EmptyCell
		}
	}

	return MarkTie
}
