package boggle

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/grid"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const (
	Side      = 4
	MinLength = 3
	StopWord  = "stop"
)

var (
	ErrInvalidWord    = errors.New("invalid word")
	ErrTooShort       = errors.New("word is too short")
	ErrAlreadyGuessed = errors.New("word already guessed")
	ErrNotOnBoard     = errors.New("word cannot be traced on the board")

	// Dice holds the faces of the sixteen dice, one per cell.
	Dice = [Side][Side]string{
		{"RIFOBX", "IFEHEY", "DENOWS", "UTOKND"},
		{"HMSRAO", "LUPETS", "ACITOA", "YLGKUE"},
		{"QBMJOA", "EHISPN", "VETIGN", "BALIYT"},
		{"EZAVND", "RALESC", "UWILRG", "PACEMD"},
	}
)

type Board [Side][Side]byte

// Roll picks one face of every die.
func Roll(rng *rand.Rand) Board {
	var board Board
	for row, dice := range Dice {
		for col, faces := range dice {
			board[row][col] = faces[rng.IntN(len(faces))]
		}
	}

	return board
}

// Trace finds a path spelling word through adjacent cells, diagonals
// included, using each cell at most once. It returns nil when none exists.
func (that Board) Trace(word string) []grid.Point {
	word = strings.ToUpper(word)

	var walk func(path []grid.Point) []grid.Point
	walk = func(path []grid.Point) []grid.Point {
		if len(path) == len(word) {
			return path
		}

		candidates := that.cells()
		if len(path) > 0 {
			candidates = grid.Neighbors(path[len(path)-1], Side, Side, true)
		}

		for _, p := range candidates {
			if that[p.Row][p.Col] != word[len(path)] || slices.Contains(path, p) {
				continue
			}

			if found := walk(append(slices.Clone(path), p)); found != nil {
				return found
			}
		}

		return nil
	}

	if word == "" {
		return nil
	}

	return walk(nil)
}

func (that Board) cells() []grid.Point {
	out := make([]grid.Point, 0, Side*Side)
	for row := range Side {
		for col := range Side {
			out = append(out, grid.Point{Row: row, Col: col})
		}
	}

	return out
}

// Guess is either a word to score or a request to stop.
type Guess struct {
	Word string
	Stop bool
}

type State struct {
	Board   [Side]string `json:"board"`
	Correct []string     `json:"correct"`
	Wrong   []string     `json:"wrong"`
	Points  int          `json:"points"`
}

type Game struct {
	player     string
	board      Board
	dictionary words.Set
	correct    []string
	wrong      []string
	result     *entity.TerminalResult
}

// New rolls a board. A nil dictionary accepts every traceable word.
func New(player string, dictionary words.Set, rng *rand.Rand) *Game {
	return &Game{player: player, board: Roll(rng), dictionary: dictionary}
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (Guess, error) {
	word := strings.ToLower(strings.TrimSpace(in.Value))
	if word == StopWord {
		return Guess{Stop: true}, nil
	}

	if word == "" || strings.ContainsFunc(word, func(r rune) bool { return r < 'a' || r > 'z' }) {
		return Guess{}, apperror.Reject(ErrInvalidWord, "words are made of letters only")
	}

	return Guess{Word: word}, nil
}

func (that *Game) Check(_ string, guess Guess) error {
	if guess.Stop {
		return nil
	}

	switch {
	case len(guess.Word) < MinLength:
		return apperror.Rejectf(ErrTooShort, "words need at least %d letters", MinLength)
	case slices.Contains(that.correct, guess.Word) || slices.Contains(that.wrong, guess.Word):
		return apperror.Rejectf(ErrAlreadyGuessed, "you already guessed %q", guess.Word)
	case that.board.Trace(guess.Word) == nil:
		return apperror.Rejectf(ErrNotOnBoard, "%q is not on the board", guess.Word)
	}

	return nil
}

func (that *Game) Apply(_ string, guess Guess) error {
	if guess.Stop {
		that.result = that.final()
		return nil
	}

	if that.dictionary == nil || that.dictionary.Contains(guess.Word) {
		that.correct = append(that.correct, guess.Word)
	} else {
		that.wrong = append(that.wrong, guess.Word)
	}

	return nil
}

// Points scores len-2 per correct word and one off per wrong one.
func (that *Game) Points() int {
	points := 0
	for _, word := range that.correct {
		points += len(word) - 2
	}

	return points - len(that.wrong)
}

func (that *Game) final() *entity.TerminalResult {
	points := that.Points()
	detail := fmt.Sprintf("%d correct words, %d wrong guesses", len(that.correct), len(that.wrong))

	if points > 0 {
		return entity.Win(that.player).WithScore(points).WithDetail(detail)
	}

	return entity.Loss().WithScore(points).WithDetail(detail)
}

// OnTimeout scores the board as if the player had stopped.
func (that *Game) OnTimeout() *entity.TerminalResult {
	return that.final()
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	state := State{
		Correct: slices.Clone(that.correct),
		Wrong:   slices.Clone(that.wrong),
		Points:  that.Points(),
	}

	for row := range that.board {
		state.Board[row] = string(that.board[row][:])
	}

	return state
}
