package wordle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const (
	WordLength      = 5
	DefaultAttempts = 6
)

type Color string

const (
	Green Color = "green"
	Amber Color = "amber"
	Gray  Color = "gray"
)

var (
	ErrInvalidWord  = errors.New("word must be five letters")
	ErrUnknownWord  = errors.New("word is not in the dictionary")
	ErrInvalidGuess = errors.New("invalid guess")
)

type Letter struct {
	Letter string `json:"letter"`
	Color  Color  `json:"color"`
}

type State struct {
	Guesses  [][]Letter `json:"guesses"`
	Attempts int        `json:"attempts"`
	Word     string     `json:"word,omitempty"`
}

type Game struct {
	player     string
	target     string
	attempts   int
	dictionary words.Set
	guesses    [][]Letter
	result     *entity.TerminalResult
}

// New starts a game on target. A nil dictionary accepts any five letters.
func New(player, target string, attempts int, dictionary words.Set) (*Game, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !isWord(target) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWord, target)
	}

	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	return &Game{player: player, target: target, attempts: attempts, dictionary: dictionary}, nil
}

// Score colors each letter on its own: green on an exact position match,
// amber when the letter appears anywhere else in target, gray otherwise.
// Repeated letters are not budgeted against the target's letter counts.
func Score(target, guess string) []Letter {
	out := make([]Letter, 0, len(guess))
	for i, r := range guess {
		color := Gray
		switch {
		case i < len(target) && rune(target[i]) == r:
			color = Green
		case strings.ContainsRune(target, r):
			color = Amber
		}

		out = append(out, Letter{Letter: string(r), Color: color})
	}

	return out
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (string, error) {
	guess := strings.ToLower(strings.TrimSpace(in.Value))
	if !isWord(guess) {
		return "", apperror.Reject(ErrInvalidGuess, "guesses must be five letters")
	}

	return guess, nil
}

func (that *Game) Check(_ string, guess string) error {
	if that.dictionary != nil && !that.dictionary.Contains(guess) {
		return apperror.Rejectf(ErrUnknownWord, "%q is not a valid word", guess)
	}

	return nil
}

func (that *Game) Apply(_ string, guess string) error {
	that.guesses = append(that.guesses, Score(that.target, guess))

	switch {
	case guess == that.target:
		that.result = entity.Win(that.player).WithScore(len(that.guesses))
	case len(that.guesses) >= that.attempts:
		that.result = entity.Loss().WithDetail(that.target)
	}

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	state := State{Guesses: make([][]Letter, len(that.guesses)), Attempts: that.attempts}
	for i, row := range that.guesses {
		state.Guesses[i] = append([]Letter(nil), row...)
	}

	if that.result != nil {
		state.Word = that.target
	}

	return state
}

func isWord(s string) bool {
	if len(s) != WordLength {
		return false
	}

	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}

	return true
}
