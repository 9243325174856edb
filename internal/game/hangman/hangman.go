package hangman

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	DefaultLives = 8
	Blank        = '_'
)

var (
	ErrInvalidWord    = errors.New("word must be alphabetical")
	ErrInvalidGuess   = errors.New("invalid guess")
	ErrAlreadyGuessed = errors.New("letter already guessed")
)

// Guess is either a single Letter or a whole Word.
type Guess struct {
	Letter rune
	Word   string
}

type State struct {
	Revealed string   `json:"revealed"`
	Wrong    []string `json:"wrong"`
	Lives    int      `json:"lives"`
	Word     string   `json:"word,omitempty"`
}

type Game struct {
	player    string
	word      []rune
	revealed  []rune
	remaining map[rune]bool
	wrong     []string
	lives     int
	result    *entity.TerminalResult
}

func New(player, word string, lives int) (*Game, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if len(word) < 2 || strings.IndexFunc(word, func(r rune) bool { return r < 'a' || r > 'z' }) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}

	if lives <= 0 {
		lives = DefaultLives
	}

	remaining := make(map[rune]bool, 26)
	for r := 'a'; r <= 'z'; r++ {
		remaining[r] = true
	}

	revealed := make([]rune, len(word))
	for i := range revealed {
		revealed[i] = Blank
	}

	return &Game{
		player:    player,
		word:      []rune(word),
		revealed:  revealed,
		remaining: remaining,
		lives:     lives,
	}, nil
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (Guess, error) {
	raw := strings.ToLower(strings.TrimSpace(in.Value))
	runes := []rune(raw)

	switch {
	case len(runes) == 1 && runes[0] >= 'a' && runes[0] <= 'z':
		return Guess{Letter: runes[0]}, nil
	case len(runes) == len(that.word) && !strings.ContainsFunc(raw, func(r rune) bool { return r < 'a' || r > 'z' }):
		return Guess{Word: raw}, nil
	default:
		return Guess{}, apperror.Rejectf(ErrInvalidGuess, "guess a letter or the whole %d-letter word", len(that.word))
	}
}

func (that *Game) Check(_ string, guess Guess) error {
	if guess.Word == "" && !that.remaining[guess.Letter] {
		return apperror.Rejectf(ErrAlreadyGuessed, "you already guessed %q", string(guess.Letter))
	}

	return nil
}

// Apply reveals matching letters. A wrong letter or a wrong whole-word
// guess costs one life.
func (that *Game) Apply(_ string, guess Guess) error {
	if guess.Word != "" {
		if guess.Word == string(that.word) {
			copy(that.revealed, that.word)
			that.result = entity.Win(that.player).WithDetail(string(that.word))

			return nil
		}

		that.loseLife()

		return nil
	}

	delete(that.remaining, guess.Letter)

	if !slices.Contains(that.word, guess.Letter) {
		that.wrong = append(that.wrong, string(guess.Letter))
		that.loseLife()

		return nil
	}

	for i, r := range that.word {
		if r == guess.Letter {
			that.revealed[i] = r
		}
	}

	if !slices.Contains(that.revealed, Blank) {
		that.result = entity.Win(that.player).WithDetail(string(that.word))
	}

	return nil
}

func (that *Game) loseLife() {
	that.lives--
	if that.lives <= 0 {
		that.lives = 0
		that.result = entity.Loss().WithDetail(string(that.word))
	}
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

// Snapshot reveals the word only once the game is over.
func (that *Game) Snapshot() any {
	state := State{
		Revealed: string(that.revealed),
		Wrong:    slices.Clone(that.wrong),
		Lives:    that.lives,
	}

	if that.result != nil {
		state.Word = string(that.word)
	}

	return state
}
