package verbalmemory

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const (
	DefaultLives = 3
	SampleSize   = 100
)

type Answer bool

const (
	AnswerSeen Answer = true
	AnswerNew  Answer = false
)

var ErrInvalidAnswer = errors.New("answer seen or new")

type State struct {
	Word  string `json:"word"`
	Score int    `json:"score"`
	Lives int    `json:"lives"`
}

// Game shows one word at a time from a small pool, so words come back.
// The player tells whether the word was shown before.
type Game struct {
	player   string
	pool     []string
	seen     map[string]bool
	word     string
	score    int
	lives    int
	rng      *rand.Rand
	controls session.Controls[Answer]
	result   *entity.TerminalResult
}

func New(player string, list []string, lives int, rng *rand.Rand) (*Game, error) {
	if lives <= 0 {
		lives = DefaultLives
	}

	size := min(SampleSize, len(list))

	pool, err := words.PickN(rng, list, size)
	if err != nil {
		return nil, fmt.Errorf("failed to sample words: %w", err)
	}

	game := &Game{
		player: player,
		pool:   pool,
		seen:   make(map[string]bool, len(pool)),
		lives:  lives,
		rng:    rng,
		controls: session.NewControls(
			session.Binding[Answer]{Token: "seen", Value: AnswerSeen},
			session.Binding[Answer]{Token: "s", Value: AnswerSeen},
			session.Binding[Answer]{Token: "new", Value: AnswerNew},
			session.Binding[Answer]{Token: "n", Value: AnswerNew},
		),
	}
	game.word = game.next()

	return game, nil
}

func (that *Game) next() string {
	return that.pool[that.rng.IntN(len(that.pool))]
}

func (that *Game) Players() []string  { return []string{that.player} }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (Answer, error) {
	answer, ok := that.controls.Lookup(in.Value)
	if !ok {
		return AnswerNew, apperror.Reject(ErrInvalidAnswer, "answer with seen or new")
	}

	return answer, nil
}

func (that *Game) Check(string, Answer) error { return nil }

func (that *Game) Apply(_ string, answer Answer) error {
	if Answer(that.seen[that.word]) == answer {
		that.score++
	} else {
		that.lives--
		if that.lives <= 0 {
			that.result = entity.Loss().WithScore(that.score)
			return nil
		}
	}

	that.seen[that.word] = true
	that.word = that.next()

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{Word: that.word, Score: that.score, Lives: that.lives}
}
