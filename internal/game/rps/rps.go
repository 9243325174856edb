package rps

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

type Choice string

const (
	Rock     Choice = "rock"
	Paper    Choice = "paper"
	Scissors Choice = "scissors"
)

var (
	ErrInvalidChoice = errors.New("invalid choice")

	beats = map[Choice]Choice{
		Rock:     Scissors,
		Scissors: Paper,
		Paper:    Rock,
	}
)

type State struct {
	Waiting []string          `json:"waiting"`
	Choices map[string]Choice `json:"choices,omitempty"`
}

// Game collects one hidden choice from each of two players and resolves
// once both are in. Against the bot the second seat is the bot's.
type Game struct {
	seats    [2]string
	choices  *session.Choices[Choice]
	controls session.Controls[Choice]
	result   *entity.TerminalResult
}

func New(player1, player2 string) *Game {
	return &Game{
		seats:    [2]string{player1, player2},
		choices:  session.NewChoices[Choice](player1, player2),
		controls: NewControls(),
	}
}

func NewControls() session.Controls[Choice] {
	return session.NewControls(
		session.Binding[Choice]{Token: "🪨", Value: Rock},
		session.Binding[Choice]{Token: "✂️", Value: Scissors},
		session.Binding[Choice]{Token: "✂", Value: Scissors},
		session.Binding[Choice]{Token: "📰", Value: Paper},
		session.Binding[Choice]{Token: "rock", Value: Rock},
		session.Binding[Choice]{Token: "paper", Value: Paper},
		session.Binding[Choice]{Token: "scissors", Value: Scissors},
		session.Binding[Choice]{Token: "r", Value: Rock},
		session.Binding[Choice]{Token: "p", Value: Paper},
		session.Binding[Choice]{Token: "s", Value: Scissors},
	)
}

func BotMoves() []string {
	return []string{"rock", "paper", "scissors"}
}

// Beats reports whether a wins over b.
func Beats(a, b Choice) bool {
	return beats[a] == b
}

func (that *Game) Players() []string { return that.seats[:] }

// Eligible is everyone who has not chosen yet. Choices are simultaneous.
func (that *Game) Eligible() []string { return that.choices.Missing() }

func (that *Game) Parse(in session.Input) (Choice, error) {
	choice, ok := that.controls.Lookup(in.Value)
	if !ok {
		return "", apperror.Reject(ErrInvalidChoice, "pick rock, paper or scissors")
	}

	return choice, nil
}

func (that *Game) Check(playerID string, _ Choice) error {
	if _, ok := that.choices.Get(playerID); ok {
		return apperror.Reject(session.ErrAlreadyChosen, "you have chosen already")
	}

	return nil
}

func (that *Game) Apply(playerID string, choice Choice) error {
	if err := that.choices.Record(playerID, choice); err != nil {
		return fmt.Errorf("failed to record choice: %w", err)
	}

	if !that.choices.Complete() {
		return nil
	}

	first, _ := that.choices.Get(that.seats[0])
	second, _ := that.choices.Get(that.seats[1])

	switch {
	case first == second:
		that.result = entity.Tie()
	case Beats(first, second):
		that.result = entity.Win(that.seats[0])
	default:
		that.result = entity.Win(that.seats[1])
	}

	that.result = that.result.WithDetail(fmt.Sprintf("%s picked %s, %s picked %s", that.seats[0], first, that.seats[1], second))

	return nil
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

// Snapshot hides the picks until both players have chosen.
func (that *Game) Snapshot() any {
	state := State{Waiting: that.choices.Missing()}
	if that.result != nil {
		state.Choices = make(map[string]Choice, len(that.seats))
		for _, id := range that.seats {
			state.Choices[id], _ = that.choices.Get(id)
		}
	}

	return state
}
