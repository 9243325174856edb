// Package typerace is an open race: anyone in the channel may type the
// shown text, and the first few close enough copies win.
package typerace

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const (
	DefaultWinners   = 3
	DefaultThreshold = 0.9
	WordsPerRace     = 15
)

var (
	ErrAlreadyFinished = errors.New("already finished the race")
	ErrTooDifferent    = errors.New("text does not match")
	ErrEmptyText       = errors.New("race text is empty")
)

// TextSource provides the text to type.
type TextSource interface {
	Text(ctx context.Context) (string, error)
}

// WordSource builds a text out of random short words.
type WordSource struct {
	Words []string
	Count int
	Rand  *rand.Rand
}

func (that WordSource) Text(_ context.Context) (string, error) {
	count := that.Count
	if count <= 0 {
		count = WordsPerRace
	}

	picked, err := words.PickN(that.Rand, that.Words, count)
	if err != nil {
		return "", fmt.Errorf("failed to pick race words: %w", err)
	}

	return strings.Join(picked, " "), nil
}

// Attempt is one chat message typed during the race.
type Attempt struct {
	Text string
	At   time.Time
}

type Finisher struct {
	PlayerID string        `json:"player_id"`
	Elapsed  time.Duration `json:"elapsed"`
	WPM      float64       `json:"wpm"`
	Accuracy float64       `json:"accuracy"`
}

type State struct {
	Text      string     `json:"text"`
	Finishers []Finisher `json:"finishers"`
}

type Game struct {
	text      string
	winners   int
	threshold float64
	started   time.Time
	finishers []Finisher
	result    *entity.TerminalResult
}

// New prepares a race over text. Zero winners or threshold pick the defaults.
func New(text string, winners int, threshold float64) (*Game, error) {
	text = normalize(text)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	if winners <= 0 {
		winners = DefaultWinners
	}

	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	return &Game{text: text, winners: winners, threshold: threshold}, nil
}

// FromSource fetches the race text. A failing source is an external failure.
func FromSource(ctx context.Context, source TextSource, winners int, threshold float64) (*Game, error) {
	text, err := source.Text(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrExternalFailure, err)
	}

	return New(text, winners, threshold)
}

// Similarity is the ratio of matching characters between a and b, in [0, 1].
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

func (that *Game) Start(now time.Time) {
	that.started = now
}

func (that *Game) Players() []string  { return nil }
func (that *Game) Eligible() []string { return nil }

func (that *Game) Parse(in session.Input) (Attempt, error) {
	return Attempt{Text: normalize(in.Value), At: in.ReceivedAt}, nil
}

func (that *Game) Check(playerID string, attempt Attempt) error {
	for _, finisher := range that.finishers {
		if finisher.PlayerID == playerID {
			return apperror.Reject(ErrAlreadyFinished, "you already finished this race")
		}
	}

	if Similarity(attempt.Text, that.text) < that.threshold {
		return apperror.Reject(ErrTooDifferent, "that is not quite the text")
	}

	return nil
}

func (that *Game) Apply(playerID string, attempt Attempt) error {
	elapsed := attempt.At.Sub(that.started)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}

	that.finishers = append(that.finishers, Finisher{
		PlayerID: playerID,
		Elapsed:  elapsed,
		WPM:      float64(len(strings.Fields(that.text))) / elapsed.Minutes(),
		Accuracy: Similarity(attempt.Text, that.text) * 100,
	})

	if len(that.finishers) >= that.winners {
		that.result = that.podium()
	}

	return nil
}

// OnTimeout keeps the race's winners when time runs out.
func (that *Game) OnTimeout() *entity.TerminalResult {
	if len(that.finishers) == 0 {
		return nil
	}

	return that.podium()
}

func (that *Game) podium() *entity.TerminalResult {
	lines := make([]string, 0, len(that.finishers))
	for i, finisher := range that.finishers {
		lines = append(lines, fmt.Sprintf("%d. %s in %.2fs | WPM: %.2f | ACC: %.2f%%",
			i+1, finisher.PlayerID, finisher.Elapsed.Seconds(), finisher.WPM, finisher.Accuracy))
	}

	return entity.Win(that.finishers[0].PlayerID).WithDetail(strings.Join(lines, "\n"))
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

func (that *Game) Snapshot() any {
	return State{Text: that.text, Finishers: append([]Finisher(nil), that.finishers...)}
}

func normalize(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), "\n", " ")
}
