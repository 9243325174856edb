package session

import (
	"errors"
	"slices"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
)

var ErrAlreadyChosen = errors.New("choice already made")

// Choices collects one independent answer per required participant.
// Resolution is left to the caller once Complete reports true.
type Choices[T any] struct {
	required []string
	picks    map[string]T
}

func NewChoices[T any](required ...string) *Choices[T] {
	return &Choices[T]{
		required: slices.Clone(required),
		picks:    make(map[string]T, len(required)),
	}
}

func (that *Choices[T]) Record(playerID string, value T) error {
	if !slices.Contains(that.required, playerID) {
		return apperror.ErrNotAParticipant
	}

	if _, ok := that.picks[playerID]; ok {
		return apperror.Reject(ErrAlreadyChosen, "you already made your choice")
	}

	that.picks[playerID] = value

	return nil
}

func (that *Choices[T]) Get(playerID string) (T, bool) {
	value, ok := that.picks[playerID]
	return value, ok
}

func (that *Choices[T]) Complete() bool {
	return len(that.Missing()) == 0
}

// Missing lists the participants still expected to answer, in seat order.
func (that *Choices[T]) Missing() []string {
	missing := make([]string, 0, len(that.required))
	for _, id := range that.required {
		if _, ok := that.picks[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing
}
