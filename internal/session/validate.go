package session

import (
	"slices"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
)

// Validate turns a raw input into a move or a rejection. Checks run in a
// fixed order: syntax, authorization, legality against the current state.
func Validate[M any](core Core[M], in Input) (M, error) {
	var zero M

	move, err := core.Parse(in)
	if err != nil {
		return zero, err
	}

	if err = Authorize(core.Players(), core.Eligible(), in.PlayerID); err != nil {
		return zero, err
	}

	if err = core.Check(in.PlayerID, move); err != nil {
		return zero, err
	}

	return move, nil
}

// Authorize checks membership first and turn second. Nil slices mean open.
func Authorize(players, eligible []string, playerID string) error {
	if players != nil && !slices.Contains(players, playerID) {
		return apperror.ErrNotAParticipant
	}

	if eligible != nil && !slices.Contains(eligible, playerID) {
		return apperror.ErrNotYourTurn
	}

	return nil
}
