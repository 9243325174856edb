package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrGameFinished       = errors.New("game is already finished")
	ErrGameIsNotStarted   = errors.New("game is not started")
	ErrNotYourTurn        = errors.New("it's not your turn")
	ErrNotAParticipant    = errors.New("you are not part of this game")
	ErrCellOccupied       = errors.New("cell is already occupied")
	ErrInputRejected      = errors.New("input rejected")
	ErrPlacementFailed    = errors.New("could not place pieces on the board")
	ErrExternalFailure    = errors.New("external source failed")
	ErrSessionNotFound    = errors.New("session not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlayerBusy         = errors.New("player is already in a game")
	ErrUnknownGame        = errors.New("unknown game")
	ErrWrongPlayerCount   = errors.New("wrong number of players for this game")
	ErrDuplicatePlayer    = errors.New("player is listed more than once")
	ErrReservedPlayerID   = errors.New("player id is reserved")
	ErrSessionAborted     = errors.New("session aborted")
	ErrInvariantViolation = errors.New("invariant violation")
)

// Rejection is returned by validators for well-understood user mistakes.
// Reason is safe to show to the acting participant.
type Rejection struct {
	Reason string
	Err    error
}

func (that *Rejection) Error() string {
	if that.Err == nil {
		return that.Reason
	}

	return fmt.Sprintf("%s: %v", that.Reason, that.Err)
}

func (that *Rejection) Unwrap() []error {
	if that.Err == nil {
		return []error{ErrInputRejected}
	}

	return []error{ErrInputRejected, that.Err}
}

// Reject wraps err into a Rejection with the given user-facing reason.
func Reject(err error, reason string) error {
	return &Rejection{Reason: reason, Err: err}
}

// Rejectf builds a Rejection from a formatted reason.
func Rejectf(err error, format string, args ...any) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...), Err: err}
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotYourTurn) || errors.Is(err, ErrNotAParticipant)
}
