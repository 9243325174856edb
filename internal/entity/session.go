package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

// Reason explains why a session reached its terminal state.
type Reason string

const (
	ReasonWin     Reason = "win"
	ReasonLoss    Reason = "loss"
	ReasonTie     Reason = "tie"
	ReasonCancel  Reason = "cancel"
	ReasonTimeout Reason = "timeout"
)

var (
	ErrUnknownSessionStatus = errors.New("unknown session status")
	ErrResultAlreadySet     = errors.New("session result is already set")
)

// TerminalResult is produced once per session and never revised.
type TerminalResult struct {
	Reason Reason `json:"reason"`
	Winner string `json:"winner,omitempty"`
	Score  int    `json:"score,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func Win(winner string) *TerminalResult {
	return &TerminalResult{Reason: ReasonWin, Winner: winner}
}

func Loss() *TerminalResult {
	return &TerminalResult{Reason: ReasonLoss}
}

func Tie() *TerminalResult {
	return &TerminalResult{Reason: ReasonTie}
}

func Cancelled() *TerminalResult {
	return &TerminalResult{Reason: ReasonCancel}
}

func TimedOut() *TerminalResult {
	return &TerminalResult{Reason: ReasonTimeout}
}

// WithScore returns a copy of the result carrying the given score.
func (that TerminalResult) WithScore(score int) *TerminalResult {
	that.Score = score
	return &that
}

// WithDetail returns a copy of the result carrying a detail line.
func (that TerminalResult) WithDetail(detail string) *TerminalResult {
	that.Detail = detail
	return &that
}

// Session is the registry record of one in-progress game.
type Session struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Players   []*Player       `json:"players,omitempty"`
	Status    string          `json:"status"`
	Result    *TerminalResult `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewSession(id, kind string, players []*Player, now time.Time) *Session {
	return &Session{
		ID:        id,
		Kind:      kind,
		Players:   players,
		Status:    StatusWaiting,
		CreatedAt: now,
	}
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Session) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Session) Start() {
	that.Status = StatusOngoing
}

// Finish records the terminal result. A session is finished exactly once.
func (that *Session) Finish(result *TerminalResult) error {
	if that.Result != nil {
		return ErrResultAlreadySet
	}

	that.Result = result
	that.Status = StatusFinished

	return nil
}

func (that *Session) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSessionStatus, that.Status)
	}
}

func (that *Session) HasPlayer(id string) bool {
	for _, player := range that.Players {
		if player.ID == id {
			return true
		}
	}

	return false
}

// PlayerIDs returns the participant identities in seat order.
func (that *Session) PlayerIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		ids = append(ids, player.ID)
	}

	return ids
}
