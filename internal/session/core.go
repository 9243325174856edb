// Package session drives a game from its first render to a terminal result.
//
// A game only has to describe its rules through Core; the loop in this
// package owns waiting for input, timeouts, authorization, cancellation
// and re-rendering, so every game behaves the same way towards players.
package session

import (
	"context"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

// Input is one raw action coming from the presentation layer:
// a chat message, a reaction emoji or a button id.
type Input struct {
	PlayerID   string    `json:"player_id"`
	Value      string    `json:"value"`
	ReceivedAt time.Time `json:"received_at"`
}

// Core is the rule set of a single game. Implementations are not safe for
// concurrent use; the loop guarantees a single caller.
type Core[M any] interface {
	// Players lists the bound participants in seat order. A nil slice means
	// the game is open to anyone in the channel (typing race, reaction test).
	Players() []string
	// Eligible lists who may act right now. Nil means every participant.
	Eligible() []string
	// Parse checks the syntactic shape of an input and normalizes it.
	Parse(in Input) (M, error)
	// Check decides legality of an already-authorized move against state.
	Check(playerID string, move M) error
	// Apply mutates the board. Errors returned here are logic errors.
	Apply(playerID string, move M) error
	// Result is nil until the game reached a terminal state.
	Result() *entity.TerminalResult
	// Snapshot is the read-only view handed to renderers.
	Snapshot() any
}

// Starter is implemented by games that measure time from the moment the
// first input may arrive.
type Starter interface {
	Start(now time.Time)
}

// Delayer is implemented by games that pause before accepting input.
type Delayer interface {
	Delay() time.Duration
}

// TimeoutResolver lets a game turn an expired wait into its own result,
// e.g. a typing race that already has winners.
type TimeoutResolver interface {
	OnTimeout() *entity.TerminalResult
}

// Notice is a narrative line for one participant ("a5 was a hit").
type Notice struct {
	PlayerID string
	Message  string
}

// Announcer is implemented by games that report what a move did. The loop
// drains it after every applied move.
type Announcer interface {
	Announcements() []Notice
}

// Perspective is implemented by snapshots that hide information from some
// participants. Adapters render ViewFor(playerID) instead of the snapshot.
type Perspective interface {
	ViewFor(playerID string) any
}

// Runner is a type-erased game ready to be driven.
type Runner interface {
	Run(ctx context.Context, io IO, opts Options) (*entity.TerminalResult, error)
	Snapshot() any
}

type coreRunner[M any] struct {
	core Core[M]
}

// NewRunner wraps a core so it can be stored next to games with other move types.
func NewRunner[M any](core Core[M]) Runner {
	return &coreRunner[M]{core: core}
}

func (that *coreRunner[M]) Run(ctx context.Context, io IO, opts Options) (*entity.TerminalResult, error) {
	return Run[M](ctx, that.core, io, opts)
}

func (that *coreRunner[M]) Snapshot() any {
	return that.core.Snapshot()
}
