package session

import (
	"context"

	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

// Request describes what the loop is currently waiting for.
type Request struct {
	SessionID string
	// Eligible restricts who may answer. Nil means anyone.
	Eligible []string
	// Legal reports whether an input would currently be accepted. Adapters
	// may call it only from inside NextInput, while the loop is suspended.
	Legal func(in Input) bool
}

// InputSource blocks until the next raw input arrives or ctx is done.
type InputSource interface {
	NextInput(ctx context.Context, req Request) (Input, error)
}

// Snapshot is what renderers receive after every state change.
type Snapshot struct {
	SessionID string                 `json:"session_id"`
	Kind      string                 `json:"kind"`
	Eligible  []string               `json:"eligible,omitempty"`
	State     any                    `json:"state"`
	Result    *entity.TerminalResult `json:"result,omitempty"`
}

type Renderer interface {
	Render(ctx context.Context, snapshot Snapshot) error
}

// Notifier delivers narrative feedback to one participant.
type Notifier interface {
	Notify(ctx context.Context, playerID, message string) error
}

// PrivateChannels opens a direct line to one participant. Games with a
// simultaneous setup phase use it to run one sub-loop per participant.
type PrivateChannels interface {
	Private(playerID string) IO
}

// IO bundles the presentation collaborators of one session. Render, Notify
// and Private are optional.
type IO struct {
	Input   InputSource
	Render  Renderer
	Notify  Notifier
	Private PrivateChannels
}
