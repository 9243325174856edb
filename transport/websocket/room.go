package websocket

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const inputBuffer = 16

var errInputQueueFull = errors.New("too many pending inputs")

// room adapts one running session to the connected clients. It is the
// session's input source, renderer and notifier.
type room struct {
	server    *Server
	sessionID string
	kind      string
	players   []string

	inputs chan session.Input

	mu      sync.Mutex
	private map[string]chan session.Input
}

func newRoom(server *Server, sessionID, kind string, players []string) *room {
	return &room{
		server:    server,
		sessionID: sessionID,
		kind:      kind,
		players:   slices.Clone(players),
		inputs:    make(chan session.Input, inputBuffer),
		private:   make(map[string]chan session.Input),
	}
}

func (that *room) IO() session.IO {
	return session.IO{Input: that, Render: that, Notify: that, Private: that}
}

// deliver queues an input for the session loop without blocking.
func (that *room) deliver(in session.Input, private bool) error {
	target := that.inputs
	if private {
		target = that.privateInputs(in.PlayerID)
	}

	select {
	case target <- in:
		return nil
	default:
		return errInputQueueFull
	}
}

func (that *room) NextInput(ctx context.Context, _ session.Request) (session.Input, error) {
	return receive(ctx, that.inputs)
}

func (that *room) Render(_ context.Context, snapshot session.Snapshot) error {
	for _, playerID := range that.players {
		that.server.send(playerID, ActionState, ResponsePayload{State: stateFor(snapshot, playerID, false)})
	}

	return nil
}

func (that *room) Notify(_ context.Context, playerID, message string) error {
	that.server.send(playerID, ActionNotify, ResponsePayload{Message: message})

	return nil
}

func (that *room) Private(playerID string) session.IO {
	channel := &privateChannel{room: that, playerID: playerID, inputs: that.privateInputs(playerID)}

	return session.IO{Input: channel, Render: channel, Notify: that}
}

func (that *room) privateInputs(playerID string) chan session.Input {
	that.mu.Lock()
	defer that.mu.Unlock()

	inputs, ok := that.private[playerID]
	if !ok {
		inputs = make(chan session.Input, inputBuffer)
		that.private[playerID] = inputs
	}

	return inputs
}

// privateChannel is the direct line to one player of a room.
type privateChannel struct {
	room     *room
	playerID string
	inputs   chan session.Input
}

func (that *privateChannel) NextInput(ctx context.Context, _ session.Request) (session.Input, error) {
	return receive(ctx, that.inputs)
}

func (that *privateChannel) Render(_ context.Context, snapshot session.Snapshot) error {
	that.room.server.send(that.playerID, ActionState, ResponsePayload{State: stateFor(snapshot, that.playerID, true)})

	return nil
}

func receive(ctx context.Context, inputs <-chan session.Input) (session.Input, error) {
	select {
	case in := <-inputs:
		return in, nil
	case <-ctx.Done():
		return session.Input{}, fmt.Errorf("waiting for input: %w", ctx.Err())
	}
}

// stateFor hides what playerID may not see.
func stateFor(snapshot session.Snapshot, playerID string, private bool) *StatePayload {
	board := snapshot.State
	if perspective, ok := board.(session.Perspective); ok {
		board = perspective.ViewFor(playerID)
	}

	return &StatePayload{
		SessionID: snapshot.SessionID,
		Kind:      snapshot.Kind,
		Eligible:  snapshot.Eligible,
		Private:   private,
		Board:     board,
		Result:    snapshot.Result,
	}
}
