package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

const (
	ActionConnect = "connect"
	ActionNewGame = "game:new"
	ActionInput   = "game:input"

	ActionState  = "game:state"
	ActionNotify = "game:notify"
	ActionOver   = "game:over"
	ActionError  = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by every client request. Each action reads the fields
// it needs.
type Payload struct {
	Player *entity.Player `json:"player,omitempty"`

	Kind    string   `json:"kind,omitempty"`
	Players []string `json:"players,omitempty"`

	SessionID string `json:"session_id,omitempty"`
	Value     string `json:"value,omitempty"`
	// Private sends the input to the player's own channel, used by setup
	// phases that run one loop per player.
	Private bool `json:"private,omitempty"`
}

type ResponsePayload struct {
	Player  *entity.Player         `json:"player,omitempty"`
	Session *entity.Session        `json:"session,omitempty"`
	Kinds   []string               `json:"kinds,omitempty"`
	State   *StatePayload          `json:"state,omitempty"`
	Message string                 `json:"message,omitempty"`
	Result  *entity.TerminalResult `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type StatePayload struct {
	SessionID string                 `json:"session_id"`
	Kind      string                 `json:"kind"`
	Eligible  []string               `json:"eligible,omitempty"`
	Private   bool                   `json:"private,omitempty"`
	Board     any                    `json:"board"`
	Result    *entity.TerminalResult `json:"result,omitempty"`
}

func encode(action string, payload ResponsePayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	message, err := json.Marshal(Message{Action: action, Payload: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return message, nil
}
