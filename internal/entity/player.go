package entity

// Player is an opaque chat identity taking part in a session.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Mark      string `json:"mark,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	IsBot     bool   `json:"is_bot,omitempty"`
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

func (that *Player) InGame() bool {
	return that.SessionID != ""
}

// DisplayName falls back to the ID when no name is known.
func (that *Player) DisplayName() string {
	if that.Name == "" {
		return that.ID
	}

	return that.Name
}
