package session

import "slices"

// Turns tracks whose move it is in an alternating game.
type Turns struct {
	order   []string
	current int
}

func NewTurns(order ...string) *Turns {
	return &Turns{order: slices.Clone(order)}
}

// Current is the participant allowed to move. Empty when nobody is seated.
func (that *Turns) Current() string {
	if len(that.order) == 0 {
		return ""
	}

	return that.order[that.current]
}

// Advance passes the turn to the next seat and returns it.
func (that *Turns) Advance() string {
	if len(that.order) == 0 {
		return ""
	}

	that.current = (that.current + 1) % len(that.order)

	return that.order[that.current]
}

func (that *Turns) IsMember(id string) bool {
	return slices.Contains(that.order, id)
}

// Seat returns the zero-based seat of a participant or -1.
func (that *Turns) Seat(id string) int {
	return slices.Index(that.order, id)
}

func (that *Turns) Order() []string {
	return slices.Clone(that.order)
}

// Opponent returns the first other participant, used by two-seat games.
func (that *Turns) Opponent(id string) string {
	for _, other := range that.order {
		if other != id {
			return other
		}
	}

	return ""
}
