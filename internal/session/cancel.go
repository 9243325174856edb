package session

import "slices"

// Quorum says how many participants must ask before a cancel takes effect.
type Quorum int

const (
	QuorumAny Quorum = iota
	QuorumAll
)

// CancelVote records cancel requests per participant. Requests persist
// until the quorum is reached; they are never withdrawn by later moves.
type CancelVote struct {
	required []string
	quorum   Quorum
	approved map[string]bool
}

func NewCancelVote(required []string, quorum Quorum) *CancelVote {
	return &CancelVote{
		required: slices.Clone(required),
		quorum:   quorum,
		approved: make(map[string]bool),
	}
}

// Approve records a request and reports whether the quorum is now reached.
func (that *CancelVote) Approve(playerID string) bool {
	that.approved[playerID] = true
	return that.Reached()
}

func (that *CancelVote) Approved(playerID string) bool {
	return that.approved[playerID]
}

func (that *CancelVote) Reached() bool {
	if len(that.approved) == 0 {
		return false
	}

	if that.quorum == QuorumAny || len(that.required) == 0 {
		return true
	}

	for _, id := range that.required {
		if !that.approved[id] {
			return false
		}
	}

	return true
}

// Pending lists the required participants that have not asked yet.
func (that *CancelVote) Pending() []string {
	var pending []string
	for _, id := range that.required {
		if !that.approved[id] {
			pending = append(pending, id)
		}
	}

	return pending
}
