package pkg

import "github.com/google/uuid"

// GenerateSessionID returns a random identifier for a game session.
func GenerateSessionID() string {
	return uuid.NewString()
}

// GeneratePlayerID names a guest that connected without an identity.
func GeneratePlayerID() string {
	return "guest-" + uuid.NewString()[:8]
}
