package session

import (
	"context"
	"log/slog"
	"time"
)

// Policy decides what happens to a rejected input.
type Policy int

const (
	// PolicyIgnore drops rejected inputs silently, like reaction games do.
	PolicyIgnore Policy = iota
	// PolicyReject tells the acting participant why the input was refused.
	PolicyReject
)

type Options struct {
	SessionID string
	Kind      string

	// MoveTimeout bounds the wait for the next valid move. Zero disables it.
	MoveTimeout time.Duration
	// TotalTimeout bounds the whole session. Zero disables it.
	TotalTimeout time.Duration

	Policy Policy

	// CancelWord ends the session once CancelQuorum participants sent it.
	// An empty word disables explicit cancellation.
	CancelWord   string
	CancelQuorum Quorum

	Logger *slog.Logger
	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
}

func (that Options) withDefaults() Options {
	if that.Logger == nil {
		that.Logger = slog.Default()
	}

	if that.Now == nil {
		that.Now = time.Now
	}

	if that.Sleep == nil {
		that.Sleep = Sleep
	}

	return that
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
