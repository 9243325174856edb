// Package bot lets an automated participant take seats in a session.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const (
	ID   = "bot"
	Name = "Bot"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// NewPlayer returns the participant record of the bot.
func NewPlayer() *entity.Player {
	return &entity.Player{ID: ID, Name: Name, IsBot: true}
}

// Source answers for the bot whenever it may act and defers to the wrapped
// source otherwise.
type Source struct {
	logger *slog.Logger
	inner  session.InputSource
	moves  []string
	rng    *rand.Rand
	think  time.Duration
	now    func() time.Time
}

// NewSource wraps inner. moves are the tokens the bot tries, in random
// order, until one is legal. think is a pause before each bot move.
func NewSource(logger *slog.Logger, inner session.InputSource, moves []string, rng *rand.Rand, think time.Duration) *Source {
	return &Source{
		logger: logger.With("component", "bot"),
		inner:  inner,
		moves:  slices.Clone(moves),
		rng:    rng,
		think:  think,
		now:    time.Now,
	}
}

func (that *Source) NextInput(ctx context.Context, req session.Request) (session.Input, error) {
	if !slices.Contains(req.Eligible, ID) {
		return that.inner.NextInput(ctx, req)
	}

	if that.think > 0 {
		if err := session.Sleep(ctx, that.think); err != nil {
			return session.Input{}, err
		}
	}

	return that.MakeTurn(req)
}

// MakeTurn picks a random legal move for the bot.
func (that *Source) MakeTurn(req session.Request) (session.Input, error) {
	log := that.logger.With("method", "MakeTurn", "sessionID", req.SessionID)

	candidates := slices.Clone(that.moves)
	that.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, token := range candidates {
		in := session.Input{PlayerID: ID, Value: token, ReceivedAt: that.now()}
		if req.Legal == nil || req.Legal(in) {
			log.Debug("bot moved", "value", token)
			return in, nil
		}
	}

	return session.Input{}, fmt.Errorf("bot failed to make turn: %w", ErrNoAvailableMoves)
}
