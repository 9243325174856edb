// Package game lists the playable games and builds their sessions.
package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/config"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/typerace"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const (
	CancelWord = "cancel"
	StopWord   = "stop"
)

// Params carries everything a factory may need to build one session.
type Params struct {
	// Players are the bound participants in seat order, bot included.
	Players []string
	Config  config.Games
	Words   *words.Pack
	Rand    *rand.Rand
	// Text feeds the typing race. Nil falls back to random words from Words.
	Text typerace.TextSource
}

type Factory func(ctx context.Context, params Params) (session.Runner, error)

// Definition describes one kind of game.
type Definition struct {
	Kind       string
	MinPlayers int
	MaxPlayers int
	// VersusBot seats the bot when a single player starts a two-seat game.
	VersusBot bool
	BotMoves  []string

	Policy       session.Policy
	CancelWord   string
	CancelQuorum session.Quorum
	// Timed games run against the total timeout instead of a per-move one.
	Timed bool

	New Factory
}

// CheckPlayers validates the participant count, bot included.
func (that Definition) CheckPlayers(count int) error {
	if count < that.MinPlayers || count > that.MaxPlayers {
		return fmt.Errorf("%w: %s takes %d to %d players, got %d",
			apperror.ErrWrongPlayerCount, that.Kind, that.MinPlayers, that.MaxPlayers, count)
	}

	return nil
}

// Options fills the per-kind loop options on top of base.
func (that Definition) Options(base session.Options, timeouts config.Session) session.Options {
	opts := base
	opts.Kind = that.Kind
	opts.Policy = that.Policy
	opts.CancelWord = that.CancelWord
	opts.CancelQuorum = that.CancelQuorum

	if that.Timed {
		opts.TotalTimeout = timeouts.TotalTimeout
	} else {
		opts.MoveTimeout = timeouts.MoveTimeout
	}

	return opts
}

type Registry struct {
	definitions map[string]Definition
	kinds       []string
}

func NewRegistry(definitions ...Definition) *Registry {
	registry := &Registry{definitions: make(map[string]Definition, len(definitions))}
	for _, definition := range definitions {
		if _, ok := registry.definitions[definition.Kind]; !ok {
			registry.kinds = append(registry.kinds, definition.Kind)
		}

		registry.definitions[definition.Kind] = definition
	}

	return registry
}

func (that *Registry) Get(kind string) (Definition, error) {
	definition, ok := that.definitions[kind]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", apperror.ErrUnknownGame, kind)
	}

	return definition, nil
}

// Kinds lists the registered kinds in registration order.
func (that *Registry) Kinds() []string {
	return slices.Clone(that.kinds)
}
