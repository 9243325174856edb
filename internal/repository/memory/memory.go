// Package memory keeps sessions and players in process, for single-node
// deployments and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*entity.Session)}
}

func (that *SessionRepository) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	stored, err := clone(session)
	if err != nil {
		return err
	}

	that.mu.Lock()
	defer that.mu.Unlock()
	that.sessions[session.ID] = stored

	return nil
}

func (that *SessionRepository) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.RLock()
	session, ok := that.sessions[id]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrSessionNotFound
	}

	return clone(session)
}

func (that *SessionRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.sessions[id]; !ok {
		return apperror.ErrSessionNotFound
	}

	delete(that.sessions, id)

	return nil
}

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]entity.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{players: make(map[string]entity.Player)}
}

func (that *PlayerRepository) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.players[player.ID] = *player

	return nil
}

func (that *PlayerRepository) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[id]
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	return &player, nil
}

func (that *PlayerRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	delete(that.players, id)

	return nil
}

// clone copies through JSON, the same encoding the redis repository uses,
// so both stores hand out equal values.
func clone(session *entity.Session) (*entity.Session, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("could not marshal session: %w", err)
	}

	var out entity.Session
	if err = json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &out, nil
}
