package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/bot"
	"github.com/rocketscienceinc/chatgames-backend/internal/config"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/game"
	"github.com/rocketscienceinc/chatgames-backend/internal/game/typerace"
	"github.com/rocketscienceinc/chatgames-backend/internal/pkg"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
)

const defaultBotThink = 700 * time.Millisecond

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	DeleteByID(ctx context.Context, id string) error
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager owns the lifecycle of sessions: it binds players, runs the
// loop and clears the bindings once the session is over.
type GameManager struct {
	logger      *slog.Logger
	playerRepo  playerRepo
	sessionRepo sessionRepo

	registry *game.Registry
	words    *words.Pack
	games    config.Games
	timeouts config.Session

	text     typerace.TextSource
	botThink time.Duration

	claims sync.Mutex
	now      func() time.Time
}

func NewGameManager(
	logger *slog.Logger,
	playerRepo playerRepo,
	sessionRepo sessionRepo,
	registry *game.Registry,
	pack *words.Pack,
	conf *config.Config,
) *GameManager {
	return &GameManager{
		logger:      logger.With("component", "game_manager"),
		playerRepo:  playerRepo,
		sessionRepo: sessionRepo,
		registry:    registry,
		words:       pack,
		games:       conf.Games,
		timeouts:    conf.Session,
		botThink:    defaultBotThink,
		now:         time.Now,
	}
}

// SetTextSource replaces the random words of the typing race.
func (that *GameManager) SetTextSource(source typerace.TextSource) {
	that.text = source
}

// StartGame validates the players, builds the game and registers the
// session. A single player starting a game that supports it plays the bot.
func (that *GameManager) StartGame(ctx context.Context, kind string, players []*entity.Player) (*entity.Session, session.Runner, error) {
	log := that.logger.With("method", "StartGame", "kind", kind)

	definition, err := that.registry.Get(kind)
	if err != nil {
		return nil, nil, err
	}

	if err = checkPlayers(players); err != nil {
		return nil, nil, err
	}

	seats := append([]*entity.Player(nil), players...)
	if definition.VersusBot && len(seats) == 1 && definition.MaxPlayers == 2 {
		seats = append(seats, bot.NewPlayer())
	}

	if err = definition.CheckPlayers(len(seats)); err != nil {
		return nil, nil, err
	}

	sessionID := pkg.GenerateSessionID()
	current := entity.NewSession(sessionID, kind, seats, that.now())

	runner, err := definition.New(ctx, game.Params{
		Players: current.PlayerIDs(),
		Config:  that.games,
		Words:   that.words,
		Rand:    newRand(),
		Text:    that.text,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s: %w", kind, err)
	}

	if err = that.claim(ctx, current); err != nil {
		return nil, nil, err
	}

	log.Info("session created", "session_id", sessionID, "players", current.PlayerIDs())

	return current, runner, nil
}

// PlayGame runs the session to its end and stores the result. Player
// bindings are cleared whatever the outcome.
func (that *GameManager) PlayGame(ctx context.Context, current *entity.Session, runner session.Runner, io session.IO) (*entity.TerminalResult, error) {
	log := that.logger.With("method", "PlayGame", "session_id", current.ID)

	defer that.CleanupGame(context.WithoutCancel(ctx), current)

	definition, err := that.registry.Get(current.Kind)
	if err != nil {
		return nil, err
	}

	current.Start()
	if err = that.sessionRepo.CreateOrUpdate(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if hasBot(current.Players) {
		io.Input = bot.NewSource(that.logger, io.Input, definition.BotMoves, newRand(), that.botThink)
	}

	if that.timeouts.IdleAbort > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.timeouts.IdleAbort)
		defer cancel()
	}

	opts := definition.Options(session.Options{SessionID: current.ID, Logger: that.logger, Now: that.now}, that.timeouts)

	result, err := runner.Run(ctx, io, opts)
	if err != nil {
		log.Warn("session ended without result", "error", err)

		return nil, fmt.Errorf("session %s: %w", current.ID, err)
	}

	if err = current.Finish(result); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvariantViolation, err)
	}

	if err = that.sessionRepo.CreateOrUpdate(context.WithoutCancel(ctx), current); err != nil {
		log.Error("failed to store result", "error", err)
	}

	log.Info("session finished", "reason", result.Reason, "winner", result.Winner)

	return result, nil
}

// CleanupGame releases every human participant. Unfinished sessions are
// removed from the registry. Failures are logged and never returned.
func (that *GameManager) CleanupGame(ctx context.Context, current *entity.Session) {
	log := that.logger.With("method", "CleanupGame", "session_id", current.ID)

	for _, player := range current.Players {
		if player.IsBot {
			continue
		}

		player.SessionID = ""
		if err := that.playerRepo.DeleteByID(ctx, player.ID); err != nil {
			log.Warn("failed to release player", "player_id", player.ID, "error", err)
		}
	}

	if current.IsFinished() {
		return
	}

	if err := that.sessionRepo.DeleteByID(ctx, current.ID); err != nil && !errors.Is(err, apperror.ErrSessionNotFound) {
		log.Warn("failed to delete session", "error", err)
	}
}

func (that *GameManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	current, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return current, nil
}

// Kinds lists the games that can be started.
func (that *GameManager) Kinds() []string {
	return that.registry.Kinds()
}

// claim registers the session and binds its human players. The busy check
// and the binding happen under one lock so a player never joins two sessions.
func (that *GameManager) claim(ctx context.Context, current *entity.Session) error {
	that.claims.Lock()
	defer that.claims.Unlock()

	for _, player := range current.Players {
		if player.IsBot {
			continue
		}

		if err := that.ensureFree(ctx, player.ID); err != nil {
			return err
		}
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, current); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	for _, player := range current.Players {
		if player.IsBot {
			continue
		}

		player.SessionID = current.ID
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			that.CleanupGame(context.WithoutCancel(ctx), current)

			return fmt.Errorf("failed to bind player: %w", err)
		}
	}

	return nil
}

// checkPlayers refuses seats shared by one identity and humans posing as
// the bot.
func checkPlayers(players []*entity.Player) error {
	seen := make(map[string]struct{}, len(players))
	for _, player := range players {
		if player.ID == bot.ID {
			return fmt.Errorf("%w: %s", apperror.ErrReservedPlayerID, player.ID)
		}

		if _, ok := seen[player.ID]; ok {
			return fmt.Errorf("%w: %s", apperror.ErrDuplicatePlayer, player.ID)
		}

		seen[player.ID] = struct{}{}
	}

	return nil
}

func (that *GameManager) ensureFree(ctx context.Context, playerID string) error {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if player.InGame() {
		return fmt.Errorf("%w: %s is in session %s", apperror.ErrPlayerBusy, playerID, player.SessionID)
	}

	return nil
}

func hasBot(players []*entity.Player) bool {
	for _, player := range players {
		if player.IsBot {
			return true
		}
	}

	return false
}

// newRand seeds a generator owned by a single session.
func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
