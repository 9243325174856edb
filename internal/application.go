package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/chatgames-backend/internal/config"
	"github.com/rocketscienceinc/chatgames-backend/internal/game"
	"github.com/rocketscienceinc/chatgames-backend/internal/repository"
	"github.com/rocketscienceinc/chatgames-backend/internal/repository/memory"
	"github.com/rocketscienceinc/chatgames-backend/internal/repository/storage"
	"github.com/rocketscienceinc/chatgames-backend/internal/usecase"
	"github.com/rocketscienceinc/chatgames-backend/internal/words"
	"github.com/rocketscienceinc/chatgames-backend/transport/rest"
	"github.com/rocketscienceinc/chatgames-backend/transport/websocket"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage")
)

type repositories struct {
	players  repository.PlayerRepository
	sessions repository.SessionRepository
	close    func() error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	repos, err := initRepositories(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = repos.close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	pack, err := words.Load(conf.Games.WordsFile)
	if err != nil {
		return fmt.Errorf("could not load word lists: %w", err)
	}

	registry := game.Default()
	gameManager := usecase.NewGameManager(logger, repos.players, repos.sessions, registry, pack, conf)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, rest.NewSessionHandler(logger, gameManager))
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort, "games", registry.Kinds())
		wsServer := websocket.New(ctx, logger, gameManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func initRepositories(ctx context.Context, conf *config.Config) (*repositories, error) {
	switch conf.Storage {
	case config.StorageMemory:
		return &repositories{
			players:  memory.NewPlayerRepository(),
			sessions: memory.NewSessionRepository(),
			close:    func() error { return nil },
		}, nil
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return &repositories{
			players:  repository.NewPlayerRepository(redisStorage.Connection, conf.Redis.SessionTTL),
			sessions: repository.NewSessionRepository(redisStorage.Connection, conf.Redis.SessionTTL),
			close:    redisStorage.Close,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, conf.Storage)
	}
}
