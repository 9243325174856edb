// Package websocket lets chat clients start and play sessions over a
// websocket connection.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/bot"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/pkg"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errNotConnected     = errors.New("send connect first")
	errNoSession        = errors.New("you are not in a session")
	errUnknownAction    = errors.New("unknown action")
	errPlayerOffline    = errors.New("player is not connected")
)

type gameManager interface {
	StartGame(ctx context.Context, kind string, players []*entity.Player) (*entity.Session, session.Runner, error)
	PlayGame(ctx context.Context, current *entity.Session, runner session.Runner, io session.IO) (*entity.TerminalResult, error)
	Kinds() []string
}

type handlerFunc func(ctx context.Context, c *client, payload *Payload) error

type Server struct {
	logger  *slog.Logger
	manager gameManager

	handlers map[string]handlerFunc
	serveMux http.ServeMux

	// ctx outlives single connections and bounds running sessions.
	ctx context.Context

	mu      sync.Mutex
	clients map[string]*client
	players map[string]*entity.Player
	rooms   map[string]*room
	seats   map[string]string
}

func New(ctx context.Context, logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		ctx:     ctx,

		handlers: make(map[string]handlerFunc),
		clients:  make(map[string]*client),
		players:  make(map[string]*entity.Player),
		rooms:    make(map[string]*room),
		seats:    make(map[string]string),
	}

	server.handlers[ActionConnect] = server.handleConnect
	server.handlers[ActionNewGame] = server.handleNewGame
	server.handlers[ActionInput] = server.handleInput

	server.serveMux.HandleFunc("/ws", server.subscribeHandler)

	return server
}

func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	that.serveMux.ServeHTTP(w, r)
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "subscribeHandler", "remote", r.RemoteAddr)

	err := that.subscribe(w, r)
	if errors.Is(err, context.Canceled) {
		return
	}

	if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
		websocket.CloseStatus(err) == websocket.StatusGoingAway {
		return
	}

	if err != nil {
		log.Warn("connection closed", "error", err)
	}
}

// subscribe serves one connection: a writer goroutine drains the client's
// queue while this goroutine reads and dispatches requests.
func (that *Server) subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to accept: %w", err)
	}
	defer conn.CloseNow()

	c := newClient(that.logger, conn)
	defer that.disconnect(c)

	group, ctx := errgroup.WithContext(r.Context())
	group.Go(func() error { return c.writeLoop(ctx) })
	group.Go(func() error { return that.readLoop(ctx, c) })

	return group.Wait()
}

func (that *Server) readLoop(ctx context.Context, c *client) error {
	for {
		message, err := c.read(ctx)
		if errors.Is(err, errMalformedMessage) {
			that.reply(c, ActionError, ResponsePayload{Error: err.Error()})
			continue
		}

		if err != nil {
			return err
		}

		that.dispatch(ctx, c, message)
	}
}

func (that *Server) dispatch(ctx context.Context, c *client, message *Message) {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		that.reply(c, ActionError, ResponsePayload{Error: fmt.Sprintf("%s: %q", errUnknownAction, message.Action)})
		return
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			that.reply(c, ActionError, ResponsePayload{Error: errMalformedMessage.Error()})
			return
		}
	}

	if err := handler(ctx, c, &payload); err != nil {
		log.Info("request refused", "player_id", c.PlayerID(), "error", err)
		that.reply(c, ActionError, ResponsePayload{Error: userMessage(err)})
	}
}

func (that *Server) handleConnect(_ context.Context, c *client, payload *Payload) error {
	log := that.logger.With("method", "handleConnect")

	player := payload.Player
	if player == nil || player.ID == "" {
		player = entity.NewPlayer(pkg.GeneratePlayerID(), "")
		if payload.Player != nil {
			player.Name = payload.Player.Name
		}
	}

	if player.ID == bot.ID {
		return fmt.Errorf("%w: %s", apperror.ErrReservedPlayerID, player.ID)
	}

	player = entity.NewPlayer(player.ID, player.Name)
	c.bind(player.ID)

	that.mu.Lock()
	previous := that.clients[player.ID]
	that.clients[player.ID] = c
	that.players[player.ID] = player
	that.mu.Unlock()

	if previous != nil && previous != c {
		log.Info("player reconnected", "player_id", player.ID)
	}

	that.reply(c, ActionConnect, ResponsePayload{Player: player, Kinds: that.manager.Kinds()})

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, c *client, payload *Payload) error {
	log := that.logger.With("method", "handleNewGame", "kind", payload.Kind)

	starter, err := that.connected(c)
	if err != nil {
		return err
	}

	players := []*entity.Player{starter}
	invited := map[string]bool{starter.ID: true}
	for _, id := range payload.Players {
		if invited[id] {
			continue
		}
		invited[id] = true

		that.mu.Lock()
		guest, ok := that.players[id]
		that.mu.Unlock()

		if !ok {
			return fmt.Errorf("%w: %s", errPlayerOffline, id)
		}

		players = append(players, entity.NewPlayer(guest.ID, guest.Name))
	}

	current, runner, err := that.manager.StartGame(ctx, payload.Kind, players)
	if err != nil {
		return err
	}

	r := newRoom(that, current.ID, current.Kind, current.PlayerIDs())

	that.mu.Lock()
	that.rooms[current.ID] = r
	for _, id := range current.PlayerIDs() {
		that.seats[id] = current.ID
	}
	that.mu.Unlock()

	for _, id := range current.PlayerIDs() {
		that.send(id, ActionNewGame, ResponsePayload{Session: current})
	}

	log.Info("session started", "session_id", current.ID)

	go that.play(current, runner, r)

	return nil
}

// play runs the session on the server context so it survives the
// connection that started it.
func (that *Server) play(current *entity.Session, runner session.Runner, r *room) {
	log := that.logger.With("method", "play", "session_id", current.ID)

	result, err := that.playSafely(current, runner, r)

	that.mu.Lock()
	delete(that.rooms, current.ID)
	for _, id := range r.players {
		if that.seats[id] == current.ID {
			delete(that.seats, id)
		}
	}
	that.mu.Unlock()

	payload := ResponsePayload{Session: current, Result: result}
	if err != nil {
		log.Warn("session ended with error", "error", err)
		payload.Error = userMessage(err)
	}

	for _, id := range r.players {
		that.send(id, ActionOver, payload)
	}
}

// playSafely turns a panic inside one session into an error for that
// session only.
func (that *Server) playSafely(current *entity.Session, runner session.Runner, r *room) (result *entity.TerminalResult, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			that.logger.Error("session panicked", "session_id", current.ID, "panic", recovered)
			err = fmt.Errorf("%w: %v", apperror.ErrInvariantViolation, recovered)
		}
	}()

	return that.manager.PlayGame(that.ctx, current, runner, r.IO())
}

func (that *Server) handleInput(_ context.Context, c *client, payload *Payload) error {
	player, err := that.connected(c)
	if err != nil {
		return err
	}

	that.mu.Lock()
	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = that.seats[player.ID]
	}
	r, ok := that.rooms[sessionID]
	that.mu.Unlock()

	if !ok {
		return errNoSession
	}

	in := session.Input{PlayerID: player.ID, Value: payload.Value, ReceivedAt: time.Now()}

	return r.deliver(in, payload.Private)
}

func (that *Server) connected(c *client) (*entity.Player, error) {
	id := c.PlayerID()
	if id == "" {
		return nil, errNotConnected
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	player, ok := that.players[id]
	if !ok {
		return nil, errNotConnected
	}

	return player, nil
}

func (that *Server) disconnect(c *client) {
	id := c.PlayerID()
	if id == "" {
		return
	}

	that.mu.Lock()
	if that.clients[id] == c {
		delete(that.clients, id)
	}
	that.mu.Unlock()
}

// send pushes a message to a player if they are connected.
func (that *Server) send(playerID, action string, payload ResponsePayload) {
	that.mu.Lock()
	c, ok := that.clients[playerID]
	that.mu.Unlock()

	if !ok {
		return
	}

	that.reply(c, action, payload)
}

func (that *Server) reply(c *client, action string, payload ResponsePayload) {
	message, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "action", action, "error", err)
		return
	}

	c.send(message)
}

// userMessage keeps the refusal reason and drops internal wrapping.
func userMessage(err error) string {
	var rejection *apperror.Rejection
	if errors.As(err, &rejection) {
		return rejection.Reason
	}

	for _, known := range []error{
		apperror.ErrUnknownGame,
		apperror.ErrWrongPlayerCount,
		apperror.ErrDuplicatePlayer,
		apperror.ErrReservedPlayerID,
		apperror.ErrPlayerBusy,
		apperror.ErrSessionAborted,
		apperror.ErrExternalFailure,
		apperror.ErrInvariantViolation,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return err.Error()
}
