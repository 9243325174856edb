package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/time/rate"
)

const (
	clientMessageBuffer = 16
	writeTimeout        = 5 * time.Second
	readLimit           = 8192
)

// client is one websocket connection. Outgoing messages are queued on msgs;
// a client that cannot keep up is disconnected.
type client struct {
	logger  *slog.Logger
	conn    *websocket.Conn
	msgs    chan []byte
	limiter *rate.Limiter

	mu       sync.Mutex
	playerID string
	closed   bool
}

func newClient(logger *slog.Logger, conn *websocket.Conn) *client {
	conn.SetReadLimit(readLimit)

	return &client{
		logger:  logger,
		conn:    conn,
		msgs:    make(chan []byte, clientMessageBuffer),
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
	}
}

func (that *client) PlayerID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.playerID
}

func (that *client) bind(playerID string) {
	that.mu.Lock()
	that.playerID = playerID
	that.mu.Unlock()
}

// send queues msg without blocking.
func (that *client) send(msg []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.msgs <- msg:
	default:
		that.closed = true
		go that.conn.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
	}
}

// writeLoop delivers queued messages until ctx ends or a write fails.
func (that *client) writeLoop(ctx context.Context) error {
	for {
		select {
		case msg := <-that.msgs:
			if err := that.write(ctx, msg); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (that *client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return that.conn.Write(ctx, websocket.MessageText, msg)
}

// read waits for the rate limiter and returns the next decoded message.
func (that *client) read(ctx context.Context) (*Message, error) {
	if err := that.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	_, body, err := that.conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.Unmarshal(body, &message); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedMessage, err)
	}

	return &message, nil
}
