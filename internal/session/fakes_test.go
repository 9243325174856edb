package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

var errBadNumber = errors.New("bad number")

// countGame is a two-seat race to a target: players alternate adding 1..3.
type countGame struct {
	turns  *Turns
	total  int
	target int
	result *entity.TerminalResult
}

func newCountGame(target int, players ...string) *countGame {
	return &countGame{turns: NewTurns(players...), target: target}
}

func (that *countGame) Players() []string  { return that.turns.Order() }
func (that *countGame) Eligible() []string { return []string{that.turns.Current()} }

func (that *countGame) Parse(in Input) (int, error) {
	n, err := strconv.Atoi(in.Value)
	if err != nil || n < 1 || n > 3 {
		return 0, apperror.Reject(errBadNumber, "send 1, 2 or 3")
	}

	return n, nil
}

func (that *countGame) Check(_ string, n int) error {
	if that.total+n > that.target {
		return apperror.Rejectf(errBadNumber, "at most %d left", that.target-that.total)
	}

	return nil
}

func (that *countGame) Apply(playerID string, n int) error {
	that.total += n
	if that.total == that.target {
		that.result = entity.Win(playerID)
		return nil
	}

	that.turns.Advance()

	return nil
}

func (that *countGame) Result() *entity.TerminalResult { return that.result }
func (that *countGame) Snapshot() any                  { return that.total }

// scriptedSource hands out inputs in order and then blocks until ctx ends.
type scriptedSource struct {
	mu       sync.Mutex
	inputs   []Input
	requests []Request
	err      error
}

func (that *scriptedSource) NextInput(ctx context.Context, req Request) (Input, error) {
	that.mu.Lock()
	that.requests = append(that.requests, req)

	if len(that.inputs) > 0 {
		in := that.inputs[0]
		that.inputs = that.inputs[1:]
		that.mu.Unlock()

		return in, nil
	}

	err := that.err
	that.mu.Unlock()

	if err != nil {
		return Input{}, err
	}

	<-ctx.Done()

	return Input{}, ctx.Err()
}

type recordingRenderer struct {
	snapshots []Snapshot
}

func (that *recordingRenderer) Render(_ context.Context, snapshot Snapshot) error {
	that.snapshots = append(that.snapshots, snapshot)
	return nil
}

func (that *recordingRenderer) last() Snapshot {
	return that.snapshots[len(that.snapshots)-1]
}

type recordingNotifier struct {
	messages map[string][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: make(map[string][]string)}
}

func (that *recordingNotifier) Notify(_ context.Context, playerID, message string) error {
	that.messages[playerID] = append(that.messages[playerID], message)
	return nil
}

func in(playerID, value string) Input {
	return Input{PlayerID: playerID, Value: value}
}

type delayedGame struct {
	*countGame
	startedAt time.Time
	timeout   *entity.TerminalResult
}

func (that *delayedGame) Delay() time.Duration { return 3 * time.Second }
func (that *delayedGame) Start(now time.Time)  { that.startedAt = now }

func (that *delayedGame) OnTimeout() *entity.TerminalResult { return that.timeout }

type announcingGame struct {
	*countGame
	pending []Notice
}

func (that *announcingGame) Apply(playerID string, n int) error {
	err := that.countGame.Apply(playerID, n)
	that.pending = append(that.pending, Notice{PlayerID: playerID, Message: "added " + strconv.Itoa(n)})

	return err
}

func (that *announcingGame) Announcements() []Notice {
	out := that.pending
	that.pending = nil

	return out
}
