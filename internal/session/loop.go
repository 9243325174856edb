package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
)

const (
	msgCancelWaiting = "cancel requested, waiting for the other players to confirm"
	msgCancelAsked   = "%s wants to cancel the game, send %q to confirm"
)

type loop[M any] struct {
	core     Core[M]
	io       IO
	opts     Options
	logger   *slog.Logger
	votes    *CancelVote
	deadline time.Time
}

// Run renders the initial state and then alternates between waiting for
// input, validating it and applying it until the game, a timeout or a
// cancel vote produces a terminal result. Exactly one wait is outstanding at
// any moment, so the core is never touched concurrently.
//
// Cancelling ctx aborts the session with apperror.ErrSessionAborted. Input
// source and renderer failures are returned wrapped in
// apperror.ErrExternalFailure.
func Run[M any](ctx context.Context, core Core[M], io IO, opts Options) (*entity.TerminalResult, error) {
	if io.Input == nil {
		return nil, fmt.Errorf("%w: no input source", apperror.ErrExternalFailure)
	}

	opts = opts.withDefaults()

	that := &loop[M]{
		core:   core,
		io:     io,
		opts:   opts,
		logger: opts.Logger.With("component", "session", "sessionID", opts.SessionID, "kind", opts.Kind),
		votes:  NewCancelVote(core.Players(), opts.CancelQuorum),
	}

	return that.run(ctx)
}

func (that *loop[M]) run(ctx context.Context) (*entity.TerminalResult, error) {
	log := that.logger.With("method", "run")

	if err := that.render(ctx, nil); err != nil {
		return nil, err
	}

	if delayer, ok := that.core.(Delayer); ok {
		if err := that.opts.Sleep(ctx, delayer.Delay()); err != nil {
			return nil, fmt.Errorf("%w: %w", apperror.ErrSessionAborted, err)
		}
	}

	if starter, ok := that.core.(Starter); ok {
		starter.Start(that.opts.Now())

		if _, delayed := that.core.(Delayer); delayed {
			if err := that.render(ctx, nil); err != nil {
				return nil, err
			}
		}
	}

	runCtx := ctx
	if that.opts.TotalTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, that.opts.TotalTimeout)
		defer cancel()
	}

	that.resetDeadline()

	for {
		if result := that.core.Result(); result != nil {
			log.Info("session finished", "reason", result.Reason, "winner", result.Winner)
			return that.finish(ctx, result)
		}

		in, err := that.await(runCtx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("session aborted", "error", ctx.Err())
				return nil, fmt.Errorf("%w: %w", apperror.ErrSessionAborted, ctx.Err())
			}

			if errors.Is(err, context.DeadlineExceeded) {
				result := that.timeoutResult()
				log.Info("session timed out", "reason", result.Reason)

				return that.finish(ctx, result)
			}

			log.Error("input source failed", "error", err)

			return nil, fmt.Errorf("%w: %w", apperror.ErrExternalFailure, err)
		}

		if that.isCancel(in) {
			if that.votes.Approve(in.PlayerID) {
				log.Info("session cancelled", "playerID", in.PlayerID)
				return that.finish(ctx, entity.Cancelled())
			}

			that.announceCancel(ctx, in.PlayerID)

			continue
		}

		move, err := Validate(that.core, in)
		if err != nil {
			that.reject(ctx, in, err)
			continue
		}

		if err = that.core.Apply(in.PlayerID, move); err != nil {
			log.Error("failed to apply validated move", "playerID", in.PlayerID, "error", err)
			return nil, fmt.Errorf("%w: %w", apperror.ErrInvariantViolation, err)
		}

		that.resetDeadline()
		that.announce(ctx)

		if that.core.Result() == nil {
			if err = that.render(ctx, nil); err != nil {
				return nil, err
			}
		}
	}
}

func (that *loop[M]) await(ctx context.Context) (Input, error) {
	if !that.deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, that.deadline)
		defer cancel()
	}

	in, err := that.io.Input.NextInput(ctx, Request{
		SessionID: that.opts.SessionID,
		Eligible:  that.core.Eligible(),
		Legal:     that.legal,
	})
	if err != nil {
		return Input{}, err
	}

	if in.ReceivedAt.IsZero() {
		in.ReceivedAt = that.opts.Now()
	}

	return in, nil
}

// resetDeadline restarts the move timer. Rejected inputs never extend it.
// The deadline follows the wall clock because context timers do.
func (that *loop[M]) resetDeadline() {
	if that.opts.MoveTimeout <= 0 {
		return
	}

	that.deadline = time.Now().Add(that.opts.MoveTimeout)
}

func (that *loop[M]) legal(in Input) bool {
	if that.isCancel(in) {
		return true
	}

	_, err := Validate(that.core, in)

	return err == nil
}

func (that *loop[M]) isCancel(in Input) bool {
	if that.opts.CancelWord == "" || !strings.EqualFold(strings.TrimSpace(in.Value), that.opts.CancelWord) {
		return false
	}

	players := that.core.Players()

	return players == nil || slices.Contains(players, in.PlayerID)
}

func (that *loop[M]) announceCancel(ctx context.Context, requester string) {
	that.notify(ctx, requester, msgCancelWaiting)

	for _, playerID := range that.votes.Pending() {
		that.notify(ctx, playerID, fmt.Sprintf(msgCancelAsked, requester, that.opts.CancelWord))
	}
}

func (that *loop[M]) reject(ctx context.Context, in Input, err error) {
	log := that.logger.With("method", "reject")
	log.Debug("input rejected", "playerID", in.PlayerID, "value", in.Value, "error", err)

	if that.opts.Policy == PolicyIgnore {
		return
	}

	// Outsiders chatting next to the game only hear about authorization.
	players := that.core.Players()
	if players != nil && !slices.Contains(players, in.PlayerID) && !apperror.IsUnauthorized(err) {
		return
	}

	message := err.Error()

	var rejection *apperror.Rejection
	if errors.As(err, &rejection) {
		message = rejection.Reason
	}

	that.notify(ctx, in.PlayerID, message)
}

func (that *loop[M]) announce(ctx context.Context) {
	announcer, ok := that.core.(Announcer)
	if !ok {
		return
	}

	for _, notice := range announcer.Announcements() {
		that.notify(ctx, notice.PlayerID, notice.Message)
	}
}

func (that *loop[M]) notify(ctx context.Context, playerID, message string) {
	if that.io.Notify == nil {
		return
	}

	if err := that.io.Notify.Notify(ctx, playerID, message); err != nil {
		that.logger.Warn("failed to notify player", "playerID", playerID, "error", err)
	}
}

func (that *loop[M]) render(ctx context.Context, result *entity.TerminalResult) error {
	if that.io.Render == nil {
		return nil
	}

	snapshot := Snapshot{
		SessionID: that.opts.SessionID,
		Kind:      that.opts.Kind,
		State:     that.core.Snapshot(),
		Result:    result,
	}

	if result == nil {
		snapshot.Eligible = that.core.Eligible()
	}

	if err := that.io.Render.Render(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: render: %w", apperror.ErrExternalFailure, err)
	}

	return nil
}

// finish renders the frozen board together with its result.
func (that *loop[M]) finish(ctx context.Context, result *entity.TerminalResult) (*entity.TerminalResult, error) {
	if err := that.render(ctx, result); err != nil {
		return result, err
	}

	return result, nil
}

func (that *loop[M]) timeoutResult() *entity.TerminalResult {
	if resolver, ok := that.core.(TimeoutResolver); ok {
		if result := resolver.OnTimeout(); result != nil {
			return result
		}
	}

	return entity.TimedOut()
}
