package battleship

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const msgSetupInputDropped = "that input arrived during setup and was ignored, send placements privately"

var (
	ErrInvalidPlacement = errors.New("invalid placement")

	placementPattern = regexp.MustCompile(`^([a-j](?:10|[1-9]))([hv]?)$`)
)

// Placement puts the next fleet ship at Start, downwards when Vertical.
type Placement struct {
	Start    Coord
	Vertical bool
}

// setup is the single-seat sub-game one captain plays to lay out the fleet.
// It only ever touches its own captain's board.
type setup struct {
	captain *Captain
}

// ParsePlacement accepts "a1", "a1 h" or "a1 v".
func ParsePlacement(raw string) (Placement, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), ""))

	match := placementPattern.FindStringSubmatch(normalized)
	if match == nil {
		return Placement{}, apperror.Rejectf(ErrInvalidPlacement, "%q is not a placement, send e.g. a8 v", strings.TrimSpace(raw))
	}

	start, err := ParseCoord(match[1])
	if err != nil {
		return Placement{}, err
	}

	return Placement{Start: start, Vertical: match[2] == "v"}, nil
}

func (that *setup) Players() []string  { return []string{that.captain.ID} }
func (that *setup) Eligible() []string { return nil }

func (that *setup) Parse(in session.Input) (Placement, error) {
	return ParsePlacement(in.Value)
}

func (that *setup) Check(_ string, placement Placement) error {
	spec, ok := that.captain.Board.NextShip()
	if !ok {
		return apperror.Reject(ErrFleetPlaced, "all ships are placed")
	}

	if err := that.captain.Board.Valid(NewShip(spec, placement.Start, placement.Vertical)); err != nil {
		return apperror.Reject(err, "ship placement was detected to be invalid, please try again")
	}

	return nil
}

func (that *setup) Apply(_ string, placement Placement) error {
	spec, ok := that.captain.Board.NextShip()
	if !ok {
		return ErrFleetPlaced
	}

	return that.captain.Board.Place(NewShip(spec, placement.Start, placement.Vertical))
}

func (that *setup) Result() *entity.TerminalResult {
	if that.captain.Board.Complete() {
		return entity.Win(that.captain.ID)
	}

	return nil
}

// SetupState is rendered privately to the captain placing ships.
type SetupState struct {
	Board Board     `json:"board"`
	Next  *ShipSpec `json:"next,omitempty"`
}

func (that *setup) Snapshot() any {
	state := SetupState{Board: copyBoard(that.captain.Board)}
	if spec, ok := that.captain.Board.NextShip(); ok {
		state.Next = &spec
	}

	return state
}

// setupEnded carries the result of a setup sub-loop that did not finish
// its fleet (timeout or cancel) so the group stops the other one.
type setupEnded struct {
	result *entity.TerminalResult
}

func (that *setupEnded) Error() string {
	return fmt.Sprintf("setup ended: %s", that.result.Reason)
}

// Setup lays out both fleets. Without private channels, or when random is
// set, fleets are placed randomly. Otherwise each captain runs a sub-loop
// concurrently and the firing phase waits for both. A non-nil result means
// the setup itself ended the game.
func (that *Game) Setup(ctx context.Context, io session.IO, opts session.Options, random bool) (*entity.TerminalResult, error) {
	if random || io.Private == nil {
		for _, id := range that.turns.Order() {
			if err := that.captains[id].Board.PlaceRandom(that.rng, DefaultPlacementAttempts); err != nil {
				return nil, fmt.Errorf("%w: %w", apperror.ErrInvariantViolation, err)
			}
		}

		return nil, nil
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for _, id := range that.turns.Order() {
		captain := that.captains[id]
		private := io.Private.Private(id)

		subOpts := opts
		subOpts.Kind = opts.Kind + ":setup"
		subOpts.CancelQuorum = session.QuorumAny
		subOpts.Policy = session.PolicyReject

		group.Go(func() error {
			result, err := session.Run[Placement](groupCtx, &setup{captain: captain}, private, subOpts)
			if err != nil {
				return err
			}

			if result.Reason != entity.ReasonWin {
				return &setupEnded{result: result}
			}

			return nil
		})
	}

	err := group.Wait()

	var ended *setupEnded
	if errors.As(err, &ended) {
		return ended.result, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to set up fleets: %w", err)
	}

	return nil, nil
}

// Runner drives the setup phase and then the firing phase.
type Runner struct {
	game   *Game
	random bool
}

func NewRunner(game *Game, random bool) *Runner {
	return &Runner{game: game, random: random}
}

func (that *Runner) Run(ctx context.Context, io session.IO, opts session.Options) (*entity.TerminalResult, error) {
	result, err := that.game.Setup(ctx, io, opts, that.random)
	if err != nil || result != nil {
		return result, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	io.Input = &firingInputs{inner: io.Input, notify: io.Notify, since: now()}

	return session.Run[Coord](ctx, that.game, io, opts)
}

// firingInputs drops inputs received before the firing phase began. Those
// were sent on the public channel during setup and are never shots.
type firingInputs struct {
	inner  session.InputSource
	notify session.Notifier
	since  time.Time
}

func (that *firingInputs) NextInput(ctx context.Context, req session.Request) (session.Input, error) {
	for {
		in, err := that.inner.NextInput(ctx, req)
		if err != nil {
			return in, err
		}

		if in.ReceivedAt.IsZero() || !in.ReceivedAt.Before(that.since) {
			return in, nil
		}

		if that.notify != nil {
			_ = that.notify.Notify(ctx, in.PlayerID, msgSetupInputDropped)
		}
	}
}

func (that *Runner) Snapshot() any {
	return that.game.Snapshot()
}
