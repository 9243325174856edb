package battleship

import (
	"fmt"
	"math/rand/v2"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
	"github.com/rocketscienceinc/chatgames-backend/internal/entity"
	"github.com/rocketscienceinc/chatgames-backend/internal/session"
)

const defaultLogSize = 5

// Captain is one seat: the participant, their board and their battle log.
type Captain struct {
	ID    string
	Board *Board
	log   []string
}

func (that *Captain) record(line string, limit int) {
	that.log = append(that.log, line)
	if len(that.log) > limit {
		that.log = that.log[len(that.log)-limit:]
	}
}

// Game is the firing phase. Ships must be placed before the first shot.
type Game struct {
	captains map[string]*Captain
	turns    *session.Turns
	logSize  int
	rng      *rand.Rand
	notices  []session.Notice
	result   *entity.TerminalResult
}

func New(player1, player2 string, rng *rand.Rand) *Game {
	return &Game{
		captains: map[string]*Captain{
			player1: {ID: player1, Board: &Board{}},
			player2: {ID: player2, Board: &Board{}},
		},
		turns:   session.NewTurns(player1, player2),
		logSize: defaultLogSize,
		rng:     rng,
	}
}

func (that *Game) Captain(id string) *Captain {
	return that.captains[id]
}

func (that *Game) opponentOf(id string) *Captain {
	return that.captains[that.turns.Opponent(id)]
}

func (that *Game) Players() []string  { return that.turns.Order() }
func (that *Game) Eligible() []string { return []string{that.turns.Current()} }

func (that *Game) Parse(in session.Input) (Coord, error) {
	return ParseCoord(in.Value)
}

func (that *Game) Check(playerID string, coord Coord) error {
	if that.captains[playerID].Board.Fired(coord) {
		return apperror.Reject(ErrAlreadyShot, "you've attacked this coordinate before")
	}

	return nil
}

func (that *Game) Apply(playerID string, coord Coord) error {
	shooter, target := that.captains[playerID], that.opponentOf(playerID)
	if !shooter.Board.Complete() || !target.Board.Complete() {
		return fmt.Errorf("%w: fleets are not placed", apperror.ErrGameIsNotStarted)
	}

	sunk, hit, ship := Fire(shooter.Board, target.Board, coord)

	var mine, theirs string
	switch {
	case sunk:
		mine = fmt.Sprintf("+ %s was a hit, you also sank their %s!", coord, ship.Name)
		theirs = fmt.Sprintf("- they went for %s and it was a hit, your %s got sunk", coord, ship.Name)
	case hit:
		mine = fmt.Sprintf("+ %s was a hit", coord)
		theirs = fmt.Sprintf("- they went for %s and it was a hit", coord)
	default:
		mine = fmt.Sprintf("- %s was a miss", coord)
		theirs = fmt.Sprintf("+ they went for %s and it was a miss", coord)
	}

	shooter.record(mine, that.logSize)
	target.record(theirs, that.logSize)
	that.notices = append(that.notices,
		session.Notice{PlayerID: shooter.ID, Message: mine},
		session.Notice{PlayerID: target.ID, Message: theirs},
	)

	that.turns.Advance()

	if target.Board.Defeated() {
		that.result = entity.Win(shooter.ID)
		that.notices = append(that.notices,
			session.Notice{PlayerID: shooter.ID, Message: "congrats, you won!"},
			session.Notice{PlayerID: target.ID, Message: "you lost, better luck next time"},
		)
	}

	return nil
}

func (that *Game) Announcements() []session.Notice {
	out := that.notices
	that.notices = nil

	return out
}

func (that *Game) Result() *entity.TerminalResult { return that.result }

// Winner follows the board state alone: a defeated fleet loses.
func (that *Game) Winner() string {
	for _, id := range that.turns.Order() {
		if that.captains[id].Board.Defeated() {
			return that.turns.Opponent(id)
		}
	}

	return ""
}

// TargetView is what a player knows about the opponent's waters.
type TargetView struct {
	Hits   []Coord  `json:"hits"`
	Misses []Coord  `json:"misses"`
	Sunk   []string `json:"sunk"`
}

// View is one captain's private picture of the battle.
type View struct {
	Turn   string     `json:"turn"`
	Own    Board      `json:"own"`
	Target TargetView `json:"target"`
	Log    []string   `json:"log"`
}

// State only exposes the turn publicly; fleets travel through ViewFor.
type State struct {
	Turn  string          `json:"turn"`
	views map[string]View
}

func (that State) ViewFor(playerID string) any {
	if view, ok := that.views[playerID]; ok {
		return view
	}

	return struct {
		Turn string `json:"turn"`
	}{Turn: that.Turn}
}

func (that *Game) Snapshot() any {
	state := State{Turn: that.turns.Current(), views: make(map[string]View, len(that.captains))}

	for id, captain := range that.captains {
		opponent := that.opponentOf(id)

		var sunk []string
		for _, ship := range opponent.Board.Ships {
			if ship.Sunk() {
				sunk = append(sunk, ship.Name)
			}
		}

		state.views[id] = View{
			Turn: state.Turn,
			Own:  copyBoard(captain.Board),
			Target: TargetView{
				Hits:   append([]Coord(nil), captain.Board.MyHits...),
				Misses: append([]Coord(nil), captain.Board.MyMisses...),
				Sunk:   sunk,
			},
			Log: append([]string(nil), captain.log...),
		}
	}

	return state
}

func copyBoard(board *Board) Board {
	out := Board{
		Ships:    make([]*Ship, 0, len(board.Ships)),
		MyHits:   append([]Coord(nil), board.MyHits...),
		MyMisses: append([]Coord(nil), board.MyMisses...),
		OpHits:   append([]Coord(nil), board.OpHits...),
		OpMisses: append([]Coord(nil), board.OpMisses...),
	}

	for _, ship := range board.Ships {
		clone := *ship
		clone.Span = append([]Coord(nil), ship.Span...)
		clone.Hits = append([]bool(nil), ship.Hits...)
		out.Ships = append(out.Ships, &clone)
	}

	return out
}
