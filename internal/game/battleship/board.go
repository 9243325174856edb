package battleship

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/chatgames-backend/internal/apperror"
)

const (
	BoardSize = 10

	// DefaultPlacementAttempts bounds random placement per ship.
	DefaultPlacementAttempts = 1000
)

var (
	ErrInvalidCoord = errors.New("invalid coordinate")
	ErrOutOfBounds  = errors.New("ship does not fit on the board")
	ErrOverlap      = errors.New("ship overlaps another ship")
	ErrAlreadyShot  = errors.New("coordinate already attacked")
	ErrFleetPlaced  = errors.New("every ship is already placed")

	coordPattern = regexp.MustCompile(`^([a-j])(10|[1-9])$`)
)

// Coord is a 1-based cell: X is the column letter a..j, Y the row 1..10.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Coord) String() string {
	return string(rune('a'+that.X-1)) + strconv.Itoa(that.Y)
}

// ParseCoord accepts inputs like "a1" or " J 10 ", case-insensitively.
func ParseCoord(raw string) (Coord, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), ""))

	match := coordPattern.FindStringSubmatch(normalized)
	if match == nil {
		return Coord{}, apperror.Rejectf(ErrInvalidCoord, "%q is not a valid coordinate", strings.TrimSpace(raw))
	}

	y, _ := strconv.Atoi(match[2])

	return Coord{X: int(match[1][0]-'a') + 1, Y: y}, nil
}

// ShipSpec names a ship class and its length.
type ShipSpec struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Fleet is placed in this order by both players.
var Fleet = []ShipSpec{
	{Name: "carrier", Size: 5},
	{Name: "battleship", Size: 4},
	{Name: "destroyer", Size: 3},
	{Name: "submarine", Size: 3},
	{Name: "patrol boat", Size: 2},
}

type Ship struct {
	Name     string  `json:"name"`
	Size     int     `json:"size"`
	Start    Coord   `json:"start"`
	Vertical bool    `json:"vertical"`
	Span     []Coord `json:"span"`
	Hits     []bool  `json:"hits"`
}

// NewShip lays a ship out from start to the right, or downwards if vertical.
func NewShip(spec ShipSpec, start Coord, vertical bool) *Ship {
	span := make([]Coord, spec.Size)
	for i := range span {
		if vertical {
			span[i] = Coord{X: start.X, Y: start.Y + i}
		} else {
			span[i] = Coord{X: start.X + i, Y: start.Y}
		}
	}

	return &Ship{
		Name:     spec.Name,
		Size:     spec.Size,
		Start:    start,
		Vertical: vertical,
		Span:     span,
		Hits:     make([]bool, spec.Size),
	}
}

func (that *Ship) End() Coord {
	return that.Span[len(that.Span)-1]
}

func (that *Ship) Sunk() bool {
	return !slices.Contains(that.Hits, false)
}

// Board is one player's fleet plus the shots exchanged with the opponent.
// My* are shots this player fired, Op* are shots received.
type Board struct {
	Ships    []*Ship `json:"ships"`
	MyHits   []Coord `json:"my_hits"`
	MyMisses []Coord `json:"my_misses"`
	OpHits   []Coord `json:"op_hits"`
	OpMisses []Coord `json:"op_misses"`
}

// Valid checks bounds and overlap with every ship already placed.
func (that *Board) Valid(ship *Ship) error {
	start, end := ship.Start, ship.End()
	if start.X < 1 || start.Y < 1 || end.X > BoardSize || end.Y > BoardSize {
		return ErrOutOfBounds
	}

	for _, existing := range that.Ships {
		for _, coord := range ship.Span {
			if slices.Contains(existing.Span, coord) {
				return fmt.Errorf("%w: %s at %s", ErrOverlap, existing.Name, coord)
			}
		}
	}

	return nil
}

func (that *Board) Place(ship *Ship) error {
	if that.Complete() {
		return ErrFleetPlaced
	}

	if err := that.Valid(ship); err != nil {
		return err
	}

	that.Ships = append(that.Ships, ship)

	return nil
}

// NextShip is the next fleet entry to place, false once the fleet is complete.
func (that *Board) NextShip() (ShipSpec, bool) {
	if that.Complete() {
		return ShipSpec{}, false
	}

	return Fleet[len(that.Ships)], true
}

func (that *Board) Complete() bool {
	return len(that.Ships) >= len(Fleet)
}

// PlaceRandom fills the rest of the fleet. Each ship gets at most attempts
// random candidates before placement fails.
func (that *Board) PlaceRandom(rng *rand.Rand, attempts int) error {
	for {
		spec, ok := that.NextShip()
		if !ok {
			return nil
		}

		placed := false
		for range attempts {
			start := Coord{X: rng.IntN(BoardSize) + 1, Y: rng.IntN(BoardSize) + 1}
			if err := that.Place(NewShip(spec, start, rng.IntN(2) == 1)); err == nil {
				placed = true
				break
			}
		}

		if !placed {
			return fmt.Errorf("%w: %s after %d attempts", apperror.ErrPlacementFailed, spec.Name, attempts)
		}
	}
}

// Shots lists every coordinate this player already fired at.
func (that *Board) Shots() []Coord {
	return append(slices.Clone(that.MyHits), that.MyMisses...)
}

func (that *Board) Fired(coord Coord) bool {
	return slices.Contains(that.MyHits, coord) || slices.Contains(that.MyMisses, coord)
}

// ShipAt returns the ship covering coord and the segment index.
func (that *Board) ShipAt(coord Coord) (*Ship, int) {
	for _, ship := range that.Ships {
		if i := slices.Index(ship.Span, coord); i >= 0 {
			return ship, i
		}
	}

	return nil, -1
}

// Defeated is true once every ship of a complete fleet is sunk.
func (that *Board) Defeated() bool {
	if len(that.Ships) == 0 {
		return false
	}

	for _, ship := range that.Ships {
		if !ship.Sunk() {
			return false
		}
	}

	return true
}

// Fire scores a shot from shooter at target and records it on both boards.
func Fire(shooter, target *Board, coord Coord) (sunk, hit bool, ship *Ship) {
	ship, segment := target.ShipAt(coord)
	if ship == nil {
		shooter.MyMisses = append(shooter.MyMisses, coord)
		target.OpMisses = append(target.OpMisses, coord)

		return false, false, nil
	}

	ship.Hits[segment] = true
	shooter.MyHits = append(shooter.MyHits, coord)
	target.OpHits = append(target.OpHits, coord)

	return ship.Sunk(), true, ship
}
