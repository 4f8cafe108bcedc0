// Package board holds the world model: coordinates, the closed set of
// tile kinds, the fixed-shape board they live on, and the small value
// types (Move, GameState, Snapshot) that flow through the referee.
package board

import "fmt"

// Size is the fixed board dimension. Both axes run 0..Size-1.
const Size = 20

// PlayerID identifies a player across the wire protocol and the board.
type PlayerID uint64

// Coordinate is a position on the board. Equality and ordering are
// structural (plain struct comparison / field comparison).
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether c lies on the board.
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// Neighbors returns c's four-neighborhood, clipped to the board.
func (c Coordinate) Neighbors() []Coordinate {
	candidates := [4]Coordinate{
		{X: c.X - 1, Y: c.Y},
		{X: c.X + 1, Y: c.Y},
		{X: c.X, Y: c.Y - 1},
		{X: c.X, Y: c.Y + 1},
	}
	out := make([]Coordinate, 0, 4)
	for _, n := range candidates {
		if n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// IsAdjacent reports whether to is one of c's four-neighbors.
func (c Coordinate) IsAdjacent(to Coordinate) bool {
	dx := c.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return (dx == 1 && dy == 0) || (dx == 0 && dy == 1)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Kind is the tag of the closed TileKind variant. Every operation on a
// Tile must account for every Kind; there is no default case that
// silently treats an unrecognized kind as harmless.
type Kind string

const (
	KindEmpty         Kind = "Empty"
	KindMountain      Kind = "Mountain"
	KindNeutralTown   Kind = "NeutralTown"
	KindPlayerEmpty   Kind = "PlayerEmpty"
	KindPlayerTown    Kind = "PlayerTown"
	KindPlayerCapital Kind = "PlayerCapital"
)

// Tile is a single cell. Its fields are unexported: the only way to
// build or mutate one is through the constructors and methods below,
// which enforce the invariants that distinguish the six kinds — a
// Mountain never carries an owner or garrison, an Empty tile is never
// owned, and no owned kind ever drops below zero garrison.
type Tile struct {
	kind     Kind
	owner    PlayerID
	hasOwner bool
	garrison int
}

// Empty returns an unowned, traversable, zero-garrison tile.
func Empty() Tile { return Tile{kind: KindEmpty} }

// Mountain returns an impassable tile. It carries no owner and no
// garrison and cannot be mutated by WithGarrison or Conquer.
func Mountain() Tile { return Tile{kind: KindMountain} }

// NeutralTown returns an unowned, capturable town with the given garrison.
func NeutralTown(garrison int) Tile {
	return Tile{kind: KindNeutralTown, garrison: mustNonNegative(garrison)}
}

// PlayerEmpty returns open land owned by owner.
func PlayerEmpty(owner PlayerID, garrison int) Tile {
	return Tile{kind: KindPlayerEmpty, owner: owner, hasOwner: true, garrison: mustNonNegative(garrison)}
}

// PlayerTown returns a town owned by owner.
func PlayerTown(owner PlayerID, garrison int) Tile {
	return Tile{kind: KindPlayerTown, owner: owner, hasOwner: true, garrison: mustNonNegative(garrison)}
}

// PlayerCapital returns a capital owned by owner. Capitals should
// carry at least 1 garrison by convention, but this is not enforced
// here — the invariant lives in world generation and combat, not in
// the type.
func PlayerCapital(owner PlayerID, garrison int) Tile {
	return Tile{kind: KindPlayerCapital, owner: owner, hasOwner: true, garrison: mustNonNegative(garrison)}
}

func mustNonNegative(n int) int {
	if n < 0 {
		panic(fmt.Sprintf("board: negative garrison %d", n))
	}
	return n
}

// Kind reports the tile's variant tag.
func (t Tile) Kind() Kind { return t.kind }

// Owner returns the tile's owner, if any. Empty, Mountain, and
// NeutralTown always return (0, false).
func (t Tile) Owner() (PlayerID, bool) { return t.owner, t.hasOwner }

// Garrison returns the tile's unit count. Always 0 for Empty and Mountain.
func (t Tile) Garrison() int { return t.garrison }

// IsMountain reports whether the tile is impassable.
func (t Tile) IsMountain() bool { return t.kind == KindMountain }

// IsPassable reports whether an agent may move onto this tile kind.
// Mountains are the only impassable kind.
func (t Tile) IsPassable() bool { return t.kind != KindMountain }

// WithGarrison returns a copy of t with its garrison replaced. It
// panics on Empty and Mountain, which have no mutable garrison field —
// calling it there is a programmer error in the resolver, not a data
// condition to recover from.
func (t Tile) WithGarrison(garrison int) Tile {
	switch t.kind {
	case KindEmpty, KindMountain:
		panic(fmt.Sprintf("board: %s has no garrison to set", t.kind))
	}
	t.garrison = mustNonNegative(garrison)
	return t
}

// Conquer returns the tile that results from newOwner's army taking t
// with the given post-battle garrison, per the kind-mapping table in
// the combat rule: NeutralTown becomes PlayerTown; PlayerTown,
// PlayerCapital, and PlayerEmpty keep their kind under the new owner;
// Empty becomes PlayerEmpty. Mountain can never be a combat
// destination; calling Conquer on one is a resolver bug.
func Conquer(t Tile, newOwner PlayerID, garrison int) Tile {
	switch t.kind {
	case KindNeutralTown, KindPlayerTown:
		return PlayerTown(newOwner, garrison)
	case KindPlayerCapital:
		return PlayerCapital(newOwner, garrison)
	case KindPlayerEmpty, KindEmpty:
		return PlayerEmpty(newOwner, garrison)
	case KindMountain:
		panic("board: mountain cannot be a combat destination")
	default:
		panic(fmt.Sprintf("board: unknown tile kind %q", t.kind))
	}
}

// Move is a single player's proposed unit transfer for one turn.
// Created by the transport layer from a validated agent reply,
// consumed by the resolver in a single batch, never stored long-term.
type Move struct {
	Owner PlayerID
	From  Coordinate
	To    Coordinate
	Units int
}
