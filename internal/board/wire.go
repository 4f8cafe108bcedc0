package board

import (
	"encoding/json"
	"fmt"
)

// tileWire is the externally-tagged JSON shape of a Tile, tagged on
// the "type" field per the agent wire protocol.
type tileWire struct {
	Type   Kind      `json:"type"`
	Owner  *PlayerID `json:"owner,omitempty"`
	Units  *int      `json:"units,omitempty"`
}

// MarshalJSON renders t in the externally-tagged wire shape agents
// and spectators expect.
func (t Tile) MarshalJSON() ([]byte, error) {
	w := tileWire{Type: t.kind}
	if owner, ok := t.Owner(); ok {
		w.Owner = &owner
	}
	switch t.kind {
	case KindEmpty, KindMountain:
		// no units field on the wire
	default:
		units := t.garrison
		w.Units = &units
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the externally-tagged wire shape back into a Tile.
func (t *Tile) UnmarshalJSON(data []byte) error {
	var w tileWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case KindEmpty:
		*t = Empty()
	case KindMountain:
		*t = Mountain()
	case KindNeutralTown:
		if w.Units == nil {
			return fmt.Errorf("board: NeutralTown tile missing units")
		}
		*t = NeutralTown(*w.Units)
	case KindPlayerEmpty:
		if w.Owner == nil || w.Units == nil {
			return fmt.Errorf("board: PlayerEmpty tile missing owner/units")
		}
		*t = PlayerEmpty(*w.Owner, *w.Units)
	case KindPlayerTown:
		if w.Owner == nil || w.Units == nil {
			return fmt.Errorf("board: PlayerTown tile missing owner/units")
		}
		*t = PlayerTown(*w.Owner, *w.Units)
	case KindPlayerCapital:
		if w.Owner == nil || w.Units == nil {
			return fmt.Errorf("board: PlayerCapital tile missing owner/units")
		}
		*t = PlayerCapital(*w.Owner, *w.Units)
	default:
		return fmt.Errorf("board: unknown tile type %q", w.Type)
	}
	return nil
}

// Spaces is the wire representation of a board: a column-major
// Size x Size array, spaces[x][y], matching the Rust original's fixed
// array layout.
type Spaces [Size][Size]Tile

// ToSpaces converts a Grid to its wire representation.
func (g *Grid) ToSpaces() Spaces {
	return Spaces(g.tiles)
}

// GridFromSpaces builds a Grid from a wire Spaces value.
func GridFromSpaces(s Spaces) *Grid {
	return &Grid{tiles: [Size][Size]Tile(s)}
}

// TurnRequest is the body the referee POSTs to an agent each tick.
type TurnRequest struct {
	Turn   uint64   `json:"turn"`
	Player PlayerID `json:"player"`
	Spaces Spaces   `json:"spaces"`
}

// MoveWire is the coordinate pair an agent returns, or null to pass.
type MoveWire struct {
	From Coordinate `json:"from"`
	To   Coordinate `json:"to"`
}

// StateWire is the JSON frame pushed to spectators: one per turn per
// subscriber, never read back by the server.
type StateWire struct {
	Spaces Spaces `json:"spaces"`
	Turn   uint64 `json:"turn"`
}

// ToWire renders a Snapshot in the spectator wire format.
func (s Snapshot) ToWire() StateWire {
	return StateWire{Spaces: s.Grid.ToSpaces(), Turn: s.Turn}
}
