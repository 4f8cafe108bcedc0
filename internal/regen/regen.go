// Package regen implements the unit-regeneration rule: the pure
// per-turn pass that grows garrisons by tile kind and turn parity.
package regen

import "github.com/jhaezhyr/generals-io-ai/internal/board"

// Apply grows garrisons in place on grid according to turn, the turn
// number being concluded (the value before the scheduler's
// post-regeneration increment). Capitals always gain one unit; towns
// gain one every even turn; player-owned empty land gains one every
// 25th turn. All other kinds are unchanged.
func Apply(grid *board.Grid, turn uint64) {
	townTurn := turn%2 == 0
	emptyTurn := turn%25 == 0

	grid.Each(func(c board.Coordinate, tile board.Tile) {
		switch tile.Kind() {
		case board.KindPlayerCapital:
			grid.Set(c, tile.WithGarrison(tile.Garrison()+1))
		case board.KindPlayerTown:
			if townTurn {
				grid.Set(c, tile.WithGarrison(tile.Garrison()+1))
			}
		case board.KindPlayerEmpty:
			if emptyTurn {
				grid.Set(c, tile.WithGarrison(tile.Garrison()+1))
			}
		}
	})
}
