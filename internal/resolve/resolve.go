// Package resolve implements the move-resolution algebra: the pure,
// deterministic function that composes a batch of accepted moves into
// the next board state. It is the only place combat, swaps, and
// reinforcement are decided.
package resolve

import (
	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// moveState is the resolver's working copy of a Move: same fields,
// but Units shrinks as phases consume it.
type moveState struct {
	owner board.PlayerID
	from  board.Coordinate
	to    board.Coordinate
	units int
}

// Resolve applies the four-phase algebra to grid given the moves
// accepted for this turn, and returns the resulting board. It does
// not mutate grid; the caller keeps its own copy valid.
//
// Resolve assumes moves have already been pre-validated by the
// scheduler: in bounds, owned by their claimed mover at from, from and
// to are not Mountain, and units equals the live garrison at from when
// the move was submitted. Resolve panics if it is handed a move whose
// source is a Mountain or whose destination would require conjuring a
// Mountain out of combat — those are invariant violations upstream,
// not data conditions this package recovers from.
func Resolve(grid *board.Grid, moves []board.Move) *board.Grid {
	result := grid.Clone()

	states := make([]*moveState, len(moves))
	for i, m := range moves {
		if result.At(m.From).IsMountain() {
			panic("resolve: move source is a Mountain tile")
		}
		states[i] = &moveState{owner: m.Owner, from: m.From, to: m.To, units: m.Units}
	}

	evacuateSources(result, states)
	states = cancelHeadOnSwaps(states)
	states = applyFriendlyMerges(result, states)
	applyCombat(result, states)

	return result
}

// evacuateSources is Phase A: zero every accepted move's source
// garrison, freezing the units available to each move at tick start.
func evacuateSources(g *board.Grid, states []*moveState) {
	for _, m := range states {
		g.Set(m.from, g.At(m.from).WithGarrison(0))
	}
}

// cancelHeadOnSwaps is Phase B: for every pair of moves that swap the
// same two tiles, subtract their shared minimum from both and drop
// whichever end reaches zero. Each move's From tile is owned by at
// most one player, so From coordinates are unique across the batch and
// every move participates in at most one swap pair.
func cancelHeadOnSwaps(states []*moveState) []*moveState {
	byFrom := make(map[board.Coordinate]int, len(states))
	for i, m := range states {
		byFrom[m.from] = i
	}

	for i, m := range states {
		j, ok := byFrom[m.to]
		if !ok || j <= i {
			continue
		}
		other := states[j]
		if other.to != m.from {
			continue
		}
		k := min(m.units, other.units)
		m.units -= k
		other.units -= k
	}

	return dropZero(states)
}

// applyFriendlyMerges is Phase C: a move into a tile already owned by
// its mover reinforces that tile instead of fighting over it.
func applyFriendlyMerges(g *board.Grid, states []*moveState) []*moveState {
	survivors := states[:0:0]
	for _, m := range states {
		if owner, ok := g.At(m.to).Owner(); ok && owner == m.owner {
			g.Set(m.to, g.At(m.to).WithGarrison(g.At(m.to).Garrison()+m.units))
			continue
		}
		survivors = append(survivors, m)
	}
	return survivors
}

// applyCombat is Phase D: group surviving moves by destination and
// resolve each as an independent multi-party battle.
func applyCombat(g *board.Grid, states []*moveState) {
	byDest := make(map[board.Coordinate][]*moveState)
	for _, m := range states {
		byDest[m.to] = append(byDest[m.to], m)
	}

	for dest, attackers := range byDest {
		survivor := eliminateWeakestUntilOne(attackers)
		if survivor == nil {
			continue
		}
		resolveSingleAttacker(g, dest, survivor.owner, survivor.units)
	}
}

// eliminateWeakestUntilOne repeatedly subtracts the weakest attacker's
// remaining units from every attacker and drops attackers that reach
// zero, until at most one remains.
func eliminateWeakestUntilOne(attackers []*moveState) *moveState {
	alive := append([]*moveState(nil), attackers...)
	for len(alive) > 1 {
		weakest := alive[0].units
		for _, a := range alive[1:] {
			if a.units < weakest {
				weakest = a.units
			}
		}
		next := alive[:0]
		for _, a := range alive {
			a.units -= weakest
			if a.units > 0 {
				next = append(next, a)
			}
		}
		alive = next
	}
	if len(alive) == 0 {
		return nil
	}
	return alive[0]
}

// resolveSingleAttacker applies the single surviving attacker's units
// against the live garrison at dest. def+1 is the defender's bonus
// margin: the attacker must strictly exceed it to flip ownership.
func resolveSingleAttacker(g *board.Grid, dest board.Coordinate, attacker board.PlayerID, units int) {
	tile := g.At(dest)
	def := tile.Garrison()

	if units > def+1 {
		g.Set(dest, board.Conquer(tile, attacker, units-(def+1)))
		return
	}

	if tile.Kind() == board.KindEmpty {
		// def is always 0 here and max(0, 0-units) is 0: no-op.
		return
	}
	remaining := def - units
	if remaining < 0 {
		remaining = 0
	}
	g.Set(dest, tile.WithGarrison(remaining))
}

func dropZero(states []*moveState) []*moveState {
	out := states[:0]
	for _, m := range states {
		if m.units > 0 {
			out = append(out, m)
		}
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
