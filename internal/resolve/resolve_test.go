package resolve

import (
	"math/rand"
	"testing"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

func tileGarrison(t *testing.T, g *board.Grid, c board.Coordinate) int {
	t.Helper()
	return g.At(c).Garrison()
}

func TestLoneReinforcement(t *testing.T) {
	g := board.NewGrid()
	from := board.Coordinate{X: 0, Y: 0}
	to := board.Coordinate{X: 0, Y: 1}
	g.Set(from, board.PlayerEmpty(0, 5))
	g.Set(to, board.PlayerEmpty(0, 3))

	out := Resolve(g, []board.Move{{Owner: 0, From: from, To: to, Units: 5}})

	if got := tileGarrison(t, out, from); got != 0 {
		t.Errorf("source garrison = %d, want 0", got)
	}
	if got := tileGarrison(t, out, to); got != 8 {
		t.Errorf("dest garrison = %d, want 8", got)
	}
	if owner, _ := out.At(to).Owner(); owner != 0 {
		t.Errorf("dest owner = %d, want 0", owner)
	}
}

func TestHeadOnSwapEqual(t *testing.T) {
	g := board.NewGrid()
	a := board.Coordinate{X: 0, Y: 0}
	b := board.Coordinate{X: 0, Y: 1}
	g.Set(a, board.PlayerEmpty(0, 4))
	g.Set(b, board.PlayerEmpty(1, 4))

	out := Resolve(g, []board.Move{
		{Owner: 0, From: a, To: b, Units: 4},
		{Owner: 1, From: b, To: a, Units: 4},
	})

	if got := tileGarrison(t, out, a); got != 0 {
		t.Errorf("tile a garrison = %d, want 0", got)
	}
	if got := tileGarrison(t, out, b); got != 0 {
		t.Errorf("tile b garrison = %d, want 0", got)
	}
	if owner, _ := out.At(a).Owner(); owner != 0 {
		t.Errorf("tile a owner changed to %d", owner)
	}
	if owner, _ := out.At(b).Owner(); owner != 1 {
		t.Errorf("tile b owner changed to %d", owner)
	}
}

func TestHeadOnSwapUnequal(t *testing.T) {
	g := board.NewGrid()
	a := board.Coordinate{X: 0, Y: 0}
	b := board.Coordinate{X: 0, Y: 1}
	g.Set(a, board.PlayerEmpty(0, 5))
	g.Set(b, board.PlayerEmpty(1, 3))

	out := Resolve(g, []board.Move{
		{Owner: 0, From: a, To: b, Units: 5},
		{Owner: 1, From: b, To: a, Units: 3},
	})

	// Phase B cancels 3 from each: owner 0 has 2 left heading into b (def=0 after evacuation).
	// 2 > 0+1 -> attacker wins, b becomes PlayerEmpty(0, 1).
	if got := out.At(b).Kind(); got != board.KindPlayerEmpty {
		t.Fatalf("tile b kind = %v, want PlayerEmpty", got)
	}
	if owner, _ := out.At(b).Owner(); owner != 0 {
		t.Errorf("tile b owner = %d, want 0", owner)
	}
	if got := tileGarrison(t, out, b); got != 1 {
		t.Errorf("tile b garrison = %d, want 1", got)
	}
	if got := tileGarrison(t, out, a); got != 0 {
		t.Errorf("tile a garrison = %d, want 0", got)
	}
}

func TestThreeWayAttack(t *testing.T) {
	g := board.NewGrid()
	dest := board.Coordinate{X: 5, Y: 5}
	g.Set(dest, board.NeutralTown(2))

	froms := []board.Coordinate{{X: 4, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 4}}
	g.Set(froms[0], board.PlayerEmpty(0, 7))
	g.Set(froms[1], board.PlayerEmpty(1, 4))
	g.Set(froms[2], board.PlayerEmpty(2, 5))

	out := Resolve(g, []board.Move{
		{Owner: 0, From: froms[0], To: dest, Units: 7},
		{Owner: 1, From: froms[1], To: dest, Units: 4},
		{Owner: 2, From: froms[2], To: dest, Units: 5},
	})

	if out.At(dest).Kind() != board.KindNeutralTown {
		t.Fatalf("dest kind = %v, want NeutralTown (defender wins)", out.At(dest).Kind())
	}
	if got := tileGarrison(t, out, dest); got != 0 {
		t.Errorf("dest garrison = %d, want 0", got)
	}
}

func TestCaptureCapital(t *testing.T) {
	g := board.NewGrid()
	dest := board.Coordinate{X: 3, Y: 3}
	from := board.Coordinate{X: 3, Y: 2}
	g.Set(dest, board.PlayerCapital(1, 3))
	g.Set(from, board.PlayerEmpty(0, 7))

	out := Resolve(g, []board.Move{{Owner: 0, From: from, To: dest, Units: 7}})

	if out.At(dest).Kind() != board.KindPlayerCapital {
		t.Fatalf("dest kind = %v, want PlayerCapital", out.At(dest).Kind())
	}
	owner, _ := out.At(dest).Owner()
	if owner != 0 {
		t.Errorf("dest owner = %d, want 0", owner)
	}
	if got := tileGarrison(t, out, dest); got != 3 {
		t.Errorf("dest garrison = %d, want 3", got)
	}
}

func TestDefenderBonusBoundary(t *testing.T) {
	g := board.NewGrid()
	dest := board.Coordinate{X: 1, Y: 1}
	from := board.Coordinate{X: 1, Y: 0}
	g.Set(dest, board.PlayerTown(1, 4)) // def = 4, attacker needs > 5 to win
	g.Set(from, board.PlayerEmpty(0, 5))

	out := Resolve(g, []board.Move{{Owner: 0, From: from, To: dest, Units: 5}})

	owner, _ := out.At(dest).Owner()
	if owner != 1 {
		t.Errorf("ownership should not flip at exact margin, got owner %d", owner)
	}
	if got := tileGarrison(t, out, dest); got != 0 {
		t.Errorf("dest garrison = %d, want 0 (saturated)", got)
	}
}

func TestConservationUnderFriendlyMerge(t *testing.T) {
	g := board.NewGrid()
	a := board.Coordinate{X: 0, Y: 0}
	b := board.Coordinate{X: 1, Y: 0}
	c := board.Coordinate{X: 2, Y: 0}
	g.Set(a, board.PlayerEmpty(0, 5))
	g.Set(b, board.PlayerEmpty(0, 2))
	g.Set(c, board.PlayerTown(0, 1))

	before := totalGarrison(g)
	out := Resolve(g, []board.Move{
		{Owner: 0, From: a, To: b, Units: 5},
		{Owner: 0, From: c, To: b, Units: 1},
	})
	after := totalGarrison(out)

	if before != after {
		t.Errorf("garrison total changed from %d to %d under friendly merges only", before, after)
	}
}

func TestResolveDeterministicUnderPermutation(t *testing.T) {
	dest := board.Coordinate{X: 5, Y: 5}
	froms := []board.Coordinate{{X: 4, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 4}, {X: 5, Y: 6}}
	owners := []board.PlayerID{0, 1, 2, 3}
	units := []int{7, 4, 5, 2}

	build := func() *board.Grid {
		g := board.NewGrid()
		g.Set(dest, board.NeutralTown(2))
		for i, f := range froms {
			g.Set(f, board.PlayerEmpty(owners[i], units[i]))
		}
		return g
	}

	moves := func() []board.Move {
		ms := make([]board.Move, len(froms))
		for i := range froms {
			ms[i] = board.Move{Owner: owners[i], From: froms[i], To: dest, Units: units[i]}
		}
		return ms
	}()

	base := Resolve(build(), moves)

	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		perm := rng.Perm(len(moves))
		shuffled := make([]board.Move, len(moves))
		for i, p := range perm {
			shuffled[i] = moves[p]
		}
		got := Resolve(build(), shuffled)

		base.Each(func(coord board.Coordinate, tile board.Tile) {
			other := got.At(coord)
			if tile.Kind() != other.Kind() || tile.Garrison() != other.Garrison() {
				t.Fatalf("trial %d: mismatch at %v: %v/%d vs %v/%d", trial, coord, tile.Kind(), tile.Garrison(), other.Kind(), other.Garrison())
			}
			if ownerA, okA := tile.Owner(); okA {
				ownerB, okB := other.Owner()
				if !okB || ownerA != ownerB {
					t.Fatalf("trial %d: owner mismatch at %v", trial, coord)
				}
			}
		})
	}
}

func TestSwapAttritionOwnershipFollowsWinner(t *testing.T) {
	// a=3 units owned by 0, b=5 units owned by 1; after cancelling 3 from
	// each, owner 1 has 2 surviving units heading into a (def=0).
	// 2 > 0+1 -> owner 1 takes tile a.
	g := board.NewGrid()
	a := board.Coordinate{X: 0, Y: 0}
	b := board.Coordinate{X: 0, Y: 1}
	g.Set(a, board.PlayerEmpty(0, 3))
	g.Set(b, board.PlayerEmpty(1, 5))

	out := Resolve(g, []board.Move{
		{Owner: 0, From: a, To: b, Units: 3},
		{Owner: 1, From: b, To: a, Units: 5},
	})

	if owner, _ := out.At(a).Owner(); owner != 1 {
		t.Errorf("tile a owner = %d, want 1 (surplus attacker)", owner)
	}
	if got := tileGarrison(t, out, a); got != 1 {
		t.Errorf("tile a garrison = %d, want 1", got)
	}
	if got := tileGarrison(t, out, b); got != 0 {
		t.Errorf("tile b garrison = %d, want 0", got)
	}
}

func totalGarrison(g *board.Grid) int {
	total := 0
	g.Each(func(_ board.Coordinate, tile board.Tile) {
		total += tile.Garrison()
	})
	return total
}
