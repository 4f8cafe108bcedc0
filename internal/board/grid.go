package board

// Grid is the fixed 20x20 board of tiles. It is constructed once per
// game by the world generator and mutated only by the resolver and the
// regeneration rule under the scheduler's single-writer discipline.
type Grid struct {
	tiles [Size][Size]Tile
}

// NewGrid returns a Size x Size grid of Empty tiles.
func NewGrid() *Grid {
	g := &Grid{}
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			g.tiles[x][y] = Empty()
		}
	}
	return g
}

// At returns the tile at c. Panics on out-of-bounds coordinates — the
// scheduler validates bounds before any Grid access.
func (g *Grid) At(c Coordinate) Tile {
	return g.tiles[c.X][c.Y]
}

// Set replaces the tile at c.
func (g *Grid) Set(c Coordinate, t Tile) {
	g.tiles[c.X][c.Y] = t
}

// Clone returns a deep copy safe to hand to a new Grid owner (Tile is
// a value type, so copying the backing array suffices).
func (g *Grid) Clone() *Grid {
	clone := *g
	return &clone
}

// Each calls fn for every coordinate on the board in column-major
// order (x outer, y inner), the same layout as Spaces.
func (g *Grid) Each(fn func(Coordinate, Tile)) {
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			fn(Coordinate{X: x, Y: y}, g.tiles[x][y])
		}
	}
}

// GameState is the referee's authoritative, mutable world: the board
// plus the monotonic turn counter. Exclusively owned by the scheduler;
// never shared across goroutines. Snapshot produces the immutable copy
// that is safe to fan out.
type GameState struct {
	Grid *Grid
	Turn uint64
}

// NewGameState wraps grid at turn 0.
func NewGameState(grid *Grid) *GameState {
	return &GameState{Grid: grid, Turn: 0}
}

// Snapshot is an immutable structural copy of a GameState, published
// after each resolved turn. Its ownership fans out to every active
// spectator subscriber; no subscriber can mutate another's view.
type Snapshot struct {
	Grid *Grid
	Turn uint64
}

// Snapshot copies the current state. The returned Snapshot shares no
// mutable state with gs: callers must not mutate gs.Grid concurrently
// with readers of the returned value, which GameState.Grid.Clone
// guarantees by copying the backing array.
func (gs *GameState) Snapshot() Snapshot {
	return Snapshot{Grid: gs.Grid.Clone(), Turn: gs.Turn}
}
