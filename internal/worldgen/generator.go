// Package worldgen builds the initial board for a game: it places
// capitals, neutral towns, and mountains while guaranteeing the
// passable region stays a single connected component.
package worldgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// Config holds the tunable constants of world generation. The zero
// value is not useful; use DefaultConfig.
type Config struct {
	NumTowns                 int
	NumMountains             int
	CapitalStartingUnits     int
	NeutralTownStartingUnits int

	// MaxPlacementAttempts bounds how many random coordinates a single
	// capital/town placement will try before giving up.
	MaxPlacementAttempts int

	// MaxMountainAttempts bounds the total number of mountain-placement
	// attempts (including reverted ones) across the whole run.
	// Generation is probabilistically unbounded without this cap.
	MaxMountainAttempts int
}

// DefaultConfig returns the constants from the reference rules:
// 10 towns, 100 mountains, capitals start with 5 units, neutral towns
// with 50.
func DefaultConfig() Config {
	return Config{
		NumTowns:                 10,
		NumMountains:             100,
		CapitalStartingUnits:     5,
		NeutralTownStartingUnits: 50,
		MaxPlacementAttempts:     board.Size * board.Size * 4,
		MaxMountainAttempts:      4000,
	}
}

// ErrGenerationInfeasible is returned when the mountain-placement retry
// budget is exhausted before NumMountains mountains could be placed
// without disconnecting the passable region. The caller may retry
// generation with a different seed.
var ErrGenerationInfeasible = errors.New("worldgen: generation infeasible within retry budget")

// Generate produces a board.Grid for numPlayers players: one capital
// each at a random Empty coordinate, cfg.NumTowns neutral towns, and
// cfg.NumMountains mountains placed so that every non-Mountain tile
// remains mutually reachable under four-neighborhood movement.
func Generate(rng *rand.Rand, numPlayers int, cfg Config) (*board.Grid, error) {
	if numPlayers < 1 {
		return nil, fmt.Errorf("worldgen: numPlayers must be >= 1, got %d", numPlayers)
	}

	grid := board.NewGrid()

	for p := 0; p < numPlayers; p++ {
		coord, ok := randomEmptyCoordinate(grid, rng, cfg.MaxPlacementAttempts)
		if !ok {
			return nil, fmt.Errorf("worldgen: could not place capital for player %d: %w", p, ErrGenerationInfeasible)
		}
		grid.Set(coord, board.PlayerCapital(board.PlayerID(p), cfg.CapitalStartingUnits))
	}

	for i := 0; i < cfg.NumTowns; i++ {
		coord, ok := randomEmptyCoordinate(grid, rng, cfg.MaxPlacementAttempts)
		if !ok {
			return nil, fmt.Errorf("worldgen: could not place neutral town %d: %w", i, ErrGenerationInfeasible)
		}
		grid.Set(coord, board.NeutralTown(cfg.NeutralTownStartingUnits))
	}

	placed := 0
	attempts := 0
	for placed < cfg.NumMountains {
		if attempts >= cfg.MaxMountainAttempts {
			return nil, fmt.Errorf("worldgen: placed %d/%d mountains in %d attempts: %w", placed, cfg.NumMountains, attempts, ErrGenerationInfeasible)
		}
		attempts++

		coord, ok := randomEmptyCoordinate(grid, rng, cfg.MaxPlacementAttempts)
		if !ok {
			return nil, fmt.Errorf("worldgen: no empty coordinate left for mountain %d: %w", placed, ErrGenerationInfeasible)
		}

		grid.Set(coord, board.Mountain())
		if stillConnected(grid) {
			placed++
		} else {
			grid.Set(coord, board.Empty())
		}
	}

	return grid, nil
}

// randomEmptyCoordinate tries up to maxAttempts random coordinates and
// returns the first Empty one found.
func randomEmptyCoordinate(grid *board.Grid, rng *rand.Rand, maxAttempts int) (board.Coordinate, bool) {
	for i := 0; i < maxAttempts; i++ {
		c := board.Coordinate{X: rng.Intn(board.Size), Y: rng.Intn(board.Size)}
		if grid.At(c).Kind() == board.KindEmpty {
			return c, true
		}
	}
	return board.Coordinate{}, false
}

// stillConnected reports whether every non-Mountain tile on grid is
// reachable from every other non-Mountain tile via four-neighborhood
// steps that never cross a Mountain. It flood-fills from an arbitrary
// non-Mountain seed and compares the visited count against the total
// non-Mountain tile count.
func stillConnected(grid *board.Grid) bool {
	var seed board.Coordinate
	seedFound := false
	total := 0

	grid.Each(func(c board.Coordinate, t board.Tile) {
		if t.IsMountain() {
			return
		}
		total++
		if !seedFound {
			seed = c
			seedFound = true
		}
	})

	if total == 0 {
		return true
	}

	visited := make(map[board.Coordinate]bool, total)
	queue := []board.Coordinate{seed}
	visited[seed] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range cur.Neighbors() {
			if visited[next] {
				continue
			}
			if grid.At(next).IsMountain() {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}

	return len(visited) == total
}
