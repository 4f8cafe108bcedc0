package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
	"github.com/jhaezhyr/generals-io-ai/internal/worldgen"
)

type fakeRequester struct {
	mu    sync.Mutex
	moves map[board.PlayerID]board.Move
}

func (f *fakeRequester) RequestMove(ctx context.Context, addr string, turn uint64, snapshot board.Snapshot, player board.PlayerID) (board.Move, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.moves[player]
	return m, ok
}

type fakePublisher struct {
	mu   sync.Mutex
	seen []board.Snapshot
}

func (f *fakePublisher) Publish(snap board.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, snap)
}

func (f *fakePublisher) last() (board.Snapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.seen) == 0 {
		return board.Snapshot{}, false
	}
	return f.seen[len(f.seen)-1], true
}

func newTestScheduler(t *testing.T, numAgents int) (*Scheduler, *fakeRequester, *fakePublisher) {
	t.Helper()
	agents := make([]Agent, numAgents)
	for i := range agents {
		agents[i] = Agent{Player: board.PlayerID(i), Addr: "unused"}
	}

	req := &fakeRequester{moves: make(map[board.PlayerID]board.Move)}
	pub := &fakePublisher{}

	cfg := Config{
		TickInterval: 10 * time.Millisecond,
		WorldGen:     worldgen.DefaultConfig(),
		Seed:         1,
	}
	s, err := New(cfg, agents, req, pub, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, req, pub
}

func TestRunTurnAdvancesTurnCounterAndPublishes(t *testing.T) {
	s, _, pub := newTestScheduler(t, 2)

	startTurn := s.CurrentSnapshot().Turn
	s.runTurn(context.Background())

	gotTurn := s.CurrentSnapshot().Turn
	if gotTurn != startTurn+1 {
		t.Errorf("turn = %d, want %d", gotTurn, startTurn+1)
	}
	snap, ok := pub.last()
	if !ok {
		t.Fatal("expected a published snapshot")
	}
	if snap.Turn != gotTurn {
		t.Errorf("published snapshot turn = %d, want %d", snap.Turn, gotTurn)
	}
}

func TestRunTurnContinuesWhenAnAgentPasses(t *testing.T) {
	s, req, pub := newTestScheduler(t, 2)
	// Neither agent submits a move: req.moves stays empty.
	_ = req

	beforeTurn := s.CurrentSnapshot().Turn
	s.runTurn(context.Background())

	afterTurn := s.CurrentSnapshot().Turn
	if afterTurn != beforeTurn+1 {
		t.Errorf("turn should advance even when every agent passes, got %d want %d", afterTurn, beforeTurn+1)
	}
	if _, ok := pub.last(); !ok {
		t.Error("expected a snapshot to be published even with no moves")
	}
}

func TestValidateMovesRejectsNonAdjacent(t *testing.T) {
	s, _, _ := newTestScheduler(t, 1)
	snapshot := s.CurrentSnapshot()

	var capitalCoord board.Coordinate
	snapshot.Grid.Each(func(c board.Coordinate, tile board.Tile) {
		if tile.Kind() == board.KindPlayerCapital {
			capitalCoord = c
		}
	})

	farAway := board.Coordinate{X: (capitalCoord.X + 5) % board.Size, Y: capitalCoord.Y}
	bogus := board.Move{Owner: 0, From: capitalCoord, To: farAway, Units: 1}

	accepted := s.validateMoves(snapshot, []board.Move{bogus})
	if len(accepted) != 0 {
		t.Errorf("expected non-adjacent move to be rejected, got %d accepted", len(accepted))
	}
}

func TestValidateMovesRejectsWrongOwner(t *testing.T) {
	s, _, _ := newTestScheduler(t, 2)
	snapshot := s.CurrentSnapshot()

	var capitalCoord board.Coordinate
	var capitalOwner board.PlayerID
	snapshot.Grid.Each(func(c board.Coordinate, tile board.Tile) {
		if tile.Kind() == board.KindPlayerCapital {
			owner, _ := tile.Owner()
			if owner == 0 {
				capitalCoord = c
				capitalOwner = owner
			}
		}
	})

	neighbor := capitalCoord.Neighbors()[0]
	impostor := capitalOwner + 1
	bogus := board.Move{Owner: impostor, From: capitalCoord, To: neighbor, Units: 1}

	accepted := s.validateMoves(snapshot, []board.Move{bogus})
	if len(accepted) != 0 {
		t.Errorf("expected wrong-owner move to be rejected, got %d accepted", len(accepted))
	}
}

func TestGatherMovesWaitsForAllAgents(t *testing.T) {
	s, req, _ := newTestScheduler(t, 3)
	snapshot := s.CurrentSnapshot()

	var capitals [3]board.Coordinate
	snapshot.Grid.Each(func(c board.Coordinate, tile board.Tile) {
		if tile.Kind() == board.KindPlayerCapital {
			owner, _ := tile.Owner()
			capitals[owner] = c
		}
	})

	req.mu.Lock()
	for p := board.PlayerID(0); p < 3; p++ {
		req.moves[p] = board.Move{Owner: p, From: capitals[p], To: capitals[p].Neighbors()[0], Units: 1}
	}
	req.mu.Unlock()

	moves := s.gatherMoves(context.Background(), snapshot, snapshot.Turn)
	if len(moves) != 3 {
		t.Fatalf("expected 3 moves, got %d", len(moves))
	}
}
