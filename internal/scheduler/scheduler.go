// Package scheduler owns the referee's turn loop: gather moves from
// every agent concurrently, validate them against the live board,
// resolve, regenerate, advance the turn counter, publish a snapshot,
// and pace to the tick interval. It is the single writer of
// GameState.
package scheduler

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
	"github.com/jhaezhyr/generals-io-ai/internal/regen"
	"github.com/jhaezhyr/generals-io-ai/internal/resolve"
	"github.com/jhaezhyr/generals-io-ai/internal/worldgen"
)

// AgentRequester is the transport boundary the scheduler polls each
// turn; *transport.Client satisfies it.
type AgentRequester interface {
	RequestMove(ctx context.Context, addr string, turn uint64, snapshot board.Snapshot, player board.PlayerID) (board.Move, bool)
}

// Publisher receives the post-turn snapshot; *fanout.Hub satisfies it.
type Publisher interface {
	Publish(snap board.Snapshot)
}

// TurnRecorder is notified after every resolved turn for optional
// persistence; implementations must not block the loop for long.
type TurnRecorder interface {
	Append(ctx context.Context, snap board.Snapshot) error
}

// Agent is one player's network address.
type Agent struct {
	Player board.PlayerID
	Addr   string
}

// Config holds the scheduler's tunables, distinct from world
// generation's own Config.
type Config struct {
	TickInterval time.Duration
	WorldGen     worldgen.Config
	Seed         int64
}

// Scheduler runs the turn loop against one game.
type Scheduler struct {
	cfg       Config
	agents    []Agent
	requester AgentRequester
	publisher Publisher
	recorder  TurnRecorder

	mu    sync.RWMutex
	state *board.GameState
}

// CurrentSnapshot returns a copy of the latest resolved state. Safe
// to call concurrently with Run, e.g. from an HTTP handler.
func (s *Scheduler) CurrentSnapshot() board.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Snapshot()
}

// New builds a Scheduler and generates the initial board for the
// given agents. It returns worldgen.ErrGenerationInfeasible if the
// retry budget is exhausted; the caller may retry with a different
// seed.
func New(cfg Config, agents []Agent, requester AgentRequester, publisher Publisher, recorder TurnRecorder) (*Scheduler, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	grid, err := worldgen.Generate(rng, len(agents), cfg.WorldGen)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cfg:       cfg,
		agents:    agents,
		requester: requester,
		publisher: publisher,
		recorder:  recorder,
		state:     board.NewGameState(grid),
	}, nil
}

// Run drives the turn loop until stop is closed. It exits cleanly
// between turns; any in-flight agent requests are abandoned via
// context cancellation.
func (s *Scheduler) Run(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runTurn(ctx)
		}
	}
}

func (s *Scheduler) runTurn(ctx context.Context) {
	snapshot := s.CurrentSnapshot()
	turn := snapshot.Turn

	moves := s.gatherMoves(ctx, snapshot, turn)
	accepted := s.validateMoves(snapshot, moves)

	s.mu.Lock()
	s.state.Grid = resolve.Resolve(s.state.Grid, accepted)
	regen.Apply(s.state.Grid, turn)
	s.state.Turn++
	post := s.state.Snapshot()
	s.mu.Unlock()

	s.publisher.Publish(post)

	if s.recorder != nil {
		if err := s.recorder.Append(ctx, post); err != nil {
			log.Printf("scheduler: turn log append failed for turn %d: %v", post.Turn, err)
		}
	}
}

// gatherMoves requests a move from every agent concurrently and waits
// for all of them (or their deadlines) before returning. A missing or
// rejected reply is simply absent from the result.
func (s *Scheduler) gatherMoves(ctx context.Context, snapshot board.Snapshot, turn uint64) []board.Move {
	type result struct {
		move board.Move
		ok   bool
	}

	results := make(chan result, len(s.agents))
	for _, agent := range s.agents {
		agent := agent
		go func() {
			move, ok := s.requester.RequestMove(ctx, agent.Addr, turn, snapshot, agent.Player)
			results <- result{move: move, ok: ok}
		}()
	}

	moves := make([]board.Move, 0, len(s.agents))
	for range s.agents {
		r := <-results
		if r.ok {
			moves = append(moves, r.move)
		}
	}
	return moves
}

// validateMoves drops any move that fails bounds, ownership,
// mountain, or adjacency checks against the board snapshot used to
// gather it, logging the rejection with the player and move for
// diagnosis. Surviving moves have their units pre-filled from that
// same snapshot.
func (s *Scheduler) validateMoves(snapshot board.Snapshot, moves []board.Move) []board.Move {
	accepted := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		if err := checkMove(snapshot, m); err != nil {
			log.Printf("scheduler: rejecting move from player %d (%v->%v, %d units): %v", m.Owner, m.From, m.To, m.Units, err)
			continue
		}
		m.Units = snapshot.Grid.At(m.From).Garrison()
		accepted = append(accepted, m)
	}
	return accepted
}

func checkMove(snapshot board.Snapshot, m board.Move) error {
	if !m.From.InBounds() || !m.To.InBounds() {
		return errOutOfBounds
	}
	if !m.From.IsAdjacent(m.To) {
		return errNonAdjacent
	}
	from := snapshot.Grid.At(m.From)
	to := snapshot.Grid.At(m.To)
	if from.IsMountain() || to.IsMountain() {
		return errMountain
	}
	owner, ok := from.Owner()
	if !ok || owner != m.Owner {
		return errNotOwner
	}
	return nil
}
