// Command referee runs one game: it generates a board for the agents
// named on the command line, drives the turn loop, and serves
// spectators over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
	"github.com/jhaezhyr/generals-io-ai/internal/config"
	"github.com/jhaezhyr/generals-io-ai/internal/fanout"
	"github.com/jhaezhyr/generals-io-ai/internal/httpapi"
	"github.com/jhaezhyr/generals-io-ai/internal/scheduler"
	"github.com/jhaezhyr/generals-io-ai/internal/spectator"
	"github.com/jhaezhyr/generals-io-ai/internal/store"
	"github.com/jhaezhyr/generals-io-ai/internal/transport"
	"github.com/jhaezhyr/generals-io-ai/internal/worldgen"
)

// runPublisher fans a snapshot out to spectators and, if configured,
// mirrors it into the latest-snapshot cache for out-of-band readers.
type runPublisher struct {
	hub   *fanout.Hub
	cache *store.SnapshotCache
}

func (p *runPublisher) Publish(snap board.Snapshot) {
	p.hub.Publish(snap)
	if p.cache.IsConnected() {
		if err := p.cache.Set(context.Background(), snap); err != nil {
			log.Printf("referee: snapshot cache write failed: %v", err)
		}
	}
}

func main() {
	configPath := flag.String("config", "referee.yaml", "path to config file")
	flag.Parse()

	runID := uuid.New()
	log.Printf("referee: starting run %s", runID)

	agentArgs := flag.Args()
	if len(agentArgs) < 1 {
		log.Fatalf("usage: referee [-config path] <agent-address>...")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("referee: failed to load config from %s, using defaults: %v", *configPath, err)
		cfg = config.Default()
	}

	agents := make([]scheduler.Agent, len(agentArgs))
	for i, raw := range agentArgs {
		addr, err := transport.ParseAgentAddress(raw)
		if err != nil {
			log.Fatalf("referee: invalid agent address %q: %v", raw, err)
		}
		agents[i] = scheduler.Agent{Player: board.PlayerID(i), Addr: addr}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	turnLog, err := store.NewTurnLog(ctx, cfg.Store.PostgresURL)
	if err != nil {
		log.Printf("referee: turn log unavailable, continuing without it: %v", err)
		turnLog = &store.TurnLog{}
	}
	defer turnLog.Close()

	snapshotCache, err := store.NewSnapshotCache(ctx, cfg.Store.RedisURL)
	if err != nil {
		log.Printf("referee: snapshot cache unavailable, continuing without it: %v", err)
		snapshotCache = &store.SnapshotCache{}
	}
	defer snapshotCache.Close()

	hub := fanout.NewHub()
	stopHub := make(chan struct{})
	go hub.Run(stopHub)
	defer close(stopHub)

	publisher := &runPublisher{hub: hub, cache: snapshotCache}

	client := transport.NewClient(cfg.Game.AgentTimeout)

	schedCfg := scheduler.Config{
		TickInterval: cfg.Game.TickInterval,
		Seed:         cfg.Game.Seed,
		WorldGen: worldgen.Config{
			NumTowns:                 cfg.Game.NumTowns,
			NumMountains:             cfg.Game.NumMountains,
			CapitalStartingUnits:     cfg.Game.CapitalStartingUnits,
			NeutralTownStartingUnits: cfg.Game.NeutralTownStartingUnits,
			MaxPlacementAttempts:     board.Size * board.Size * 4,
			MaxMountainAttempts:      4000,
		},
	}

	sched, err := scheduler.New(schedCfg, agents, client, publisher, turnLog)
	if err != nil {
		log.Fatalf("referee: world generation failed: %v", err)
	}

	stopLoop := make(chan struct{})
	go sched.Run(ctx, stopLoop)

	router := httpapi.NewRouter(sched, spectator.NewHandler(hub))
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("referee: spectator server listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("referee: server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("referee: shutting down")
	close(stopLoop)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("referee: server forced to shut down: %v", err)
	}

	log.Println("referee: exited")
}
