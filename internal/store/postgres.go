// Package store holds the referee's optional persistence: an
// append-only turn-log writer and a latest-snapshot cache. Both are
// inert when unconfigured, so a referee can run with no database at
// all and pay no cost beyond a nil check.
package store

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// TurnLog appends one row per resolved turn for offline audit. It
// never gates or replays the live game; the scheduler only ever calls
// Append, and it logs rather than acts on any error Append returns.
type TurnLog struct {
	pool *pgxpool.Pool
}

// NewTurnLog opens a pool against connString, or returns an inert
// TurnLog if connString is empty.
func NewTurnLog(ctx context.Context, connString string) (*TurnLog, error) {
	if connString == "" {
		return &TurnLog{}, nil
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, createTurnLogTable); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("store: connected turn log to PostgreSQL")
	return &TurnLog{pool: pool}, nil
}

const createTurnLogTable = `
CREATE TABLE IF NOT EXISTS turn_log (
	turn       BIGINT PRIMARY KEY,
	spaces     JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Append writes one row for the given snapshot. Errors are returned
// to the caller, who logs and continues. The scheduler calls Append
// inline in its turn loop, so the loop waits for the insert to finish.
func (t *TurnLog) Append(ctx context.Context, snap board.Snapshot) error {
	if t.pool == nil {
		return nil
	}

	spaces, err := json.Marshal(snap.ToWire().Spaces)
	if err != nil {
		return err
	}

	_, err = t.pool.Exec(ctx,
		`INSERT INTO turn_log (turn, spaces) VALUES ($1, $2) ON CONFLICT (turn) DO NOTHING`,
		snap.Turn, spaces)
	return err
}

// IsConnected reports whether Append will actually write anywhere.
func (t *TurnLog) IsConnected() bool {
	return t.pool != nil
}

// Close releases the pool, if any.
func (t *TurnLog) Close() {
	if t != nil && t.pool != nil {
		t.pool.Close()
	}
}
