// Package transport implements the referee's half of the agent
// request/response boundary: it serializes a board snapshot to a
// remote agent, waits up to a per-call deadline, and deserializes the
// proposed move. Any failure along the way is treated as a pass, not
// a fatal error — the turn loop must survive a misbehaving agent.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jhaezhyr/generals-io-ai/internal/board"
)

// Client requests a single move from one remote agent per call.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient builds a Client whose requests are individually bounded by
// timeout, applied on top of whatever deadline the caller's context
// already carries.
func NewClient(timeout time.Duration) *Client {
	return &Client{httpClient: &http.Client{}, timeout: timeout}
}

// RequestMove asks the agent at addr for its move this turn. It
// returns (move, true) on a well-formed, in-bounds reply and
// (zero, false) for anything else: a context deadline, a connection
// error, a non-200 response, a malformed body, or a move with an
// off-board coordinate. A nil move in the agent's JSON reply
// (the documented "pass" response) also yields (zero, false) without
// being logged as an error.
func (c *Client) RequestMove(ctx context.Context, addr string, turn uint64, snapshot board.Snapshot, player board.PlayerID) (board.Move, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := board.TurnRequest{
		Turn:   turn,
		Player: player,
		Spaces: snapshot.Grid.ToSpaces(),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		slog.Error("transport: marshal turn request failed", "player", player, "error", err)
		return board.Move{}, false
	}

	url := fmt.Sprintf("http://%s/", addr)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		slog.Error("transport: build request failed", "player", player, "addr", addr, "error", err)
		return board.Move{}, false
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("transport: agent request failed, treating as pass", "player", player, "addr", addr, "error", err)
		return board.Move{}, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("transport: agent response read failed, treating as pass", "player", player, "addr", addr, "error", err)
		return board.Move{}, false
	}

	if resp.StatusCode != http.StatusOK {
		slog.Warn("transport: agent returned non-200, treating as pass", "player", player, "addr", addr, "status", resp.StatusCode, "body", string(body))
		return board.Move{}, false
	}

	var move *board.MoveWire
	if err := json.Unmarshal(body, &move); err != nil {
		slog.Warn("transport: malformed agent reply, treating as pass", "player", player, "addr", addr, "error", err)
		return board.Move{}, false
	}
	if move == nil {
		return board.Move{}, false
	}
	if !move.From.InBounds() || !move.To.InBounds() {
		slog.Warn("transport: agent move out of bounds, treating as pass", "player", player, "addr", addr, "from", move.From, "to", move.To)
		return board.Move{}, false
	}

	return board.Move{Owner: player, From: move.From, To: move.To}, true
}
