package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/duelforge/duel-server-go/internal/battle"
)

const defaultRemoteTimeout = 3 * time.Second

// RemoteProposer asks an external service for the bot's next action. The
// service receives the full battle state and the difficulty and answers with
// a single action; it holds no match state of its own.
type RemoteProposer struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewRemoteProposer builds a proposer backed by the service at baseURL.
// A zero timeout falls back to the default.
func NewRemoteProposer(baseURL string, timeout time.Duration, log *zap.Logger) *RemoteProposer {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteProposer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type proposeRequest struct {
	State      *battle.BattleState `json:"state"`
	Difficulty Difficulty          `json:"difficulty"`
}

type proposeResponse struct {
	Action battle.Action `json:"action"`
}

// Propose round-trips the state to the remote service. Any transport or
// decoding failure comes back as an error; the caller decides the fallback.
func (p *RemoteProposer) Propose(ctx context.Context, state *battle.BattleState, difficulty Difficulty) (battle.Action, error) {
	body, err := json.Marshal(proposeRequest{State: state, Difficulty: difficulty})
	if err != nil {
		return battle.Action{}, fmt.Errorf("encode propose request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/propose", bytes.NewReader(body))
	if err != nil {
		return battle.Action{}, fmt.Errorf("build propose request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return battle.Action{}, fmt.Errorf("propose request to %s: %w", p.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return battle.Action{}, fmt.Errorf("propose request to %s: status %d", p.baseURL, resp.StatusCode)
	}

	var out proposeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return battle.Action{}, fmt.Errorf("decode propose response: %w", err)
	}

	p.log.Debug("remote proposal received",
		zap.String("match_id", state.MatchID),
		zap.String("side", string(state.Turn.Owner)),
		zap.String("action", string(out.Action.Type)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out.Action, nil
}
