package bot

import (
	"context"

	"github.com/duelforge/duel-server-go/internal/battle"
)

// Difficulty selects how aggressively a proposer plays.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyNormal || d == DifficultyHard
}

// Proposer suggests the next action for the side to move, which is
// state.Turn.Owner. Implementations receive the full battle state, hidden
// zones included; the orchestrator hands them a deep clone, so mutating it
// changes nothing. A proposal is a suggestion: the rules engine still
// validates it, and an illegal proposal is the proposer's failure.
type Proposer interface {
	Propose(ctx context.Context, state *battle.BattleState, difficulty Difficulty) (battle.Action, error)
}
