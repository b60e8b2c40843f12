package effects

import "github.com/google/uuid"

// Kind is the closed set of temporal effect kinds.
type Kind string

const (
	// KindRevealHand exposes the target side's entire hand to the viewer
	// that satisfies visibility resolution.
	KindRevealHand Kind = "REVEAL_HAND"

	// KindRevealHandCard exposes only the card ids listed in CardIDs; all
	// other hand cards stay opaque.
	KindRevealHandCard Kind = "REVEAL_HAND_CARD"

	// KindNextAttackBlock cancels the next attack against the target side.
	// Consumed by attack resolution.
	KindNextAttackBlock Kind = "NEXT_ATTACK_BLOCK"

	// KindNextAttackRedirect moves the next attack against the target side
	// onto the defender slot stored in Amount. Consumed by attack resolution.
	KindNextAttackRedirect Kind = "NEXT_ATTACK_REDIRECT"

	// KindAttackMod adjusts the bound unit's attack while active.
	KindAttackMod Kind = "ATK_MOD"

	// KindDefenseMod adjusts the bound unit's defense while active.
	KindDefenseMod Kind = "DEF_MOD"

	// KindCostTax raises the cost of the target side's next card play.
	// Consumed when that card is paid for.
	KindCostTax Kind = "COST_TAX_NEXT_CARD"
)

// Effect is one timestamped ledger entry. Sides are plain strings ("P1"/"P2")
// so the package stays independent of the battle state types.
type Effect struct {
	ID        string   `json:"id"`
	Kind      Kind     `json:"kind"`
	Target    string   `json:"target"`               // side the effect applies to
	Owner     string   `json:"owner"`                // side that caused the effect
	VisibleTo string   `json:"visible_to,omitempty"` // explicit visibility override
	UnitID    string   `json:"unit_id,omitempty"`    // instance binding for stat mods
	Amount    int      `json:"amount,omitempty"`
	CardIDs   []string `json:"card_ids,omitempty"`

	// ExpiresAtTurn is the last turn number the effect is active on.
	// Zero means no expiry: the effect stays until consumed or replaced.
	// There is no separate round expiry field: a round is one turn per
	// side, so round scope is encoded in turn numbers. Current turn only
	// is ExpiresAtTurn = turn; through the end of the round (the
	// opponent's reply turn included) is ExpiresAtTurn = turn + 1, which
	// ExpireEndOfRound sets.
	ExpiresAtTurn int `json:"expires_at_turn,omitempty"`
}

// New creates an effect with a fresh id.
func New(kind Kind, target, owner string) Effect {
	return Effect{ID: uuid.New().String(), Kind: kind, Target: target, Owner: owner}
}

// ActiveAt reports whether the effect is live on the given turn number.
func (e Effect) ActiveAt(turn int) bool {
	return e.ExpiresAtTurn == 0 || turn <= e.ExpiresAtTurn
}

// ExpireEndOfRound bounds the effect to the round containing turn: it stays
// active through the opponent's reply turn and expires after that.
func (e *Effect) ExpireEndOfRound(turn int) {
	e.ExpiresAtTurn = turn + 1
}

// VisibleToViewer resolves reveal visibility for a viewer side. Priority:
// explicit VisibleTo, then the causer (Owner), otherwise hidden.
func (e Effect) VisibleToViewer(viewer string) bool {
	if e.VisibleTo != "" {
		return e.VisibleTo == viewer
	}
	if e.Owner != "" {
		return e.Owner == viewer
	}
	return false
}
