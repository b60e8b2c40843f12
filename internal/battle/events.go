package battle

// EventType labels one observable sub-step of a resolution. Events exist for
// client replay, animation and audit logging; they are informational and are
// never re-consumed as authoritative state.
type EventType string

const (
	EventMatchCreated   EventType = "MATCH_CREATED"
	EventMulliganTaken  EventType = "MULLIGAN_TAKEN"
	EventCardForced     EventType = "CARD_FORCED"
	EventCardPlayed     EventType = "CARD_PLAYED"
	EventSpellCast      EventType = "SPELL_CAST"
	EventCardDrawn      EventType = "CARD_DRAWN"
	EventDeckRecycled   EventType = "DECK_RECYCLED"
	EventCardRevealed   EventType = "CARD_REVEALED"
	EventEffectCreated  EventType = "EFFECT_CREATED"
	EventEffectConsumed EventType = "EFFECT_CONSUMED"
	EventEffectExpired  EventType = "EFFECT_EXPIRED"
	EventUnitDamaged    EventType = "UNIT_DAMAGED"
	EventUnitDestroyed  EventType = "UNIT_DESTROYED"
	EventUnitSilenced   EventType = "UNIT_SILENCED"
	EventUnitRestored   EventType = "UNIT_RESTORED"
	EventPlayerDamaged  EventType = "PLAYER_DAMAGED"
	EventPlayerHealed   EventType = "PLAYER_HEALED"
	EventAttackBlocked  EventType = "ATTACK_BLOCKED"
	EventAttackRedirect EventType = "ATTACK_REDIRECTED"
	EventLifeStolen     EventType = "LIFE_STOLEN"
	EventAbilityUsed    EventType = "ABILITY_USED"
	EventTurnEnded      EventType = "TURN_ENDED"
	EventTurnStarted    EventType = "TURN_STARTED"
	EventMatchEnded     EventType = "MATCH_ENDED"

	// EventBotProposalSubstituted is emitted by the orchestrator, not a
	// resolver: it records that a rejected bot proposal was replaced with a
	// forced END_TURN.
	EventBotProposalSubstituted EventType = "BOT_PROPOSAL_SUBSTITUTED"
)

// Event is one ordered record in a resolution's event list.
type Event struct {
	Type    EventType      `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

func newEvent(t EventType, payload map[string]any) Event {
	return Event{Type: t, Payload: payload}
}
