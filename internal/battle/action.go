package battle

import "fmt"

// ActionType is the closed action vocabulary shared by players and the bot.
type ActionType string

const (
	ActionPlayCard        ActionType = "PLAY_CARD"
	ActionCastSpell       ActionType = "CAST_SPELL"
	ActionAttack          ActionType = "ATTACK"
	ActionActivateAbility ActionType = "ACTIVATE_ABILITY"
	ActionEndTurn         ActionType = "END_TURN"
)

// Action is one requested state transition.
//
// Payload fields by type:
//
//	PLAY_CARD        CardID, Slot (target board slot)
//	CAST_SPELL       CardID, TargetSlot (unit target, -1 if none),
//	                 TargetCardID (discard card for EXHUME spells)
//	ATTACK           Slot (attacker slot; defender is the opposing slot)
//	ACTIVATE_ABILITY Slot (unit whose ability activates)
//	END_TURN         no payload
type Action struct {
	Type         ActionType `json:"type"`
	Actor        Side       `json:"actor"`
	CardID       string     `json:"card_id,omitempty"`
	Slot         int        `json:"slot"`
	TargetSlot   int        `json:"target_slot"`
	TargetCardID string     `json:"target_card_id,omitempty"`
}

// RejectCode classifies why an action was refused. Rejections never mutate
// state and are always safe to retry with a corrected action.
type RejectCode string

const (
	RejectMatchEnded         RejectCode = "MATCH_ENDED"
	RejectNotYourTurn        RejectCode = "NOT_YOUR_TURN"
	RejectWrongPhase         RejectCode = "WRONG_PHASE"
	RejectBadPayload         RejectCode = "BAD_PAYLOAD"
	RejectUnknownCard        RejectCode = "UNKNOWN_CARD"
	RejectWrongCardType      RejectCode = "WRONG_CARD_TYPE"
	RejectSlotOccupied       RejectCode = "SLOT_OCCUPIED"
	RejectEmptySlot          RejectCode = "EMPTY_SLOT"
	RejectInsufficientEnergy RejectCode = "INSUFFICIENT_ENERGY"
	RejectAlreadyAttacked    RejectCode = "ALREADY_ATTACKED"
	RejectAbilityUsed        RejectCode = "ABILITY_USED"
	RejectAbilityUnavailable RejectCode = "ABILITY_UNAVAILABLE"
)

// Rejection is the typed refusal returned by the validator and resolvers.
type Rejection struct {
	Code    RejectCode `json:"code"`
	Message string     `json:"message"`
}

func (r *Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func rejectf(code RejectCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

func validSlot(slot int) bool { return slot >= 0 && slot < BoardSlots }
