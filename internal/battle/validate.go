package battle

// Validate pre-checks an action against the current state without mutating
// anything. Checks run in order: the match is live, the actor owns the turn,
// the phase allows actions, the payload has the required shape, and the
// referenced card or unit exists. Cost feasibility is left to the resolvers,
// which are the final authority.
func Validate(state *BattleState, action Action) *Rejection {
	if state.Ended() {
		return rejectf(RejectMatchEnded, "match is over")
	}
	if !action.Actor.Valid() {
		return rejectf(RejectBadPayload, "unknown actor %q", action.Actor)
	}
	if action.Actor != state.Turn.Owner {
		return rejectf(RejectNotYourTurn, "it is %s's turn", state.Turn.Owner)
	}
	if state.Turn.Phase != PhaseMain {
		return rejectf(RejectWrongPhase, "actions are only legal in MAIN phase")
	}

	actor := state.Player(action.Actor)

	switch action.Type {
	case ActionPlayCard:
		if action.CardID == "" {
			return rejectf(RejectBadPayload, "PLAY_CARD requires card_id")
		}
		if !validSlot(action.Slot) {
			return rejectf(RejectBadPayload, "PLAY_CARD slot %d out of range", action.Slot)
		}
		if actor.handIndex(action.CardID) < 0 {
			return rejectf(RejectUnknownCard, "card %s is not in hand", action.CardID)
		}

	case ActionCastSpell:
		if action.CardID == "" {
			return rejectf(RejectBadPayload, "CAST_SPELL requires card_id")
		}
		if actor.handIndex(action.CardID) < 0 {
			return rejectf(RejectUnknownCard, "card %s is not in hand", action.CardID)
		}

	case ActionAttack:
		if !validSlot(action.Slot) {
			return rejectf(RejectBadPayload, "ATTACK slot %d out of range", action.Slot)
		}
		if actor.Board[action.Slot] == nil {
			return rejectf(RejectEmptySlot, "no unit in attacker slot %d", action.Slot)
		}

	case ActionActivateAbility:
		if !validSlot(action.Slot) {
			return rejectf(RejectBadPayload, "ACTIVATE_ABILITY slot %d out of range", action.Slot)
		}
		if actor.Board[action.Slot] == nil {
			return rejectf(RejectEmptySlot, "no unit in slot %d", action.Slot)
		}

	case ActionEndTurn:
		// No payload.

	default:
		return rejectf(RejectBadPayload, "unknown action type %q", action.Type)
	}

	return nil
}
