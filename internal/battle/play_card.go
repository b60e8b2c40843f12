package battle

// resolvePlayCard summons a unit from the actor's hand into an empty slot.
// Spell cards must go through CAST_SPELL. An on-summon ability fires for free
// through the activation path, subject to the per-turn ability lock.
func resolvePlayCard(s *BattleState, action Action) ([]Event, *Rejection) {
	actor := s.Player(action.Actor)

	idx := actor.handIndex(action.CardID)
	card := actor.Hand[idx]
	if !card.IsUnit() {
		return nil, rejectf(RejectWrongCardType, "card %s is a spell, use CAST_SPELL", card.ID)
	}
	if actor.Board[action.Slot] != nil {
		return nil, rejectf(RejectSlotOccupied, "slot %d is occupied", action.Slot)
	}

	cost, events := effectiveCost(s, action.Actor, card.Cost)
	if actor.Energy < cost {
		return nil, rejectf(RejectInsufficientEnergy, "card %s costs %d, have %d energy", card.ID, cost, actor.Energy)
	}
	actor.Energy -= cost

	removeHandCard(actor, idx)

	unit := unitFromCard(card, action.Actor, s.Turn.Number)
	actor.Board[action.Slot] = unit

	events = append(events, newEvent(EventCardPlayed, map[string]any{
		"side":        action.Actor,
		"card_id":     card.ID,
		"slot":        action.Slot,
		"instance_id": unit.InstanceID,
		"cost":        cost,
		"energy":      actor.Energy,
	}))

	if card.Ability != nil && card.Ability.OnSummon {
		events = append(events, activateAbilityInternal(s, action.Actor, action.Slot)...)
	}

	return events, nil
}
