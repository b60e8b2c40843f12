package battle

import (
	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// resolveActivateAbility runs a unit's costed ability. Abilities are legal
// only before the turn's attack and at most one activation happens per turn
// across both boards, regardless of which unit activates.
func resolveActivateAbility(s *BattleState, action Action) ([]Event, *Rejection) {
	unit := s.Player(action.Actor).Board[action.Slot]

	if !unit.HasAbility {
		return nil, rejectf(RejectAbilityUnavailable, "unit %s has no ability", unit.InstanceID)
	}
	if unit.Silenced {
		return nil, rejectf(RejectAbilityUnavailable, "unit %s is silenced", unit.InstanceID)
	}
	if unit.AbilityUses >= unit.AbilityLimit {
		return nil, rejectf(RejectAbilityUnavailable, "unit %s has no ability uses left", unit.InstanceID)
	}
	if s.Turn.HasAttacked {
		return nil, rejectf(RejectAlreadyAttacked, "abilities must be activated before the attack")
	}
	if s.Turn.AbilityUsed {
		return nil, rejectf(RejectAbilityUsed, "an ability was already activated this turn by %s", s.Turn.AbilityUsedBy)
	}

	actor := s.Player(action.Actor)
	if actor.Energy < unit.AbilityCost {
		return nil, rejectf(RejectInsufficientEnergy, "ability costs %d, have %d energy", unit.AbilityCost, actor.Energy)
	}
	actor.Energy -= unit.AbilityCost

	return applyAbility(s, action.Actor, action.Slot, unit, unit.AbilityCost), nil
}

// activateAbilityInternal is the triggered path used by on-summon abilities.
// It bypasses the energy cost but still respects the per-turn lock and the
// unit's use limit; when the lock is held the trigger fizzles quietly.
func activateAbilityInternal(s *BattleState, side Side, slot int) []Event {
	unit := s.Player(side).Board[slot]
	if unit == nil || !unit.HasAbility || unit.Silenced {
		return nil
	}
	if s.Turn.AbilityUsed || s.Turn.HasAttacked || unit.AbilityUses >= unit.AbilityLimit {
		return nil
	}
	return applyAbility(s, side, slot, unit, 0)
}

// applyAbility performs the ability's effect and takes the per-turn lock.
func applyAbility(s *BattleState, side Side, slot int, unit *UnitInstance, paid int) []Event {
	s.Turn.AbilityUsed = true
	s.Turn.AbilityUsedBy = side
	unit.AbilityUses++

	events := []Event{newEvent(EventAbilityUsed, map[string]any{
		"side":        side,
		"slot":        slot,
		"instance_id": unit.InstanceID,
		"ability":     unit.Ability,
		"cost":        paid,
	})}

	switch unit.Ability {
	case cards.AbilityRally:
		e := effects.New(effects.KindAttackMod, string(side), string(side))
		e.UnitID = unit.InstanceID
		e.Amount = unit.AbilityAmount
		e.ExpiresAtTurn = s.Turn.Number
		s.Effects.Append(e)
		events = append(events, effectCreated(e))

	case cards.AbilityFortify:
		e := effects.New(effects.KindDefenseMod, string(side), string(side))
		e.UnitID = unit.InstanceID
		e.Amount = unit.AbilityAmount
		e.ExpireEndOfRound(s.Turn.Number)
		s.Effects.Append(e)
		events = append(events, effectCreated(e))

	case cards.AbilityDrain:
		events = append(events, damagePlayer(s, side.Opponent(), unit.AbilityAmount, "DRAIN")...)
		if !s.Ended() {
			events = append(events, healPlayer(s, side, unit.AbilityAmount, "DRAIN")...)
		}

	case cards.AbilityInsight:
		events = append(events, drawOne(s, side)...)
	}

	return events
}
