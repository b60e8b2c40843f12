package battle

import (
	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// resolveAttack resolves one slot-vs-slot strike. The defender is the
// opposing unit in the same slot index; an empty defending slot means direct
// damage to the opposing player. A successful attack always sets HasAttacked
// and ends the turn through the end-turn path.
func resolveAttack(s *BattleState, action Action) ([]Event, *Rejection) {
	if s.Turn.HasAttacked {
		return nil, rejectf(RejectAlreadyAttacked, "side %s already attacked this turn", action.Actor)
	}

	attackerSide := action.Actor
	defenderSide := attackerSide.Opponent()
	turn := s.Turn.Number

	var events []Event
	defSlot := action.Slot

	if block, ok := s.Effects.First(effects.KindNextAttackBlock, string(defenderSide), turn); ok {
		s.Effects.Remove(block.ID)
		events = append(events,
			newEvent(EventAttackBlocked, map[string]any{
				"attacker_side": attackerSide,
				"attacker_slot": action.Slot,
			}),
			newEvent(EventEffectConsumed, map[string]any{
				"effect_id": block.ID,
				"kind":      block.Kind,
			}),
		)
	} else {
		if redir, ok := s.Effects.First(effects.KindNextAttackRedirect, string(defenderSide), turn); ok {
			s.Effects.Remove(redir.ID)
			defSlot = redir.Amount
			events = append(events,
				newEvent(EventAttackRedirect, map[string]any{
					"attacker_slot": action.Slot,
					"defender_slot": defSlot,
				}),
				newEvent(EventEffectConsumed, map[string]any{
					"effect_id": redir.ID,
					"kind":      redir.Kind,
				}),
			)
		}
		events = append(events, resolveStrike(s, attackerSide, action.Slot, defSlot)...)
	}

	s.Turn.HasAttacked = true
	events = append(events, rotateTurn(s)...)
	return events, nil
}

// resolveStrike computes and applies damage for attacker slot vs defender
// slot, including attacker and defender passives.
func resolveStrike(s *BattleState, attackerSide Side, atkSlot, defSlot int) []Event {
	defenderSide := attackerSide.Opponent()
	attacker := s.Player(attackerSide).Board[atkSlot]
	defender := s.Player(defenderSide).Board[defSlot]
	turn := s.Turn.Number

	effAtk := attacker.Attack + s.Effects.AttackMod(attacker.InstanceID, turn)
	if effAtk < 0 {
		effAtk = 0
	}

	if defender == nil {
		events := damagePlayer(s, defenderSide, effAtk, "ATTACK")
		if effAtk > 0 && attackerPassive(attacker) == cards.PassiveLifesteal {
			events = append(events, lifesteal(s, attackerSide, effAtk)...)
		}
		return events
	}

	dmg := strikeDamage(s, attacker, defender, effAtk, turn)

	var events []Event
	died, excess, dmgEvents := applyUnitDamage(s, defenderSide, defSlot, dmg, "ATTACK")
	events = append(events, dmgEvents...)

	if dmg > 0 {
		switch attackerPassive(attacker) {
		case cards.PassiveLifesteal:
			events = append(events, lifesteal(s, attackerSide, dmg)...)
		case cards.PassiveOverflow:
			if died && excess > 0 {
				events = append(events, damagePlayer(s, defenderSide, excess, "OVERFLOW")...)
			}
		case cards.PassiveCleave:
			events = append(events, cleaveSplash(s, defenderSide, defSlot, dmg)...)
		case cards.PassiveSilenceOnHit:
			if !died {
				target := s.Player(defenderSide).Board[defSlot]
				if !target.Silenced {
					target.Silenced = true
					events = append(events, newEvent(EventUnitSilenced, map[string]any{
						"side":        defenderSide,
						"slot":        defSlot,
						"instance_id": target.InstanceID,
					}))
				}
			}
		case cards.PassiveRevealOnHit:
			reveal := effects.New(effects.KindRevealHand, string(defenderSide), string(attackerSide))
			reveal.ExpireEndOfRound(turn)
			s.Effects.Append(reveal)
			events = append(events, effectCreated(reveal))
		}
	}

	return events
}

// strikeDamage applies the damage policy: ignore-defense passives subtract
// from the effective defense before the zero floor; percentage and fixed
// reductions apply after.
func strikeDamage(s *BattleState, attacker, defender *UnitInstance, effAtk, turn int) int {
	effDef := defender.Defense + s.Effects.DefenseMod(defender.InstanceID, turn)
	if attackerPassive(attacker) == cards.PassivePierce {
		effDef -= attacker.PassiveAmount
	}
	if effDef < 0 {
		effDef = 0
	}

	dmg := effAtk - effDef
	if dmg < 0 {
		dmg = 0
	}

	if !defender.Silenced {
		switch defender.Passive {
		case cards.PassiveStoneskinPct:
			dmg -= dmg * defender.PassiveAmount / 100
		case cards.PassiveStoneskinFlat:
			dmg -= defender.PassiveAmount
		}
	}
	if dmg < 0 {
		dmg = 0
	}
	return dmg
}

// applyUnitDamage deals damage to the unit in the slot. Returns whether the
// unit died and by how much the damage exceeded its remaining life.
func applyUnitDamage(s *BattleState, side Side, slot, dmg int, source string) (died bool, excess int, events []Event) {
	unit := s.Player(side).Board[slot]
	if unit == nil || dmg <= 0 {
		return false, 0, nil
	}

	unit.Life -= dmg
	events = append(events, newEvent(EventUnitDamaged, map[string]any{
		"side":        side,
		"slot":        slot,
		"instance_id": unit.InstanceID,
		"amount":      dmg,
		"life":        unit.Life,
		"source":      source,
	}))

	if unit.Life <= 0 {
		excess = -unit.Life
		events = append(events, destroyUnit(s, side, slot, cardForUnit(unit))...)
		return true, excess, events
	}
	return false, 0, events
}

// cleaveSplash deals half the primary damage to every other occupied slot on
// the defending side. Splash ignores defense but still respects the target's
// damage-reduction passives.
func cleaveSplash(s *BattleState, defenderSide Side, primarySlot, dmg int) []Event {
	splash := dmg / 2
	if splash <= 0 {
		return nil
	}
	var events []Event
	for slot := 0; slot < BoardSlots; slot++ {
		if slot == primarySlot {
			continue
		}
		target := s.Player(defenderSide).Board[slot]
		if target == nil {
			continue
		}
		hit := splash
		if !target.Silenced {
			switch target.Passive {
			case cards.PassiveStoneskinPct:
				hit -= hit * target.PassiveAmount / 100
			case cards.PassiveStoneskinFlat:
				hit -= target.PassiveAmount
			}
		}
		if hit <= 0 {
			continue
		}
		_, _, splashEvents := applyUnitDamage(s, defenderSide, slot, hit, "CLEAVE")
		events = append(events, splashEvents...)
	}
	return events
}

// lifesteal heals the attacking side for the damage dealt.
func lifesteal(s *BattleState, side Side, amount int) []Event {
	events := []Event{newEvent(EventLifeStolen, map[string]any{
		"side":   side,
		"amount": amount,
	})}
	return append(events, healPlayer(s, side, amount, "LIFESTEAL")...)
}

// attackerPassive returns the attacker's combat passive, or none when the
// unit is silenced.
func attackerPassive(u *UnitInstance) cards.PassiveKind {
	if u.Silenced {
		return cards.PassiveNone
	}
	return u.Passive
}
