package battle

import (
	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// resolveCastSpell pays for and resolves a spell card. Spells never occupy a
// board slot: the card moves straight from hand to the discard pile.
func resolveCastSpell(s *BattleState, action Action) ([]Event, *Rejection) {
	actor := s.Player(action.Actor)

	idx := actor.handIndex(action.CardID)
	card := actor.Hand[idx]
	if !card.IsSpell() {
		return nil, rejectf(RejectWrongCardType, "card %s is a unit, use PLAY_CARD", card.ID)
	}
	spell := card.Spell

	cost, events := effectiveCost(s, action.Actor, card.Cost)
	if actor.Energy < cost {
		return nil, rejectf(RejectInsufficientEnergy, "spell %s costs %d, have %d energy", card.ID, cost, actor.Energy)
	}

	var spellEvents []Event
	var rej *Rejection
	switch spell.Kind {
	case cards.SpellStatModifier:
		spellEvents, rej = castStatModifier(s, action, spell)
	case cards.SpellMend:
		spellEvents, rej = castMend(s, action, spell)
	case cards.SpellForesee:
		spellEvents, rej = castForesee(s, action, spell)
	case cards.SpellWard:
		spellEvents, rej = castWard(s, action, spell)
	case cards.SpellExhumePartial:
		spellEvents, rej = castExhume(s, action, spell, true)
	case cards.SpellExhumeFull:
		spellEvents, rej = castExhume(s, action, spell, false)
	default:
		rej = rejectf(RejectBadPayload, "unknown spell kind %q", spell.Kind)
	}
	if rej != nil {
		return nil, rej
	}

	actor.Energy -= cost
	removeHandCard(actor, idx)
	actor.Discard = append(actor.Discard, card)

	events = append(events, newEvent(EventSpellCast, map[string]any{
		"side":    action.Actor,
		"card_id": card.ID,
		"kind":    spell.Kind,
		"cost":    cost,
		"energy":  actor.Energy,
	}))
	return append(events, spellEvents...), nil
}

// castStatModifier buffs an own unit or debuffs an enemy unit, turn-bounded.
// A positive amount targets the caster's board, a negative one the enemy's.
func castStatModifier(s *BattleState, action Action, spell *cards.Spell) ([]Event, *Rejection) {
	if !validSlot(action.TargetSlot) {
		return nil, rejectf(RejectBadPayload, "stat modifier requires target_slot in [0,%d]", BoardSlots-1)
	}
	targetSide := action.Actor
	if spell.Amount < 0 {
		targetSide = action.Actor.Opponent()
	}
	unit := s.Player(targetSide).Board[action.TargetSlot]
	if unit == nil {
		return nil, rejectf(RejectEmptySlot, "no unit in %s slot %d", targetSide, action.TargetSlot)
	}

	kind := effects.KindAttackMod
	if spell.Stat == cards.StatDefense {
		kind = effects.KindDefenseMod
	}
	e := effects.New(kind, string(targetSide), string(action.Actor))
	e.UnitID = unit.InstanceID
	e.Amount = spell.Amount
	e.ExpiresAtTurn = s.Turn.Number + spell.Duration
	s.Effects.Append(e)

	return []Event{effectCreated(e)}, nil
}

// castMend heals the caster and grants a defense buff to a target own unit.
func castMend(s *BattleState, action Action, spell *cards.Spell) ([]Event, *Rejection) {
	events := healPlayer(s, action.Actor, spell.Heal, "MEND")

	if validSlot(action.TargetSlot) {
		unit := s.Player(action.Actor).Board[action.TargetSlot]
		if unit == nil {
			return nil, rejectf(RejectEmptySlot, "no unit in slot %d", action.TargetSlot)
		}
		e := effects.New(effects.KindDefenseMod, string(action.Actor), string(action.Actor))
		e.UnitID = unit.InstanceID
		e.Amount = spell.Amount
		e.ExpiresAtTurn = s.Turn.Number + spell.Duration
		s.Effects.Append(e)
		events = append(events, effectCreated(e))
	}
	return events, nil
}

// castForesee reveals the top card of the opponent's deck to the caster and
// taxes the opponent's next card play. The revealed card stays visible in the
// opponent's hand once drawn, until the reveal is replaced.
func castForesee(s *BattleState, action Action, spell *cards.Spell) ([]Event, *Rejection) {
	opponent := action.Actor.Opponent()
	opp := s.Player(opponent)

	var events []Event
	if len(opp.Deck) > 0 {
		top := opp.Deck[0]
		reveal := effects.New(effects.KindRevealHandCard, string(opponent), string(action.Actor))
		reveal.CardIDs = []string{top.ID}
		s.Effects.Append(reveal)
		events = append(events,
			newEvent(EventCardRevealed, map[string]any{
				"side":    opponent,
				"card_id": top.ID,
				"zone":    "deck_top",
			}),
			effectCreated(reveal),
		)
	}

	tax := effects.New(effects.KindCostTax, string(opponent), string(action.Actor))
	tax.Amount = spell.Amount
	s.Effects.Append(tax)
	events = append(events, effectCreated(tax))
	return events, nil
}

// castWard arms a one-shot guard on the caster's side: the next attack against
// it is either cancelled outright or redirected onto the defender slot named
// by target_slot. Consumed by attack resolution.
func castWard(s *BattleState, action Action, spell *cards.Spell) ([]Event, *Rejection) {
	kind := effects.KindNextAttackBlock
	if spell.Redirect {
		kind = effects.KindNextAttackRedirect
		if !validSlot(action.TargetSlot) {
			return nil, rejectf(RejectBadPayload, "redirect ward requires target_slot in [0,%d]", BoardSlots-1)
		}
	}
	e := effects.New(kind, string(action.Actor), string(action.Actor))
	if spell.Redirect {
		e.Amount = action.TargetSlot
	}
	s.Effects.Append(e)
	return []Event{effectCreated(e)}, nil
}

// castExhume restores a unit card from the caster's discard pile. The partial
// variant puts it straight onto the board at reduced life; the full variant
// returns it to the hand at full life, revealed to the opponent.
func castExhume(s *BattleState, action Action, spell *cards.Spell, partial bool) ([]Event, *Rejection) {
	actor := s.Player(action.Actor)

	if action.TargetCardID == "" {
		return nil, rejectf(RejectBadPayload, "exhume requires target_card_id")
	}
	di := actor.discardIndex(action.TargetCardID)
	if di < 0 {
		return nil, rejectf(RejectUnknownCard, "card %s is not in the discard pile", action.TargetCardID)
	}
	restored := actor.Discard[di]

	if partial {
		if !restored.IsUnit() {
			return nil, rejectf(RejectWrongCardType, "card %s is not a unit", restored.ID)
		}
		if !validSlot(action.TargetSlot) {
			return nil, rejectf(RejectBadPayload, "exhume requires target_slot in [0,%d]", BoardSlots-1)
		}
		if actor.Board[action.TargetSlot] != nil {
			return nil, rejectf(RejectSlotOccupied, "slot %d is occupied", action.TargetSlot)
		}

		actor.Discard = append(actor.Discard[:di], actor.Discard[di+1:]...)
		life := restored.Life * spell.Percent / 100
		if life < 1 {
			life = 1
		}
		unit := unitFromCard(restored, action.Actor, s.Turn.Number)
		unit.Life = life
		actor.Board[action.TargetSlot] = unit
		return []Event{newEvent(EventUnitRestored, map[string]any{
			"side":        action.Actor,
			"card_id":     restored.ID,
			"slot":        action.TargetSlot,
			"life":        life,
			"instance_id": unit.InstanceID,
		})}, nil
	}

	actor.Discard = append(actor.Discard[:di], actor.Discard[di+1:]...)
	actor.Hand = append(actor.Hand, restored)

	reveal := effects.New(effects.KindRevealHandCard, string(action.Actor), string(action.Actor))
	reveal.VisibleTo = string(action.Actor.Opponent())
	reveal.CardIDs = []string{restored.ID}
	s.Effects.Append(reveal)

	return []Event{
		newEvent(EventUnitRestored, map[string]any{
			"side":    action.Actor,
			"card_id": restored.ID,
			"zone":    "hand",
		}),
		effectCreated(reveal),
	}, nil
}
