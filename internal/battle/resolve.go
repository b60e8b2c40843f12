package battle

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// Resolve validates an action and applies the matching resolver to a deep
// copy of the state. On success it returns the fully-formed next state with
// Version bumped by exactly one, plus the ordered event list. On rejection
// the input state is untouched and the rejection explains why.
func Resolve(state *BattleState, action Action) (*BattleState, []Event, *Rejection) {
	if rej := Validate(state, action); rej != nil {
		return nil, nil, rej
	}

	next := state.Clone()

	var events []Event
	var rej *Rejection
	switch action.Type {
	case ActionPlayCard:
		events, rej = resolvePlayCard(next, action)
	case ActionCastSpell:
		events, rej = resolveCastSpell(next, action)
	case ActionAttack:
		events, rej = resolveAttack(next, action)
	case ActionActivateAbility:
		events, rej = resolveActivateAbility(next, action)
	case ActionEndTurn:
		events, rej = resolveEndTurn(next, action.Actor)
	default:
		rej = rejectf(RejectBadPayload, "unknown action type %q", action.Type)
	}
	if rej != nil {
		return nil, nil, rej
	}

	next.Version = state.Version + 1
	return next, events, nil
}

// shuffleRNG derives a deterministic source for in-match shuffles from the
// battle seed and the current version, so replays with the same seed and
// action sequence reproduce identical deck orders.
func shuffleRNG(s *BattleState) *rand.Rand {
	return rand.New(rand.NewSource(s.Seed ^ (s.Version+1)<<17))
}

// effectiveCost applies a pending cost tax to a card's base cost and consumes
// the tax effect. Returns the adjusted cost and any consumption events.
func effectiveCost(s *BattleState, side Side, base int) (int, []Event) {
	tax, ok := s.Effects.CostTax(string(side), s.Turn.Number)
	if !ok {
		return base, nil
	}
	s.Effects.Remove(tax.ID)
	return base + tax.Amount, []Event{newEvent(EventEffectConsumed, map[string]any{
		"effect_id": tax.ID,
		"kind":      tax.Kind,
		"amount":    tax.Amount,
	})}
}

// damagePlayer applies damage to a side's hp, clamping at zero. Reaching zero
// ends the match immediately; no further mutating actions are accepted.
func damagePlayer(s *BattleState, side Side, amount int, source string) []Event {
	if amount <= 0 {
		return nil
	}
	p := s.Player(side)
	p.HP -= amount
	if p.HP < 0 {
		p.HP = 0
	}
	events := []Event{newEvent(EventPlayerDamaged, map[string]any{
		"side":   side,
		"amount": amount,
		"hp":     p.HP,
		"source": source,
	})}
	if p.HP == 0 {
		events = append(events, endMatch(s, side.Opponent())...)
	}
	return events
}

// healPlayer restores hp to a side.
func healPlayer(s *BattleState, side Side, amount int, source string) []Event {
	if amount <= 0 {
		return nil
	}
	p := s.Player(side)
	p.HP += amount
	return []Event{newEvent(EventPlayerHealed, map[string]any{
		"side":   side,
		"amount": amount,
		"hp":     p.HP,
		"source": source,
	})}
}

// endMatch marks the state terminal with the given winner.
func endMatch(s *BattleState, winner Side) []Event {
	if s.Turn.Phase == PhaseEnded {
		return nil
	}
	s.Turn.Phase = PhaseEnded
	s.Winner = winner
	return []Event{newEvent(EventMatchEnded, map[string]any{
		"winner": winner,
		"turn":   s.Turn.Number,
	})}
}

// destroyUnit removes a unit from its slot and returns its card to the
// original owner's discard pile, preserving card-instance conservation.
func destroyUnit(s *BattleState, side Side, slot int, catalogCard cards.Card) []Event {
	p := s.Player(side)
	unit := p.Board[slot]
	p.Board[slot] = nil
	owner := s.Player(unit.OriginalOwner)
	owner.Discard = append(owner.Discard, catalogCard)
	return []Event{newEvent(EventUnitDestroyed, map[string]any{
		"side":        side,
		"slot":        slot,
		"instance_id": unit.InstanceID,
		"card_id":     unit.CardID,
	})}
}

// cardForUnit rebuilds the static card definition carried by a unit so the
// instance can return to a discard pile. Units snapshot everything needed.
func cardForUnit(u *UnitInstance) cards.Card {
	c := cards.Card{
		ID:            u.CardID,
		Name:          u.Name,
		Type:          cards.TypeUnit,
		Attack:        u.Attack,
		Defense:       u.Defense,
		Life:          u.LifeMax,
		Passive:       u.Passive,
		PassiveAmount: u.PassiveAmount,
	}
	if u.HasAbility {
		c.Ability = &cards.Ability{
			Kind:   u.Ability,
			Cost:   u.AbilityCost,
			Amount: u.AbilityAmount,
			Limit:  u.AbilityLimit,
		}
	}
	return c
}

// drawOne moves the top deck card into the side's hand, recycling the discard
// pile into the deck first when the deck is empty. Drawing from two empty
// piles is a no-op.
func drawOne(s *BattleState, side Side) []Event {
	p := s.Player(side)
	var events []Event

	if len(p.Deck) == 0 && len(p.Discard) > 0 {
		p.Deck = p.Discard
		p.Discard = nil
		rng := shuffleRNG(s)
		rng.Shuffle(len(p.Deck), func(i, j int) {
			p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
		})
		events = append(events, newEvent(EventDeckRecycled, map[string]any{
			"side":      side,
			"deck_size": len(p.Deck),
		}))
	}

	if len(p.Deck) == 0 {
		return events
	}

	card := p.Deck[0]
	p.Deck = p.Deck[1:]
	p.Hand = append(p.Hand, card)
	events = append(events, newEvent(EventCardDrawn, map[string]any{
		"side":      side,
		"card_id":   card.ID,
		"deck_size": len(p.Deck),
		"hand_size": len(p.Hand),
	}))
	return events
}

// unitFromCard builds a fresh board instance from a unit card definition.
func unitFromCard(card cards.Card, owner Side, turn int) *UnitInstance {
	unit := &UnitInstance{
		InstanceID:    uuid.New().String(),
		CardID:        card.ID,
		Name:          card.Name,
		Owner:         owner,
		OriginalOwner: owner,
		Life:          card.Life,
		LifeMax:       card.Life,
		Attack:        card.Attack,
		Defense:       card.Defense,
		Passive:       card.Passive,
		PassiveAmount: card.PassiveAmount,
		SummonedTurn:  turn,
	}
	if card.Ability != nil {
		unit.HasAbility = true
		unit.Ability = card.Ability.Kind
		unit.AbilityCost = card.Ability.Cost
		unit.AbilityAmount = card.Ability.Amount
		unit.AbilityLimit = card.Ability.Limit
	}
	return unit
}

// removeHandCard takes the card at index i out of the hand.
func removeHandCard(p *PlayerState, i int) cards.Card {
	card := p.Hand[i]
	p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
	return card
}

func effectCreated(e effects.Effect) Event {
	return newEvent(EventEffectCreated, map[string]any{
		"effect_id": e.ID,
		"kind":      e.Kind,
		"target":    e.Target,
		"amount":    e.Amount,
		"expires":   e.ExpiresAtTurn,
	})
}
