package battle

import (
	"testing"

	"github.com/duelforge/duel-server-go/internal/cards"
)

func unitCard(id string, cost, atk, def, life int) cards.Card {
	return cards.Card{
		ID:      id,
		Name:    id,
		Type:    cards.TypeUnit,
		Cost:    cost,
		Attack:  atk,
		Defense: def,
		Life:    life,
	}
}

func spellCard(id string, cost int, spell cards.Spell) cards.Card {
	return cards.Card{
		ID:    id,
		Name:  id,
		Type:  cards.TypeSpell,
		Cost:  cost,
		Spell: &spell,
	}
}

// newTestState builds a mid-game state with both players at full hp and
// plenty of energy, turn owned by P1. Zones start empty; tests place cards
// and units directly.
func newTestState() *BattleState {
	return &BattleState{
		MatchID: "match-test",
		Version: 1,
		Seed:    42,
		Turn:    TurnContext{Owner: SideP1, Number: 3, Phase: PhaseMain},
		Players: map[Side]*PlayerState{
			SideP1: {HP: 100, Energy: 10, EnergyMax: 10},
			SideP2: {HP: 100, Energy: 10, EnergyMax: 10},
		},
	}
}

func placeUnit(s *BattleState, side Side, slot int, card cards.Card) *UnitInstance {
	u := unitFromCard(card, side, s.Turn.Number)
	s.Player(side).Board[slot] = u
	return u
}

func mustResolve(t *testing.T, s *BattleState, a Action) (*BattleState, []Event) {
	t.Helper()
	next, events, rej := Resolve(s, a)
	if rej != nil {
		t.Fatalf("unexpected rejection: %s", rej)
	}
	return next, events
}

func mustReject(t *testing.T, s *BattleState, a Action, code RejectCode) *Rejection {
	t.Helper()
	next, _, rej := Resolve(s, a)
	if rej == nil {
		t.Fatalf("expected rejection %s, action resolved (version %d)", code, next.Version)
	}
	if rej.Code != code {
		t.Fatalf("expected rejection %s, got %s", code, rej)
	}
	return rej
}

func hasEvent(events []Event, t EventType) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}
