package battle

import (
	"testing"

	"github.com/duelforge/duel-server-go/internal/cards"
)

func abilityUnit(id string, kind cards.AbilityKind, cost, amount, limit int) cards.Card {
	c := unitCard(id, 3, 20, 10, 30)
	c.Ability = &cards.Ability{Kind: kind, Cost: cost, Amount: amount, Limit: limit}
	return c
}

func TestActivateRallyBuffsAttackThisTurn(t *testing.T) {
	s := newTestState()
	unit := placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 1))

	next, events := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})

	if got := next.Player(SideP1).Energy; got != 8 {
		t.Fatalf("expected energy 8 after paying 2, got %d", got)
	}
	if got := next.Effects.AttackMod(unit.InstanceID, next.Turn.Number); got != 10 {
		t.Fatalf("expected +10 attack mod, got %d", got)
	}
	if !hasEvent(events, EventAbilityUsed) {
		t.Fatalf("expected ABILITY_USED event")
	}
	if !next.Turn.AbilityUsed || next.Turn.AbilityUsedBy != SideP1 {
		t.Fatalf("per-turn lock not taken: %+v", next.Turn)
	}
}

func TestRallyBuffExpiresWithTurn(t *testing.T) {
	s := newTestState()
	unit := placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 1))

	next, _ := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})
	next, _ = mustResolve(t, next, Action{Type: ActionEndTurn, Actor: SideP1})

	if got := next.Effects.AttackMod(unit.InstanceID, next.Turn.Number); got != 0 {
		t.Fatalf("rally buff must expire on turn rotation, got %d", got)
	}
}

func TestFortifyOutlivesTheTurn(t *testing.T) {
	s := newTestState()
	unit := placeUnit(s, SideP1, 0, abilityUnit("u-bulwark", cards.AbilityFortify, 2, 15, 1))

	next, _ := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})
	next, _ = mustResolve(t, next, Action{Type: ActionEndTurn, Actor: SideP1})

	if got := next.Effects.DefenseMod(unit.InstanceID, next.Turn.Number); got != 15 {
		t.Fatalf("fortify must survive one rotation, got %d", got)
	}
}

func TestSecondActivationSameTurnRejected(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 3))
	placeUnit(s, SideP1, 1, abilityUnit("u-bulwark", cards.AbilityFortify, 2, 15, 3))

	next, _ := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})

	// The lock is global for the turn, not per unit.
	mustReject(t, next, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 1}, RejectAbilityUsed)
	mustReject(t, next, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0}, RejectAbilityUsed)
}

func TestAbilityLockResetsNextTurn(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 3))
	placeUnit(s, SideP2, 0, abilityUnit("u-rival", cards.AbilityRally, 2, 10, 3))

	next, _ := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})
	next, _ = mustResolve(t, next, Action{Type: ActionEndTurn, Actor: SideP1})

	mustResolve(t, next, Action{Type: ActionActivateAbility, Actor: SideP2, Slot: 0})
}

func TestSilencedAbilityUnavailable(t *testing.T) {
	s := newTestState()
	unit := placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 1))
	unit.Silenced = true
	mustReject(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0}, RejectAbilityUnavailable)
}

func TestAbilityUseLimit(t *testing.T) {
	s := newTestState()
	unit := placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 1))
	unit.AbilityUses = 1
	mustReject(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0}, RejectAbilityUnavailable)
}

func TestAbilityInsufficientEnergy(t *testing.T) {
	s := newTestState()
	s.Player(SideP1).Energy = 1
	placeUnit(s, SideP1, 0, abilityUnit("u-captain", cards.AbilityRally, 2, 10, 1))
	mustReject(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0}, RejectInsufficientEnergy)
}

func TestNoAbilityUnit(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-plain", 3, 20, 10, 30))
	mustReject(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0}, RejectAbilityUnavailable)
}

func TestDrainDamagesAndHeals(t *testing.T) {
	s := newTestState()
	s.Player(SideP1).HP = 70
	placeUnit(s, SideP1, 0, abilityUnit("u-vampire", cards.AbilityDrain, 3, 12, 1))

	next, events := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})

	if got := next.Player(SideP2).HP; got != 88 {
		t.Fatalf("expected opponent hp 88, got %d", got)
	}
	if got := next.Player(SideP1).HP; got != 82 {
		t.Fatalf("expected caster hp 82, got %d", got)
	}
	if !hasEvent(events, EventPlayerDamaged) || !hasEvent(events, EventPlayerHealed) {
		t.Fatalf("expected damage and heal events, got %v", events)
	}
}

func TestDrainCanEndMatch(t *testing.T) {
	s := newTestState()
	s.Player(SideP2).HP = 10
	placeUnit(s, SideP1, 0, abilityUnit("u-vampire", cards.AbilityDrain, 3, 12, 1))

	next, _ := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})

	if !next.Ended() || next.Winner != SideP1 {
		t.Fatalf("expected P1 win, ended=%v winner=%s", next.Ended(), next.Winner)
	}
}

func TestInsightDrawsACard(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, abilityUnit("u-sage", cards.AbilityInsight, 1, 0, 1))
	s.Player(SideP1).Deck = []cards.Card{unitCard("u-next", 1, 5, 5, 10)}

	next, _ := mustResolve(t, s, Action{Type: ActionActivateAbility, Actor: SideP1, Slot: 0})

	if len(next.Player(SideP1).Hand) != 1 {
		t.Fatalf("expected one card drawn")
	}
	if len(next.Player(SideP1).Deck) != 0 {
		t.Fatalf("expected deck emptied")
	}
}
