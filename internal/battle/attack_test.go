package battle

import (
	"testing"

	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

func TestAttackEmptySlotHitsPlayer(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 60, 10, 40))

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if got := next.Player(SideP2).HP; got != 40 {
		t.Fatalf("expected defender hp 40, got %d", got)
	}
	if !hasEvent(events, EventPlayerDamaged) {
		t.Fatalf("expected PLAYER_DAMAGED event")
	}
	if s.Player(SideP2).HP != 100 {
		t.Fatalf("input state mutated: hp %d", s.Player(SideP2).HP)
	}
}

func TestAttackFullyAbsorbedByDefense(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 1, unitCard("u-striker", 3, 60, 0, 40))
	defender := placeUnit(s, SideP2, 1, unitCard("u-wall", 4, 10, 80, 50))
	s.Player(SideP1).Board[1].Passive = cards.PassiveLifesteal
	s.Player(SideP1).Board[1].PassiveAmount = 1

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 1})

	got := next.Player(SideP2).Board[1]
	if got.Life != defender.Life {
		t.Fatalf("expected no damage, life %d -> %d", defender.Life, got.Life)
	}
	if hasEvent(events, EventLifeStolen) {
		t.Fatalf("lifesteal must not trigger on zero damage")
	}
	if next.Player(SideP1).HP != 100 {
		t.Fatalf("attacker hp changed on zero damage: %d", next.Player(SideP1).HP)
	}
}

func TestAttackEndsTurn(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 20, 0, 40))

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if next.Turn.Owner != SideP2 {
		t.Fatalf("expected turn to pass to P2, owner %s", next.Turn.Owner)
	}
	if next.Version != s.Version+1 {
		t.Fatalf("expected version %d, got %d", s.Version+1, next.Version)
	}
	if !hasEvent(events, EventTurnEnded) || !hasEvent(events, EventTurnStarted) {
		t.Fatalf("expected turn rotation events, got %v", events)
	}

	// The attacker no longer owns the turn, so a second attack is refused.
	mustReject(t, next, Action{Type: ActionAttack, Actor: SideP1, Slot: 0}, RejectNotYourTurn)
}

func TestAttackLethalDestroysUnit(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 50, 0, 40))
	placeUnit(s, SideP2, 0, unitCard("u-frail", 2, 10, 5, 20))

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if next.Player(SideP2).Board[0] != nil {
		t.Fatalf("expected defender destroyed")
	}
	if !hasEvent(events, EventUnitDestroyed) {
		t.Fatalf("expected UNIT_DESTROYED event")
	}
	if n := len(next.Player(SideP2).Discard); n != 1 {
		t.Fatalf("expected card in owner discard, got %d", n)
	}
	if next.Player(SideP2).Discard[0].ID != "u-frail" {
		t.Fatalf("wrong card discarded: %s", next.Player(SideP2).Discard[0].ID)
	}
}

func TestPierceIgnoresDefenseBeforeFloor(t *testing.T) {
	s := newTestState()
	atk := placeUnit(s, SideP1, 0, unitCard("u-lance", 3, 30, 0, 40))
	atk.Passive = cards.PassivePierce
	atk.PassiveAmount = 25
	placeUnit(s, SideP2, 0, unitCard("u-wall", 4, 5, 20, 60))

	// effDef = 20 - 25 floored to 0, so full 30 lands.
	next, _ := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})
	if got := next.Player(SideP2).Board[0].Life; got != 30 {
		t.Fatalf("expected defender life 30, got %d", got)
	}
}

func TestStoneskinReducesAfterDefense(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 50, 0, 40))
	def := placeUnit(s, SideP2, 0, unitCard("u-stone", 4, 5, 10, 60))
	def.Passive = cards.PassiveStoneskinPct
	def.PassiveAmount = 50

	// 50 - 10 = 40, halved to 20.
	next, _ := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})
	if got := next.Player(SideP2).Board[0].Life; got != 40 {
		t.Fatalf("expected defender life 40, got %d", got)
	}
}

func TestSilencedStoneskinDoesNotReduce(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 50, 0, 40))
	def := placeUnit(s, SideP2, 0, unitCard("u-stone", 4, 5, 10, 60))
	def.Passive = cards.PassiveStoneskinFlat
	def.PassiveAmount = 30
	def.Silenced = true

	next, _ := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})
	if got := next.Player(SideP2).Board[0].Life; got != 20 {
		t.Fatalf("expected defender life 20, got %d", got)
	}
}

func TestOverflowCarriesExcessToPlayer(t *testing.T) {
	s := newTestState()
	atk := placeUnit(s, SideP1, 0, unitCard("u-brute", 5, 70, 0, 60))
	atk.Passive = cards.PassiveOverflow
	placeUnit(s, SideP2, 0, unitCard("u-frail", 2, 10, 0, 30))

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if next.Player(SideP2).Board[0] != nil {
		t.Fatalf("expected defender destroyed")
	}
	// 70 damage, 30 life: 40 overflows.
	if got := next.Player(SideP2).HP; got != 60 {
		t.Fatalf("expected defender player hp 60, got %d", got)
	}
	if !hasEvent(events, EventPlayerDamaged) {
		t.Fatalf("expected PLAYER_DAMAGED from overflow")
	}
}

func TestCleaveSplashesHalfDamage(t *testing.T) {
	s := newTestState()
	atk := placeUnit(s, SideP1, 1, unitCard("u-axe", 5, 40, 0, 60))
	atk.Passive = cards.PassiveCleave
	placeUnit(s, SideP2, 0, unitCard("u-side", 2, 5, 0, 50))
	placeUnit(s, SideP2, 1, unitCard("u-main", 3, 5, 0, 50))

	next, _ := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 1})

	if got := next.Player(SideP2).Board[1].Life; got != 10 {
		t.Fatalf("expected primary target life 10, got %d", got)
	}
	if got := next.Player(SideP2).Board[0].Life; got != 30 {
		t.Fatalf("expected splash target life 30, got %d", got)
	}
}

func TestLifestealHealsOnDamage(t *testing.T) {
	s := newTestState()
	s.Player(SideP1).HP = 50
	atk := placeUnit(s, SideP1, 0, unitCard("u-leech", 3, 40, 0, 40))
	atk.Passive = cards.PassiveLifesteal
	placeUnit(s, SideP2, 0, unitCard("u-target", 2, 10, 10, 60))

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	// 40 - 10 = 30 damage, healed back to the attacker.
	if got := next.Player(SideP1).HP; got != 80 {
		t.Fatalf("expected attacker hp 80, got %d", got)
	}
	if !hasEvent(events, EventLifeStolen) {
		t.Fatalf("expected LIFE_STOLEN event")
	}
}

func TestSilenceOnHitSilencesSurvivor(t *testing.T) {
	s := newTestState()
	atk := placeUnit(s, SideP1, 0, unitCard("u-hush", 3, 20, 0, 40))
	atk.Passive = cards.PassiveSilenceOnHit
	def := placeUnit(s, SideP2, 0, unitCard("u-target", 2, 10, 0, 60))
	def.Passive = cards.PassiveStoneskinFlat
	def.PassiveAmount = 5

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	got := next.Player(SideP2).Board[0]
	if !got.Silenced {
		t.Fatalf("expected defender silenced")
	}
	if !hasEvent(events, EventUnitSilenced) {
		t.Fatalf("expected UNIT_SILENCED event")
	}
}

func TestWardBlockConsumesAndCancels(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 60, 0, 40))
	block := effects.New(effects.KindNextAttackBlock, string(SideP2), string(SideP2))
	s.Effects.Append(block)

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if got := next.Player(SideP2).HP; got != 100 {
		t.Fatalf("blocked attack dealt damage, hp %d", got)
	}
	if !hasEvent(events, EventAttackBlocked) || !hasEvent(events, EventEffectConsumed) {
		t.Fatalf("expected block and consume events, got %v", events)
	}
	if len(next.Effects) != 0 {
		t.Fatalf("block effect not consumed")
	}
	if next.Turn.Owner != SideP2 {
		t.Fatalf("blocked attack must still end the turn")
	}
}

func TestWardRedirectMovesDefenderSlot(t *testing.T) {
	s := newTestState()
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 30, 0, 40))
	placeUnit(s, SideP2, 0, unitCard("u-intended", 2, 5, 0, 50))
	placeUnit(s, SideP2, 2, unitCard("u-decoy", 2, 5, 0, 50))
	redir := effects.New(effects.KindNextAttackRedirect, string(SideP2), string(SideP2))
	redir.Amount = 2
	s.Effects.Append(redir)

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if got := next.Player(SideP2).Board[0].Life; got != 50 {
		t.Fatalf("intended target took damage, life %d", got)
	}
	if got := next.Player(SideP2).Board[2].Life; got != 20 {
		t.Fatalf("expected decoy life 20, got %d", got)
	}
	if !hasEvent(events, EventAttackRedirect) {
		t.Fatalf("expected ATTACK_REDIRECTED event")
	}
}

func TestLethalPlayerDamageEndsMatch(t *testing.T) {
	s := newTestState()
	s.Player(SideP2).HP = 30
	placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 60, 0, 40))

	next, events := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})

	if !next.Ended() {
		t.Fatalf("expected match ended")
	}
	if next.Winner != SideP1 {
		t.Fatalf("expected winner P1, got %s", next.Winner)
	}
	if next.Player(SideP2).HP != 0 {
		t.Fatalf("hp must clamp at zero, got %d", next.Player(SideP2).HP)
	}
	if !hasEvent(events, EventMatchEnded) {
		t.Fatalf("expected MATCH_ENDED event")
	}

	mustReject(t, next, Action{Type: ActionEndTurn, Actor: SideP1}, RejectMatchEnded)
}

func TestAttackEmptyAttackerSlotRejected(t *testing.T) {
	s := newTestState()
	mustReject(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0}, RejectEmptySlot)
}

func TestAttackModAppliesToStrike(t *testing.T) {
	s := newTestState()
	atk := placeUnit(s, SideP1, 0, unitCard("u-striker", 3, 20, 0, 40))
	buff := effects.New(effects.KindAttackMod, string(SideP1), string(SideP1))
	buff.UnitID = atk.InstanceID
	buff.Amount = 15
	buff.ExpiresAtTurn = s.Turn.Number
	s.Effects.Append(buff)

	next, _ := mustResolve(t, s, Action{Type: ActionAttack, Actor: SideP1, Slot: 0})
	if got := next.Player(SideP2).HP; got != 65 {
		t.Fatalf("expected hp 65 after buffed strike, got %d", got)
	}
}
