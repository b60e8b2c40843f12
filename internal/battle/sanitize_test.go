package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

func TestViewHidesOpponentHandAndDecks(t *testing.T) {
	s := newTestState()
	s.Player(SideP1).Hand = []cards.Card{unitCard("u-mine", 2, 10, 5, 20)}
	s.Player(SideP1).Deck = testDeck("p1", 4, 1)
	s.Player(SideP2).Hand = []cards.Card{
		unitCard("u-secret-a", 2, 10, 5, 20),
		unitCard("u-secret-b", 3, 15, 5, 25),
	}
	s.Player(SideP2).Discard = []cards.Card{unitCard("u-dead", 1, 5, 5, 10)}

	v := BuildView(s, SideP1)

	require.Len(t, v.You.Hand, 1)
	assert.Equal(t, "u-mine", v.You.Hand[0].ID)
	assert.Equal(t, 4, v.You.DeckCount)

	assert.Equal(t, 2, v.Opponent.HandCount)
	assert.Empty(t, v.Opponent.RevealedHand, "no reveal effect, no cards listed")
	// Discard piles are public.
	require.Len(t, v.Opponent.Discard, 1)
	assert.Equal(t, "u-dead", v.Opponent.Discard[0].ID)
}

func TestViewRevealsFullHand(t *testing.T) {
	s := newTestState()
	s.Player(SideP2).Hand = []cards.Card{
		unitCard("u-secret-a", 2, 10, 5, 20),
		unitCard("u-secret-b", 3, 15, 5, 25),
	}
	reveal := effects.New(effects.KindRevealHand, string(SideP2), string(SideP1))
	reveal.ExpiresAtTurn = s.Turn.Number + 1
	s.Effects.Append(reveal)

	v := BuildView(s, SideP1)
	require.Len(t, v.Opponent.RevealedHand, 2)

	// The reveal belongs to P1; P2 looking at P1 sees nothing extra.
	v2 := BuildView(s, SideP2)
	assert.Empty(t, v2.Opponent.RevealedHand)
}

func TestViewRevealsSingleCard(t *testing.T) {
	s := newTestState()
	s.Player(SideP2).Hand = []cards.Card{
		unitCard("u-secret-a", 2, 10, 5, 20),
		unitCard("u-known", 3, 15, 5, 25),
	}
	reveal := effects.New(effects.KindRevealHandCard, string(SideP2), string(SideP1))
	reveal.CardIDs = []string{"u-known"}
	s.Effects.Append(reveal)

	v := BuildView(s, SideP1)
	require.Len(t, v.Opponent.RevealedHand, 1)
	assert.Equal(t, "u-known", v.Opponent.RevealedHand[0].ID)
	assert.Equal(t, 2, v.Opponent.HandCount)
}

func TestViewFoldsModifiersIntoUnitStats(t *testing.T) {
	s := newTestState()
	unit := placeUnit(s, SideP1, 0, unitCard("u-grunt", 3, 20, 10, 30))
	buff := effects.New(effects.KindAttackMod, string(SideP1), string(SideP1))
	buff.UnitID = unit.InstanceID
	buff.Amount = 15
	buff.ExpiresAtTurn = s.Turn.Number
	s.Effects.Append(buff)

	v := BuildView(s, SideP1)
	got := v.You.Board[0]
	require.NotNil(t, got)
	assert.Equal(t, 35, got.Attack)
	assert.Equal(t, 20, got.BaseAttack)
	assert.Equal(t, 10, got.Defense)
}

func TestViewFiltersHiddenEffects(t *testing.T) {
	s := newTestState()
	// P2's armed ward is hidden from P1.
	ward := effects.New(effects.KindNextAttackBlock, string(SideP2), string(SideP2))
	s.Effects.Append(ward)
	// P1's own buff is visible to its causer.
	buff := effects.New(effects.KindAttackMod, string(SideP1), string(SideP1))
	buff.Amount = 5
	s.Effects.Append(buff)

	v := BuildView(s, SideP1)
	require.Len(t, v.Effects, 1)
	assert.Equal(t, effects.KindAttackMod, v.Effects[0].Kind)

	v2 := BuildView(s, SideP2)
	require.Len(t, v2.Effects, 1)
	assert.Equal(t, effects.KindNextAttackBlock, v2.Effects[0].Kind)
}

func TestViewDoesNotAliasState(t *testing.T) {
	s := newTestState()
	s.Player(SideP1).Hand = []cards.Card{unitCard("u-mine", 2, 10, 5, 20)}

	v := BuildView(s, SideP1)
	v.You.Hand[0].ID = "mutated"

	assert.Equal(t, "u-mine", s.Player(SideP1).Hand[0].ID)
}

func TestViewCarriesOutcome(t *testing.T) {
	s := newTestState()
	s.Turn.Phase = PhaseEnded
	s.Winner = SideP2

	v := BuildView(s, SideP1)
	assert.True(t, v.Ended)
	assert.Equal(t, SideP2, v.Winner)
}
