package battle

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/duelforge/duel-server-go/internal/cards"
)

// LowCostThreshold is the maximum cost a card may have to count as a playable
// opening card for the mulligan check.
const LowCostThreshold = 2

const (
	defaultHandSize   = 5
	defaultStartingHP = 100
)

// Option tweaks battle setup.
type Option func(*setupConfig)

type setupConfig struct {
	seed     int64
	seedSet  bool
	handSize int
	startHP  int
}

// WithSeed fixes the random source so shuffles and mulligans are reproducible.
func WithSeed(seed int64) Option {
	return func(c *setupConfig) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithHandSize overrides the opening hand size.
func WithHandSize(n int) Option {
	return func(c *setupConfig) { c.handSize = n }
}

// WithStartingHP overrides each side's starting hp.
func WithStartingHP(hp int) Option {
	return func(c *setupConfig) { c.startHP = hp }
}

// NewBattle creates the initial state for a match: shuffled decks, opening
// hands, and a one-time mulligan per side when the opening hand has no
// low-cost play. If the redrawn hand still has none, the cheapest deck card
// is forced into the hand in exchange for the most expensive hand card.
func NewBattle(matchID string, decks map[Side][]cards.Card, opts ...Option) (*BattleState, []Event, error) {
	cfg := setupConfig{handSize: defaultHandSize, startHP: defaultStartingHP}
	for _, o := range opts {
		o(&cfg)
	}
	if !cfg.seedSet {
		cfg.seed = time.Now().UnixNano()
	}

	for _, side := range []Side{SideP1, SideP2} {
		if len(decks[side]) <= cfg.handSize {
			return nil, nil, fmt.Errorf("side %s deck has %d cards, need more than %d", side, len(decks[side]), cfg.handSize)
		}
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	state := &BattleState{
		MatchID: matchID,
		Version: 1,
		Seed:    cfg.seed,
		Turn:    TurnContext{Owner: SideP1, Number: 1, Phase: PhaseMain},
		Players: make(map[Side]*PlayerState, 2),
	}

	events := []Event{newEvent(EventMatchCreated, map[string]any{
		"match_id": matchID,
		"seed":     cfg.seed,
	})}

	for _, side := range []Side{SideP1, SideP2} {
		deck := append([]cards.Card(nil), decks[side]...)
		shuffle(rng, deck)

		p := &PlayerState{
			HP:   cfg.startHP,
			Deck: deck,
		}
		p.Hand, p.Deck = p.Deck[:cfg.handSize], p.Deck[cfg.handSize:]

		events = append(events, mulligan(rng, side, p, cfg.handSize)...)

		state.Players[side] = p
	}

	// The opening side starts with one energy; the other side gets its first
	// refill when its turn begins.
	state.Players[SideP1].Energy = 1
	state.Players[SideP1].EnergyMax = 1

	return state, events, nil
}

// mulligan redraws a hand with no low-cost card once, then force-swaps the
// cheapest deck card in if the redraw also came up unplayable.
func mulligan(rng *rand.Rand, side Side, p *PlayerState, handSize int) []Event {
	if hasLowCost(p.Hand) {
		return nil
	}

	p.Deck = append(p.Deck, p.Hand...)
	p.Hand = nil
	shuffle(rng, p.Deck)
	n := minInt(handSize, len(p.Deck))
	p.Hand, p.Deck = p.Deck[:n], p.Deck[n:]

	events := []Event{newEvent(EventMulliganTaken, map[string]any{
		"side":      side,
		"hand_size": len(p.Hand),
	})}

	if hasLowCost(p.Hand) {
		return events
	}

	// Force the cheapest deck card into the hand, returning the most
	// expensive hand card to the bottom of the deck.
	cheapest := -1
	for i, c := range p.Deck {
		if cheapest < 0 || c.Cost < p.Deck[cheapest].Cost {
			cheapest = i
		}
	}
	if cheapest < 0 {
		return events
	}
	priciest := 0
	for i, c := range p.Hand {
		if c.Cost > p.Hand[priciest].Cost {
			priciest = i
		}
	}

	forced := p.Deck[cheapest]
	p.Deck = append(p.Deck[:cheapest], p.Deck[cheapest+1:]...)
	returned := p.Hand[priciest]
	p.Hand[priciest] = forced
	p.Deck = append(p.Deck, returned)

	return append(events, newEvent(EventCardForced, map[string]any{
		"side":             side,
		"card_id":          forced.ID,
		"returned_card_id": returned.ID,
	}))
}

func hasLowCost(hand []cards.Card) bool {
	for _, c := range hand {
		if c.Cost <= LowCostThreshold {
			return true
		}
	}
	return false
}

func shuffle(rng *rand.Rand, deck []cards.Card) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
