package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/duelforge/duel-server-go/internal/battle"
	"github.com/duelforge/duel-server-go/internal/bot"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// cmd/sim plays a seeded bot-vs-bot match on the local rules engine and
// prints every event. Useful for balancing cards and for reproducing bug
// reports: the same seed and catalog always replay the same match.
var (
	cardsPath  = flag.String("cards", "", "path to card catalog YAML (empty uses a built-in demo set)")
	seed       = flag.Int64("seed", 1, "battle seed")
	maxActions = flag.Int("max-actions", 500, "hard stop on total actions")
	difficulty = flag.String("difficulty", "hard", "bot difficulty for both sides")
	verbose    = flag.Bool("v", false, "log every event")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	catalog, err := loadCatalog(logger)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}

	var deck []string
	for _, c := range catalog.All() {
		deck = append(deck, c.ID)
	}
	deckCards, err := catalog.Deck(deck)
	if err != nil {
		logger.Fatal("failed to build deck", zap.Error(err))
	}

	state, events, err := battle.NewBattle("sim", map[battle.Side][]cards.Card{
		battle.SideP1: deckCards,
		battle.SideP2: deckCards,
	}, battle.WithSeed(*seed))
	if err != nil {
		logger.Fatal("failed to create battle", zap.Error(err))
	}
	logEvents(logger, events)

	proposer := bot.NewLocalProposer(logger)
	diff := bot.Difficulty(*difficulty)
	ctx := context.Background()

	actions := 0
	for !state.Ended() && actions < *maxActions {
		side := state.Turn.Owner

		action, err := proposer.Propose(ctx, state.Clone(), diff)
		if err != nil {
			logger.Fatal("proposer failed", zap.Error(err))
		}
		action.Actor = side

		next, events, rej := battle.Resolve(state, action)
		if rej != nil {
			// The heuristic should never produce an illegal action;
			// treat it as a bug and bail out loudly.
			logger.Fatal("bot proposed illegal action",
				zap.String("action", string(action.Type)),
				zap.String("rejection", rej.String()),
			)
		}
		state = next
		actions++
		logEvents(logger, events)
	}

	if state.Ended() {
		logger.Info("match finished",
			zap.String("winner", string(state.Winner)),
			zap.Int("turns", state.Turn.Number),
			zap.Int("actions", actions),
			zap.Int64("seed", *seed),
		)
	} else {
		logger.Warn("action limit reached without a winner",
			zap.Int("actions", actions),
			zap.Int("turn", state.Turn.Number),
		)
	}
}

func loadCatalog(logger *zap.Logger) (*cards.Catalog, error) {
	if *cardsPath != "" {
		return cards.LoadCatalog(*cardsPath, logger)
	}
	return cards.NewCatalog(demoSet())
}

func logEvents(logger *zap.Logger, events []battle.Event) {
	if !*verbose {
		return
	}
	for _, e := range events {
		logger.Info(string(e.Type), zap.Any("payload", e.Payload))
	}
}

// demoSet is a small self-contained catalog exercising every card mechanic.
func demoSet() []cards.Card {
	return []cards.Card{
		{ID: "recruit", Name: "Recruit", Type: cards.TypeUnit, Cost: 1, Attack: 10, Defense: 0, Life: 20},
		{ID: "shieldbearer", Name: "Shieldbearer", Type: cards.TypeUnit, Cost: 2, Attack: 5, Defense: 15, Life: 30},
		{ID: "lancer", Name: "Lancer", Type: cards.TypeUnit, Cost: 3, Attack: 20, Defense: 5, Life: 25,
			Passive: cards.PassivePierce, PassiveAmount: 10},
		{ID: "leech", Name: "Leech", Type: cards.TypeUnit, Cost: 3, Attack: 15, Defense: 0, Life: 25,
			Passive: cards.PassiveLifesteal},
		{ID: "golem", Name: "Golem", Type: cards.TypeUnit, Cost: 4, Attack: 15, Defense: 10, Life: 50,
			Passive: cards.PassiveStoneskinPct, PassiveAmount: 30},
		{ID: "berserker", Name: "Berserker", Type: cards.TypeUnit, Cost: 5, Attack: 35, Defense: 0, Life: 30,
			Passive: cards.PassiveOverflow},
		{ID: "reaper", Name: "Reaper", Type: cards.TypeUnit, Cost: 6, Attack: 25, Defense: 5, Life: 35,
			Passive: cards.PassiveCleave},
		{ID: "captain", Name: "Captain", Type: cards.TypeUnit, Cost: 4, Attack: 15, Defense: 5, Life: 30,
			Ability: &cards.Ability{Kind: cards.AbilityRally, Cost: 2, Amount: 10, Limit: 2}},
		{ID: "sage", Name: "Sage", Type: cards.TypeUnit, Cost: 3, Attack: 5, Defense: 5, Life: 20,
			Ability: &cards.Ability{Kind: cards.AbilityInsight, Cost: 1, Limit: 1, OnSummon: true}},
		{ID: "vampire-lord", Name: "Vampire Lord", Type: cards.TypeUnit, Cost: 5, Attack: 20, Defense: 5, Life: 35,
			Ability: &cards.Ability{Kind: cards.AbilityDrain, Cost: 3, Amount: 10, Limit: 2}},
		{ID: "sharpen", Name: "Sharpen", Type: cards.TypeSpell, Cost: 2,
			Spell: &cards.Spell{Kind: cards.SpellStatModifier, Stat: cards.StatAttack, Amount: 10, Duration: 1}},
		{ID: "mend", Name: "Mend", Type: cards.TypeSpell, Cost: 2,
			Spell: &cards.Spell{Kind: cards.SpellMend, Heal: 20, Amount: 5, Duration: 1}},
		{ID: "foresee", Name: "Foresee", Type: cards.TypeSpell, Cost: 2,
			Spell: &cards.Spell{Kind: cards.SpellForesee, Amount: 1}},
		{ID: "ward", Name: "Ward", Type: cards.TypeSpell, Cost: 3,
			Spell: &cards.Spell{Kind: cards.SpellWard}},
		{ID: "exhume", Name: "Exhume", Type: cards.TypeSpell, Cost: 3,
			Spell: &cards.Spell{Kind: cards.SpellExhumePartial, Percent: 50}},
		{ID: "raise", Name: "Raise", Type: cards.TypeSpell, Cost: 4,
			Spell: &cards.Spell{Kind: cards.SpellExhumeFull}},
	}
}
