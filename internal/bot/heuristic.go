package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/duelforge/duel-server-go/internal/battle"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// LocalProposer is the built-in heuristic bot. It plays greedily: develop the
// board, use an ability, then attack. Difficulty changes card selection and
// attack targeting, not the rule knowledge.
type LocalProposer struct {
	log *zap.Logger
}

// NewLocalProposer builds a heuristic proposer.
func NewLocalProposer(log *zap.Logger) *LocalProposer {
	return &LocalProposer{log: log}
}

// Propose picks the next action for the side to move. The returned action is
// always well-formed; whether it is legal is the engine's call.
func (p *LocalProposer) Propose(_ context.Context, state *battle.BattleState, difficulty Difficulty) (battle.Action, error) {
	if !difficulty.Valid() {
		difficulty = DifficultyNormal
	}
	side := state.Turn.Owner

	if a, ok := p.proposeSummon(state, side, difficulty); ok {
		return a, nil
	}
	if difficulty != DifficultyEasy {
		if a, ok := p.proposeSpell(state, side); ok {
			return a, nil
		}
		if a, ok := p.proposeAbility(state, side); ok {
			return a, nil
		}
	}
	if a, ok := p.proposeAttack(state, side, difficulty); ok {
		return a, nil
	}

	p.log.Debug("bot has no play, ending turn",
		zap.String("match_id", state.MatchID),
		zap.String("side", string(side)),
	)
	return battle.Action{Type: battle.ActionEndTurn, Actor: side}, nil
}

func (p *LocalProposer) proposeSummon(state *battle.BattleState, side battle.Side, difficulty Difficulty) (battle.Action, bool) {
	me := state.Player(side)

	slot := -1
	for i, u := range me.Board {
		if u == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		return battle.Action{}, false
	}

	best := -1
	for i, c := range me.Hand {
		if !c.IsUnit() || c.Cost > me.Energy {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		// Easy drops its cheapest card, the others the biggest affordable one.
		if difficulty == DifficultyEasy {
			if c.Cost < me.Hand[best].Cost {
				best = i
			}
		} else if c.Cost > me.Hand[best].Cost {
			best = i
		}
	}
	if best < 0 {
		return battle.Action{}, false
	}
	return battle.Action{
		Type:   battle.ActionPlayCard,
		Actor:  side,
		CardID: me.Hand[best].ID,
		Slot:   slot,
	}, true
}

// proposeSpell casts only untargeted spells the bot can reason about
// mechanically: a heal when hurt, a ward when the enemy board is loaded.
func (p *LocalProposer) proposeSpell(state *battle.BattleState, side battle.Side) (battle.Action, bool) {
	me := state.Player(side)

	enemyUnits := 0
	for _, u := range state.Player(side.Opponent()).Board {
		if u != nil {
			enemyUnits++
		}
	}

	for _, c := range me.Hand {
		if !c.IsSpell() || c.Spell == nil || c.Cost > me.Energy {
			continue
		}
		switch c.Spell.Kind {
		case cards.SpellMend:
			if me.HP <= 50 {
				return battle.Action{
					Type: battle.ActionCastSpell, Actor: side,
					CardID: c.ID, TargetSlot: -1,
				}, true
			}
		case cards.SpellWard:
			if !c.Spell.Redirect && enemyUnits >= 2 {
				return battle.Action{
					Type: battle.ActionCastSpell, Actor: side,
					CardID: c.ID, TargetSlot: -1,
				}, true
			}
		}
	}
	return battle.Action{}, false
}

func (p *LocalProposer) proposeAbility(state *battle.BattleState, side battle.Side) (battle.Action, bool) {
	if state.Turn.AbilityUsed || state.Turn.HasAttacked {
		return battle.Action{}, false
	}
	me := state.Player(side)
	for slot, u := range me.Board {
		if u == nil || !u.HasAbility || u.Silenced {
			continue
		}
		if u.AbilityUses >= u.AbilityLimit || u.AbilityCost > me.Energy {
			continue
		}
		return battle.Action{Type: battle.ActionActivateAbility, Actor: side, Slot: slot}, true
	}
	return battle.Action{}, false
}

func (p *LocalProposer) proposeAttack(state *battle.BattleState, side battle.Side, difficulty Difficulty) (battle.Action, bool) {
	if state.Turn.HasAttacked {
		return battle.Action{}, false
	}
	me := state.Player(side)
	opp := state.Player(side.Opponent())
	turn := state.Turn.Number

	bestSlot, bestScore := -1, -1
	for slot, u := range me.Board {
		if u == nil {
			continue
		}
		atk := u.Attack + state.Effects.AttackMod(u.InstanceID, turn)
		if atk <= 0 {
			continue
		}
		score := attackScore(difficulty, atk, opp.Board[slot], state, turn)
		if score > bestScore {
			bestSlot, bestScore = slot, score
		}
	}
	if bestSlot < 0 {
		return battle.Action{}, false
	}
	return battle.Action{Type: battle.ActionAttack, Actor: side, Slot: bestSlot}, true
}

// attackScore ranks an attack lane. Hard favors lethal trades and open lanes;
// the others just swing with the biggest unit.
func attackScore(d Difficulty, atk int, defender *battle.UnitInstance, state *battle.BattleState, turn int) int {
	if d != DifficultyHard {
		return atk
	}
	if defender == nil {
		return 1000 + atk
	}
	dmg := atk - (defender.Defense + state.Effects.DefenseMod(defender.InstanceID, turn))
	if dmg >= defender.Life {
		return 500 + dmg
	}
	if dmg <= 0 {
		return 0
	}
	return dmg
}
