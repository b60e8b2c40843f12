package battle

import (
	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// Side identifies one of the two players.
type Side string

const (
	SideP1 Side = "P1"
	SideP2 Side = "P2"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideP1 {
		return SideP2
	}
	return SideP1
}

// Valid reports whether s is one of the two playable sides.
func (s Side) Valid() bool { return s == SideP1 || s == SideP2 }

// Phase is the turn phase. There is a single action phase; ENDED is terminal.
type Phase string

const (
	PhaseMain  Phase = "MAIN"
	PhaseEnded Phase = "ENDED"
)

// BoardSlots is the fixed number of board positions per side.
const BoardSlots = 3

// TurnContext carries the per-turn flags. It is a value: resolvers produce a
// fresh copy for the next state instead of mutating it in place.
type TurnContext struct {
	Owner         Side  `json:"owner"`
	Number        int   `json:"number"`
	Phase         Phase `json:"phase"`
	HasAttacked   bool  `json:"has_attacked"`
	AbilityUsed   bool  `json:"ability_used"`
	AbilityUsedBy Side  `json:"ability_used_by,omitempty"`
}

// UnitInstance is a live unit occupying a board slot. Stats are the summon-time
// snapshot; temporal modifiers live in the effect ledger and are applied
// lazily at evaluation points.
type UnitInstance struct {
	InstanceID    string            `json:"instance_id"`
	CardID        string            `json:"card_id"`
	Name          string            `json:"name"`
	Owner         Side              `json:"owner"`
	OriginalOwner Side              `json:"original_owner"`
	Life          int               `json:"life"`
	LifeMax       int               `json:"life_max"`
	Attack        int               `json:"attack"`
	Defense       int               `json:"defense"`
	HasAbility    bool              `json:"has_ability"`
	Ability       cards.AbilityKind `json:"ability,omitempty"`
	AbilityCost   int               `json:"ability_cost,omitempty"`
	AbilityAmount int               `json:"ability_amount,omitempty"`
	AbilityLimit  int               `json:"ability_limit,omitempty"`
	AbilityUses   int               `json:"ability_uses,omitempty"`
	Passive       cards.PassiveKind `json:"passive,omitempty"`
	PassiveAmount int               `json:"passive_amount,omitempty"`
	Silenced      bool              `json:"silenced,omitempty"`
	SummonedTurn  int               `json:"summoned_turn"`
}

func (u *UnitInstance) clone() *UnitInstance {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// PlayerState is one side's resources and zones.
type PlayerState struct {
	HP        int                       `json:"hp"`
	Energy    int                       `json:"energy"`
	EnergyMax int                       `json:"energy_max"`
	Deck      []cards.Card              `json:"deck"`
	Hand      []cards.Card              `json:"hand"`
	Discard   []cards.Card              `json:"discard"`
	Board     [BoardSlots]*UnitInstance `json:"board"`
}

func (p *PlayerState) clone() *PlayerState {
	c := &PlayerState{
		HP:        p.HP,
		Energy:    p.Energy,
		EnergyMax: p.EnergyMax,
		Deck:      append([]cards.Card(nil), p.Deck...),
		Hand:      append([]cards.Card(nil), p.Hand...),
		Discard:   append([]cards.Card(nil), p.Discard...),
	}
	for i, u := range p.Board {
		c.Board[i] = u.clone()
	}
	return c
}

// handIndex returns the position of cardID in the hand, or -1.
func (p *PlayerState) handIndex(cardID string) int {
	for i, c := range p.Hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// discardIndex returns the position of cardID in the discard pile, or -1.
func (p *PlayerState) discardIndex(cardID string) int {
	for i, c := range p.Discard {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

// BattleState is the sole unit of truth for one match. It is mutated only by
// resolver commits; Version increments exactly once per committed transition.
type BattleState struct {
	MatchID string                `json:"match_id"`
	Version int64                 `json:"version"`
	Seed    int64                 `json:"seed"`
	Turn    TurnContext           `json:"turn"`
	Players map[Side]*PlayerState `json:"players"`
	Effects effects.Ledger        `json:"effects"`
	Winner  Side                  `json:"winner,omitempty"`
}

// Player returns the state for a side. The side must exist.
func (s *BattleState) Player(side Side) *PlayerState {
	return s.Players[side]
}

// Ended reports whether the match is over.
func (s *BattleState) Ended() bool { return s.Turn.Phase == PhaseEnded }

// Clone returns a deep copy of the state. Resolvers mutate a clone and the
// caller commits it only on success, so a rejected or failed transition never
// leaves partial mutation behind.
func (s *BattleState) Clone() *BattleState {
	c := &BattleState{
		MatchID: s.MatchID,
		Version: s.Version,
		Seed:    s.Seed,
		Turn:    s.Turn,
		Players: make(map[Side]*PlayerState, len(s.Players)),
		Effects: s.Effects.Clone(),
		Winner:  s.Winner,
	}
	for side, p := range s.Players {
		c.Players[side] = p.clone()
	}
	return c
}

// CardCount returns the number of card instances a side owns across deck,
// hand, discard and board. Conserved across transitions that contain no
// explicit creation or destruction event.
func (s *BattleState) CardCount(side Side) int {
	p := s.Players[side]
	n := len(p.Deck) + len(p.Hand) + len(p.Discard)
	for _, u := range p.Board {
		if u != nil && u.OriginalOwner == side {
			n++
		}
	}
	// Units controlled by the opponent but originally owned by this side.
	for _, u := range s.Players[side.Opponent()].Board {
		if u != nil && u.OriginalOwner == side {
			n++
		}
	}
	return n
}
