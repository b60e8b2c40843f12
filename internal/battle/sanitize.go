package battle

import (
	"github.com/duelforge/duel-server-go/internal/battle/effects"
	"github.com/duelforge/duel-server-go/internal/cards"
)

// View is the battle as one participant is allowed to see it. Hidden zones
// are reduced to counts; the opponent's hand is listed only to the extent an
// active reveal effect grants visibility.
type View struct {
	MatchID  string           `json:"match_id"`
	Version  int64            `json:"version"`
	Viewer   Side             `json:"viewer"`
	Turn     TurnContext      `json:"turn"`
	You      PlayerView       `json:"you"`
	Opponent OpponentView     `json:"opponent"`
	Effects  []effects.Effect `json:"effects,omitempty"`
	Winner   Side             `json:"winner,omitempty"`
	Ended    bool             `json:"ended"`
}

// PlayerView is the viewer's own side. The hand is fully listed; the deck is
// a count so even its owner cannot read the draw order.
type PlayerView struct {
	HP        int                   `json:"hp"`
	Energy    int                   `json:"energy"`
	EnergyMax int                   `json:"energy_max"`
	DeckCount int                   `json:"deck_count"`
	Hand      []cards.Card          `json:"hand"`
	Discard   []cards.Card          `json:"discard"`
	Board     [BoardSlots]*UnitView `json:"board"`
}

// OpponentView hides the opposing hand behind a count unless a reveal effect
// is active for the viewer. Discard piles and boards are public.
type OpponentView struct {
	HP           int                   `json:"hp"`
	Energy       int                   `json:"energy"`
	EnergyMax    int                   `json:"energy_max"`
	DeckCount    int                   `json:"deck_count"`
	HandCount    int                   `json:"hand_count"`
	RevealedHand []cards.Card          `json:"revealed_hand,omitempty"`
	Discard      []cards.Card          `json:"discard"`
	Board        [BoardSlots]*UnitView `json:"board"`
}

// UnitView is a board unit with its ledger modifiers already folded into the
// effective stats, so clients never need the ledger to render combat numbers.
type UnitView struct {
	InstanceID   string            `json:"instance_id"`
	CardID       string            `json:"card_id"`
	Name         string            `json:"name"`
	Life         int               `json:"life"`
	LifeMax      int               `json:"life_max"`
	Attack       int               `json:"attack"`
	Defense      int               `json:"defense"`
	BaseAttack   int               `json:"base_attack"`
	BaseDefense  int               `json:"base_defense"`
	HasAbility   bool              `json:"has_ability"`
	Ability      cards.AbilityKind `json:"ability,omitempty"`
	AbilityCost  int               `json:"ability_cost,omitempty"`
	AbilityUses  int               `json:"ability_uses,omitempty"`
	AbilityLimit int               `json:"ability_limit,omitempty"`
	Passive      cards.PassiveKind `json:"passive,omitempty"`
	Silenced     bool              `json:"silenced,omitempty"`
}

// BuildView projects the state for one viewer. The input state is never
// mutated; every slice in the view is freshly allocated.
func BuildView(s *BattleState, viewer Side) View {
	you := s.Player(viewer)
	oppSide := viewer.Opponent()
	opp := s.Player(oppSide)
	turn := s.Turn.Number

	v := View{
		MatchID: s.MatchID,
		Version: s.Version,
		Viewer:  viewer,
		Turn:    s.Turn,
		Winner:  s.Winner,
		Ended:   s.Ended(),
		You: PlayerView{
			HP:        you.HP,
			Energy:    you.Energy,
			EnergyMax: you.EnergyMax,
			DeckCount: len(you.Deck),
			Hand:      append([]cards.Card(nil), you.Hand...),
			Discard:   append([]cards.Card(nil), you.Discard...),
		},
		Opponent: OpponentView{
			HP:        opp.HP,
			Energy:    opp.Energy,
			EnergyMax: opp.EnergyMax,
			DeckCount: len(opp.Deck),
			HandCount: len(opp.Hand),
			Discard:   append([]cards.Card(nil), opp.Discard...),
		},
	}

	for i, u := range you.Board {
		v.You.Board[i] = unitView(s, u, turn)
	}
	for i, u := range opp.Board {
		v.Opponent.Board[i] = unitView(s, u, turn)
	}

	v.Opponent.RevealedHand = revealedHand(s, oppSide, viewer, turn)

	for _, e := range s.Effects {
		if !e.ActiveAt(turn) || !e.VisibleToViewer(string(viewer)) {
			continue
		}
		v.Effects = append(v.Effects, e)
	}

	return v
}

func unitView(s *BattleState, u *UnitInstance, turn int) *UnitView {
	if u == nil {
		return nil
	}
	atk := u.Attack + s.Effects.AttackMod(u.InstanceID, turn)
	if atk < 0 {
		atk = 0
	}
	def := u.Defense + s.Effects.DefenseMod(u.InstanceID, turn)
	if def < 0 {
		def = 0
	}
	return &UnitView{
		InstanceID:   u.InstanceID,
		CardID:       u.CardID,
		Name:         u.Name,
		Life:         u.Life,
		LifeMax:      u.LifeMax,
		Attack:       atk,
		Defense:      def,
		BaseAttack:   u.Attack,
		BaseDefense:  u.Defense,
		HasAbility:   u.HasAbility,
		Ability:      u.Ability,
		AbilityCost:  u.AbilityCost,
		AbilityUses:  u.AbilityUses,
		AbilityLimit: u.AbilityLimit,
		Passive:      u.Passive,
		Silenced:     u.Silenced,
	}
}

// revealedHand lists the opponent hand cards the viewer may see. A full-hand
// reveal lists everything; card-scoped reveals list only the matching hand
// cards. A card revealed while still in the deck shows up once it is drawn.
func revealedHand(s *BattleState, target, viewer Side, turn int) []cards.Card {
	full, ids := s.Effects.RevealedCards(string(target), string(viewer), turn)
	hand := s.Player(target).Hand
	if full {
		return append([]cards.Card(nil), hand...)
	}
	if len(ids) == 0 {
		return nil
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	var out []cards.Card
	for _, c := range hand {
		if known[c.ID] {
			out = append(out, c)
		}
	}
	return out
}
