package battle

// resolveEndTurn hands the turn to the other side. If either player is
// already at zero hp the turn does not rotate; the match is terminal.
func resolveEndTurn(s *BattleState, actor Side) ([]Event, *Rejection) {
	for _, side := range []Side{SideP1, SideP2} {
		if s.Player(side).HP <= 0 {
			return endMatch(s, side.Opponent()), nil
		}
	}
	return rotateTurn(s), nil
}

// rotateTurn swaps the turn owner, resets the per-turn flags, prunes expired
// effects, and runs the new owner's upkeep: energy max +1, full refill, and
// exactly one draw (recycling the discard pile if the deck ran dry).
func rotateTurn(s *BattleState) []Event {
	if s.Ended() {
		return nil
	}

	ending := s.Turn.Owner
	events := []Event{newEvent(EventTurnEnded, map[string]any{
		"side":         ending,
		"turn":         s.Turn.Number,
		"has_attacked": s.Turn.HasAttacked,
	})}

	s.Turn = TurnContext{
		Owner:  ending.Opponent(),
		Number: s.Turn.Number + 1,
		Phase:  PhaseMain,
	}

	for _, expired := range s.Effects.Prune(s.Turn.Number) {
		events = append(events, newEvent(EventEffectExpired, map[string]any{
			"effect_id": expired.ID,
			"kind":      expired.Kind,
		}))
	}

	owner := s.Player(s.Turn.Owner)
	owner.EnergyMax++
	owner.Energy = owner.EnergyMax

	events = append(events, drawOne(s, s.Turn.Owner)...)
	events = append(events, newEvent(EventTurnStarted, map[string]any{
		"side":       s.Turn.Owner,
		"turn":       s.Turn.Number,
		"energy":     owner.Energy,
		"energy_max": owner.EnergyMax,
	}))
	return events
}
