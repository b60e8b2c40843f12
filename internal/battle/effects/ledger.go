package effects

// Ledger is the ordered list of effects attached to a battle state.
// Append-only during a turn; expired entries are pruned on turn rotation.
type Ledger []Effect

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	for i := range out {
		if len(l[i].CardIDs) > 0 {
			out[i].CardIDs = append([]string(nil), l[i].CardIDs...)
		}
	}
	return out
}

// Append adds an effect to the ledger.
func (l *Ledger) Append(e Effect) {
	*l = append(*l, e)
}

// Remove deletes the effect with the given id, preserving order.
func (l *Ledger) Remove(id string) bool {
	for i := range *l {
		if (*l)[i].ID == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

// Prune drops every entry no longer active on the given turn and returns the
// removed entries in ledger order.
func (l *Ledger) Prune(turn int) []Effect {
	var expired []Effect
	kept := (*l)[:0]
	for _, e := range *l {
		if e.ActiveAt(turn) {
			kept = append(kept, e)
		} else {
			expired = append(expired, e)
		}
	}
	*l = kept
	return expired
}

// First returns the oldest active effect of the given kind targeting the side.
func (l Ledger) First(kind Kind, target string, turn int) (Effect, bool) {
	for _, e := range l {
		if e.Kind == kind && e.Target == target && e.ActiveAt(turn) {
			return e, true
		}
	}
	return Effect{}, false
}

// AttackMod sums active attack modifiers bound to the unit instance.
func (l Ledger) AttackMod(unitID string, turn int) int {
	return l.statMod(KindAttackMod, unitID, turn)
}

// DefenseMod sums active defense modifiers bound to the unit instance.
func (l Ledger) DefenseMod(unitID string, turn int) int {
	return l.statMod(KindDefenseMod, unitID, turn)
}

func (l Ledger) statMod(kind Kind, unitID string, turn int) int {
	total := 0
	for _, e := range l {
		if e.Kind == kind && e.UnitID == unitID && e.ActiveAt(turn) {
			total += e.Amount
		}
	}
	return total
}

// CostTax returns the pending cost tax for the side's next card, if any.
func (l Ledger) CostTax(side string, turn int) (Effect, bool) {
	return l.First(KindCostTax, side, turn)
}

// RevealedCards resolves which of the target side's hand is visible to the
// viewer. full means the whole hand is exposed (REVEAL_HAND); otherwise ids
// holds the specific revealed card ids (REVEAL_HAND_CARD), possibly empty.
func (l Ledger) RevealedCards(target, viewer string, turn int) (full bool, ids []string) {
	for _, e := range l {
		if e.Target != target || !e.ActiveAt(turn) || !e.VisibleToViewer(viewer) {
			continue
		}
		switch e.Kind {
		case KindRevealHand:
			full = true
		case KindRevealHandCard:
			ids = append(ids, e.CardIDs...)
		}
	}
	return full, ids
}
