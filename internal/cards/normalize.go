package cards

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize converts a raw card entry with legacy field spellings into the
// canonical Card. The historical data files mix English and Portuguese keys
// ("ataque"/"atk"/"attack", "vida"/"hp"/"life", ...) and loose numeric types;
// everything past this function is canonical.
func Normalize(raw map[string]any) (Card, error) {
	var c Card

	id, ok := firstString(raw, "id", "card_id", "cardId", "codigo")
	if !ok || id == "" {
		return c, fmt.Errorf("card entry has no id: %v", raw)
	}
	c.ID = id

	c.Name, _ = firstString(raw, "name", "nome", "title")
	if c.Name == "" {
		c.Name = c.ID
	}

	typ, _ := firstString(raw, "type", "tipo", "card_type", "cardType")
	ct, err := normalizeType(typ)
	if err != nil {
		return c, fmt.Errorf("card %s: %w", c.ID, err)
	}
	c.Type = ct

	c.Cost = firstInt(raw, "cost", "custo", "mana", "energy")
	c.Attack = firstInt(raw, "attack", "atk", "ataque", "power")
	c.Defense = firstInt(raw, "defense", "def", "defesa", "armor")
	c.Life = firstInt(raw, "life", "hp", "vida", "health")

	if c.Type == TypeUnit && c.Life <= 0 {
		return c, fmt.Errorf("card %s: unit has no life", c.ID)
	}
	if c.Cost < 0 {
		return c, fmt.Errorf("card %s: negative cost", c.ID)
	}

	if p, ok := firstString(raw, "passive", "passiva"); ok {
		kind, err := normalizePassive(p)
		if err != nil {
			return c, fmt.Errorf("card %s: %w", c.ID, err)
		}
		c.Passive = kind
		c.PassiveAmount = firstInt(raw, "passive_amount", "passiveAmount", "passive_value")
	}

	if sub, ok := firstMap(raw, "ability", "habilidade"); ok {
		ab, err := normalizeAbility(sub)
		if err != nil {
			return c, fmt.Errorf("card %s: %w", c.ID, err)
		}
		c.Ability = ab
	}

	if sub, ok := firstMap(raw, "spell", "effect", "efeito", "feitico"); ok {
		sp, err := normalizeSpell(sub)
		if err != nil {
			return c, fmt.Errorf("card %s: %w", c.ID, err)
		}
		c.Spell = sp
	}

	if c.Type == TypeSpell && c.Spell == nil {
		return c, fmt.Errorf("card %s: spell card has no effect", c.ID)
	}

	return c, nil
}

func normalizeType(s string) (CardType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNIT", "UNIDADE", "CREATURE", "CRIATURA", "MONSTER":
		return TypeUnit, nil
	case "SPELL", "FEITICO", "FEITIÇO", "MAGIC", "MAGIA":
		return TypeSpell, nil
	default:
		return "", fmt.Errorf("unknown card type %q", s)
	}
}

func normalizePassive(s string) (PassiveKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return PassiveNone, nil
	case "LIFESTEAL", "ROUBO_DE_VIDA", "VAMPIRISM":
		return PassiveLifesteal, nil
	case "OVERFLOW", "TRANSBORDAR", "TRAMPLE":
		return PassiveOverflow, nil
	case "CLEAVE", "CORTE", "SPLIT":
		return PassiveCleave, nil
	case "SILENCE_ON_HIT", "SILENCIO", "SILENCE":
		return PassiveSilenceOnHit, nil
	case "REVEAL_ON_HIT", "REVELAR", "REVEAL":
		return PassiveRevealOnHit, nil
	case "PIERCE", "PERFURAR", "IGNORE_DEFENSE":
		return PassivePierce, nil
	case "STONESKIN_PCT", "PELE_DE_PEDRA_PCT":
		return PassiveStoneskinPct, nil
	case "STONESKIN_FLAT", "PELE_DE_PEDRA":
		return PassiveStoneskinFlat, nil
	default:
		return PassiveNone, fmt.Errorf("unknown passive %q", s)
	}
}

func normalizeAbility(raw map[string]any) (*Ability, error) {
	kindStr, _ := firstString(raw, "kind", "tipo", "name", "nome")
	var kind AbilityKind
	switch strings.ToUpper(strings.TrimSpace(kindStr)) {
	case "RALLY", "FURIA", "FÚRIA":
		kind = AbilityRally
	case "FORTIFY", "FORTIFICAR":
		kind = AbilityFortify
	case "DRAIN", "DRENAR":
		kind = AbilityDrain
	case "INSIGHT", "VISAO", "VISÃO":
		kind = AbilityInsight
	default:
		return nil, fmt.Errorf("unknown ability %q", kindStr)
	}

	ab := &Ability{
		Kind:   kind,
		Cost:   firstInt(raw, "cost", "custo"),
		Amount: firstInt(raw, "amount", "valor", "value"),
		Limit:  firstInt(raw, "limit", "limite", "uses"),
	}
	if ab.Limit <= 0 {
		ab.Limit = 1
	}
	if b, ok := firstBool(raw, "on_summon", "onSummon", "ao_invocar"); ok {
		ab.OnSummon = b
	}
	return ab, nil
}

func normalizeSpell(raw map[string]any) (*Spell, error) {
	kindStr, _ := firstString(raw, "kind", "tipo", "name", "nome")
	var kind SpellKind
	switch strings.ToUpper(strings.TrimSpace(kindStr)) {
	case "STAT_MODIFIER", "MODIFICADOR", "BUFF", "DEBUFF":
		kind = SpellStatModifier
	case "MEND", "CURAR", "HEAL":
		kind = SpellMend
	case "FORESEE", "PREVER":
		kind = SpellForesee
	case "WARD", "PROTEGER", "GUARD":
		kind = SpellWard
	case "EXHUME_PARTIAL", "EXUMAR_PARCIAL":
		kind = SpellExhumePartial
	case "EXHUME_FULL", "EXUMAR_TOTAL":
		kind = SpellExhumeFull
	default:
		return nil, fmt.Errorf("unknown spell %q", kindStr)
	}

	sp := &Spell{
		Kind:     kind,
		Amount:   firstInt(raw, "amount", "valor", "value"),
		Heal:     firstInt(raw, "heal", "cura"),
		Duration: firstInt(raw, "duration", "duracao", "duração", "turns"),
		Percent:  firstInt(raw, "percent", "porcentagem", "pct"),
	}
	if stat, ok := firstString(raw, "stat", "atributo"); ok {
		switch strings.ToUpper(strings.TrimSpace(stat)) {
		case "ATK", "ATTACK", "ATAQUE":
			sp.Stat = StatAttack
		case "DEF", "DEFENSE", "DEFESA":
			sp.Stat = StatDefense
		case "":
		default:
			return nil, fmt.Errorf("unknown stat %q", stat)
		}
	}
	if b, ok := firstBool(raw, "redirect", "redirecionar"); ok {
		sp.Redirect = b
	}
	if kind == SpellExhumePartial && sp.Percent <= 0 {
		sp.Percent = 50
	}
	return sp, nil
}

func firstString(raw map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			switch t := v.(type) {
			case string:
				return t, true
			case fmt.Stringer:
				return t.String(), true
			}
		}
	}
	return "", false
}

func firstInt(raw map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case int:
			return t
		case int64:
			return int(t)
		case float64:
			return int(t)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return 0
}

func firstBool(raw map[string]any, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			return t, true
		case string:
			if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
				return b, true
			}
		}
	}
	return false, false
}

func firstMap(raw map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case map[string]any:
			return t, true
		case map[any]any:
			out := make(map[string]any, len(t))
			for mk, mv := range t {
				if ks, ok := mk.(string); ok {
					out[ks] = mv
				}
			}
			return out, true
		}
	}
	return nil, false
}
