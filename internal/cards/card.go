package cards

// CardType distinguishes board units from one-shot spells.
type CardType string

const (
	TypeUnit  CardType = "UNIT"
	TypeSpell CardType = "SPELL"
)

// PassiveKind is the closed set of combat passives a unit can carry.
// Passives are evaluated lazily during attack resolution.
type PassiveKind string

const (
	PassiveNone          PassiveKind = ""
	PassiveLifesteal     PassiveKind = "LIFESTEAL"
	PassiveOverflow      PassiveKind = "OVERFLOW"
	PassiveCleave        PassiveKind = "CLEAVE"
	PassiveSilenceOnHit  PassiveKind = "SILENCE_ON_HIT"
	PassiveRevealOnHit   PassiveKind = "REVEAL_ON_HIT"
	PassivePierce        PassiveKind = "PIERCE"
	PassiveStoneskinPct  PassiveKind = "STONESKIN_PCT"
	PassiveStoneskinFlat PassiveKind = "STONESKIN_FLAT"
)

// AbilityKind is the closed set of activated unit abilities.
type AbilityKind string

const (
	AbilityNone    AbilityKind = ""
	AbilityRally   AbilityKind = "RALLY"
	AbilityFortify AbilityKind = "FORTIFY"
	AbilityDrain   AbilityKind = "DRAIN"
	AbilityInsight AbilityKind = "INSIGHT"
)

// SpellKind is the closed set of spell effects.
type SpellKind string

const (
	SpellStatModifier  SpellKind = "STAT_MODIFIER"
	SpellMend          SpellKind = "MEND"
	SpellForesee       SpellKind = "FORESEE"
	SpellWard          SpellKind = "WARD"
	SpellExhumePartial SpellKind = "EXHUME_PARTIAL"
	SpellExhumeFull    SpellKind = "EXHUME_FULL"
)

// Stat names a modifiable unit statistic.
type Stat string

const (
	StatAttack  Stat = "ATK"
	StatDefense Stat = "DEF"
)

// Ability describes a unit's activated ability. Cost is paid in energy unless
// the activation is an on-summon trigger.
type Ability struct {
	Kind     AbilityKind `yaml:"kind"`
	Cost     int         `yaml:"cost"`
	Amount   int         `yaml:"amount"`
	Limit    int         `yaml:"limit"`
	OnSummon bool        `yaml:"on_summon"`
}

// Spell describes a spell card's effect payload.
type Spell struct {
	Kind     SpellKind `yaml:"kind"`
	Stat     Stat      `yaml:"stat"`
	Amount   int       `yaml:"amount"`
	Heal     int       `yaml:"heal"`
	Duration int       `yaml:"duration"` // extra turns the effect persists beyond the current one
	Redirect bool      `yaml:"redirect"` // WARD: redirect instead of block
	Percent  int       `yaml:"percent"`  // EXHUME_PARTIAL: restored life percentage
}

// Card is the canonical static card definition. This is the only card shape
// the battle engine ever sees; legacy spellings are folded into it by
// Normalize at the ingestion boundary.
type Card struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Type          CardType    `yaml:"type"`
	Cost          int         `yaml:"cost"`
	Attack        int         `yaml:"attack"`
	Defense       int         `yaml:"defense"`
	Life          int         `yaml:"life"`
	Passive       PassiveKind `yaml:"passive"`
	PassiveAmount int         `yaml:"passive_amount"`
	Ability       *Ability    `yaml:"ability"`
	Spell         *Spell      `yaml:"spell"`
}

// IsUnit reports whether the card summons a board unit.
func (c Card) IsUnit() bool { return c.Type == TypeUnit }

// IsSpell reports whether the card is a one-shot spell.
func (c Card) IsSpell() bool { return c.Type == TypeSpell }
