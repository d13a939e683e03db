package proficiency

// PerkType — категория перка (что именно модифицирует перк).
type PerkType uint8

const (
	PerkAttackDamage PerkType = iota
	PerkDefense
	PerkWeaponShieldMod
	PerkSkillBonus
	PerkSpecialMagicLevel
	PerkAugmentType
	PerkBestiaryDamage
	PerkDamageBoss // boss and sinister embraced creatures
	PerkCritChance
	PerkCritChanceSpell // element spells and runes
	PerkCritChanceRune  // offensive runes
	PerkCritChanceAuto  // auto-attack
	PerkCritExtraDamage
	PerkCritExtraDamageSpell
	PerkCritExtraDamageRune
	PerkCritExtraDamageAuto
	PerkManaLeech
	PerkLifeLeech
	PerkManaOnHit
	PerkLifeOnHit
	PerkManaOnKill
	PerkLifeOnKill
	PerkDamageAtRange
	PerkRangedHitChance
	PerkAttackRange
	PerkSkillDamageAuto
	PerkSkillDamageSpell
	PerkSkillHealingSpell
)

// String returns the XML token for the perk type.
func (p PerkType) String() string {
	if name := PerkTypes.Name(p); name != "" {
		return name
	}
	return "unknown"
}

// Skill — навык, к которому относится перк. SkillNone = не задан.
type Skill uint8

const (
	SkillNone Skill = iota
	SkillMagic
	SkillShield
	SkillDistance
	SkillSword
	SkillClub
	SkillAxe
	SkillFist
	SkillFishing
)

// String returns the XML token for the skill, or "none".
func (s Skill) String() string {
	if name := Skills.Name(s); name != "" {
		return name
	}
	return "none"
}

// DamageType — стихия/тип урона. DamageNone = не задан.
type DamageType uint8

const (
	DamageNone DamageType = iota
	DamageFire
	DamageEarth
	DamageEnergy
	DamageIce
	DamageHoly
	DamageDeath
	DamageHealing
)

// String returns the XML token for the damage type, or "none".
func (d DamageType) String() string {
	if name := DamageTypes.Name(d); name != "" {
		return name
	}
	return "none"
}

// AugmentType — тип усиления спелла. AugmentNone = не задан.
type AugmentType uint8

const (
	AugmentNone AugmentType = iota
	AugmentBaseDamage
	AugmentHealing
	AugmentCooldown
	AugmentIncreasedDamage
	AugmentLifeLeech
	AugmentManaLeech
	AugmentCritExtraDamage
	AugmentCritChance
)

// String returns the XML token for the augment type, or "none".
func (a AugmentType) String() string {
	if name := Augments.Name(a); name != "" {
		return name
	}
	return "none"
}

// Perk is a single slot of a proficiency level. Immutable after construction.
type Perk struct {
	slot       uint8
	perkType   PerkType
	value      float64
	skill      Skill
	damageType DamageType
	augment    AugmentType
	attackRng  uint32
	spellID    uint32
	bestiaryID uint32
}

func (p Perk) Slot() uint8 { return p.slot }
func (p Perk) Type() PerkType { return p.perkType }
func (p Perk) Value() float64 { return p.value }
func (p Perk) Skill() Skill { return p.skill }
func (p Perk) DamageType() DamageType { return p.damageType }
func (p Perk) Augment() AugmentType { return p.augment }
func (p Perk) Range() uint32 { return p.attackRng }
func (p Perk) SpellID() uint32 { return p.spellID }
func (p Perk) BestiaryID() uint32 { return p.bestiaryID }

// Level is a tier within a proficiency.
// maxPerks is fixed at build time to the number of <perk> entries.
type Level struct {
	id       uint8
	perks    []Perk
	maxPerks int
}

func (l *Level) ID() uint8 { return l.id }
func (l *Level) MaxPerks() int { return l.maxPerks }

// Perks returns a copy of the level perks in document order.
func (l *Level) Perks() []Perk {
	out := make([]Perk, len(l.perks))
	copy(out, l.perks)
	return out
}

// Perk returns the perk at 1-based slot.
func (l *Level) Perk(slot uint8) (Perk, bool) {
	if slot == 0 || int(slot) > len(l.perks) {
		return Perk{}, false
	}
	return l.perks[slot-1], true
}

// Proficiency is a progression track of a weapon category.
// maxLevel is fixed at build time to the number of <level> entries,
// independent of level id values.
type Proficiency struct {
	id       uint32
	name     string
	levels   []Level
	maxLevel int
}

func (p *Proficiency) ID() uint32 { return p.id }
func (p *Proficiency) Name() string { return p.name }
func (p *Proficiency) MaxLevel() int { return p.maxLevel }

// Levels returns the levels in document order.
// Returned pointers reference immutable data.
func (p *Proficiency) Levels() []*Level {
	out := make([]*Level, len(p.levels))
	for i := range p.levels {
		out[i] = &p.levels[i]
	}
	return out
}

// Level finds a level by its id (linear scan, ids need not be contiguous).
// Returns nil if absent.
func (p *Proficiency) Level(id uint8) *Level {
	for i := range p.levels {
		if p.levels[i].id == id {
			return &p.levels[i]
		}
	}
	return nil
}
