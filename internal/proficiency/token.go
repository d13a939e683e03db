package proficiency

import (
	"maps"
	"slices"
)

// TokenTable maps XML tokens to enumerated codes.
// Unknown tokens resolve to the table default; the table is immutable after construction.
type TokenTable[T comparable] struct {
	kind  string
	def   T
	codes map[string]T
	names map[T]string
}

// NewTokenTable builds a table of kind (used in log messages) with default code def.
func NewTokenTable[T comparable](kind string, def T, entries map[string]T) *TokenTable[T] {
	t := &TokenTable[T]{
		kind:  kind,
		def:   def,
		codes: make(map[string]T, len(entries)),
		names: make(map[T]string, len(entries)),
	}
	for token, code := range entries {
		t.codes[token] = code
		t.names[code] = token
	}
	return t
}

// Kind returns the attribute kind this table translates ("perk type", "skill", ...).
func (t *TokenTable[T]) Kind() string { return t.kind }

// Default returns the fallback code for unrecognized tokens.
func (t *TokenTable[T]) Default() T { return t.def }

// Lookup returns the code for token and whether the token is known.
func (t *TokenTable[T]) Lookup(token string) (T, bool) {
	code, ok := t.codes[token]
	if !ok {
		return t.def, false
	}
	return code, true
}

// Translate returns the code for token, or the default if the token is unknown.
func (t *TokenTable[T]) Translate(token string) T {
	code, _ := t.Lookup(token)
	return code
}

// Name returns the token registered for code, or "" if none.
func (t *TokenTable[T]) Name(code T) string {
	return t.names[code]
}

// Tokens returns all known tokens, sorted.
func (t *TokenTable[T]) Tokens() []string {
	return slices.Sorted(maps.Keys(t.codes))
}

// Len returns the number of known tokens.
func (t *TokenTable[T]) Len() int { return len(t.codes) }

// Translation tables for perk XML attributes.
var (
	PerkTypes = NewTokenTable("perk type", PerkAttackDamage, map[string]PerkType{
		"attackDamage":         PerkAttackDamage,
		"defense":              PerkDefense,
		"shieldMod":            PerkWeaponShieldMod,
		"skillBonus":           PerkSkillBonus,
		"specialMagicLevel":    PerkSpecialMagicLevel,
		"augment":              PerkAugmentType,
		"bestiaryDamage":       PerkBestiaryDamage,
		"damageBoss":           PerkDamageBoss,
		"critChance":           PerkCritChance,
		"critChanceSpell":      PerkCritChanceSpell,
		"critChanceRune":       PerkCritChanceRune,
		"critChanceAuto":       PerkCritChanceAuto,
		"critExtraDamage":      PerkCritExtraDamage,
		"critExtraDamageSpell": PerkCritExtraDamageSpell,
		"critExtraDamageRune":  PerkCritExtraDamageRune,
		"critExtraDamageAuto":  PerkCritExtraDamageAuto,
		"manaLeech":            PerkManaLeech,
		"lifeLeech":            PerkLifeLeech,
		"manaOnHit":            PerkManaOnHit,
		"lifeOnHit":            PerkLifeOnHit,
		"manaOnKill":           PerkManaOnKill,
		"lifeOnKill":           PerkLifeOnKill,
		"damageAtRange":        PerkDamageAtRange,
		"rangedHitChance":      PerkRangedHitChance,
		"attackRange":          PerkAttackRange,
		"skillDamageAuto":      PerkSkillDamageAuto,
		"skillDamageSpell":     PerkSkillDamageSpell,
		"skillHealingSpell":    PerkSkillHealingSpell,
	})

	Skills = NewTokenTable("skill", SkillNone, map[string]Skill{
		"magic":    SkillMagic,
		"shield":   SkillShield,
		"distance": SkillDistance,
		"sword":    SkillSword,
		"club":     SkillClub,
		"axe":      SkillAxe,
		"fist":     SkillFist,
		"fishing":  SkillFishing,
	})

	DamageTypes = NewTokenTable("damage type", DamageNone, map[string]DamageType{
		"fire":    DamageFire,
		"earth":   DamageEarth,
		"energy":  DamageEnergy,
		"ice":     DamageIce,
		"holy":    DamageHoly,
		"death":   DamageDeath,
		"healing": DamageHealing,
	})

	Augments = NewTokenTable("augment", AugmentNone, map[string]AugmentType{
		"baseDamage":      AugmentBaseDamage,
		"healing":         AugmentHealing,
		"cooldown":        AugmentCooldown,
		"increasedDamage": AugmentIncreasedDamage,
		"lifeLeech":       AugmentLifeLeech,
		"manaLeech":       AugmentManaLeech,
		"critExtraDamage": AugmentCritExtraDamage,
		"critChance":      AugmentCritChance,
	})
)

// ParsePerkType translates a perk type token. Unknown tokens yield PerkAttackDamage.
func ParsePerkType(token string) PerkType { return PerkTypes.Translate(token) }

// ParseSkill translates a skill token. Unknown tokens yield SkillNone.
func ParseSkill(token string) Skill { return Skills.Translate(token) }

// ParseDamageType translates a damage/element token. Unknown tokens yield DamageNone.
func ParseDamageType(token string) DamageType { return DamageTypes.Translate(token) }

// ParseAugment translates an augment token. Unknown tokens yield AugmentNone.
func ParseAugment(token string) AugmentType { return Augments.Translate(token) }
