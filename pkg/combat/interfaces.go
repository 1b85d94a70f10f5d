// Package combat implements the D&D-style ability score, to-hit, and damage
// model used to resolve attacks and class abilities between entities.
package combat

// DamageType represents different types of damage.
type DamageType int

// Damage type constants.
const (
	DamagePhysical DamageType = iota
	DamageMagical
	DamageFire
	DamageIce
	DamageLightning
	DamagePoison
)

// Damage represents a single damage event to be applied to a target.
type Damage struct {
	// Amount of damage
	Amount float64

	// Type of damage
	Type DamageType

	// Source entity ID
	SourceID uint64

	// Target entity ID
	TargetID uint64
}

// Stats represents the six D&D-style ability scores of a character.
// Values are typically in [1, 20] after species and class bonuses, and
// before any further equipment or status-effect modifiers are applied.
type Stats struct {
	STR int
	DEX int
	CON int
	INT int
	WIS int
	CHA int
}

// NewStats returns the baseline ability scores (10 in every score) before
// any species or class bonus is applied.
func NewStats() *Stats {
	return &Stats{STR: 10, DEX: 10, CON: 10, INT: 10, WIS: 10, CHA: 10}
}

// Modifier computes the standard ability modifier: floor((score-10)/2).
func Modifier(score int) int {
	diff := score - 10
	if diff >= 0 {
		return diff / 2
	}
	if diff%2 != 0 {
		return diff/2 - 1
	}
	return diff / 2
}

// CombatResolver handles combat calculations between two entities.
type CombatResolver interface {
	// CalculateDamage computes final damage after racial resistance. Monster
	// traits do not reduce damage.
	CalculateDamage(raw float64, target Defender) float64

	// ResolveAttack performs a single attack roll and, on a hit, returns the
	// resulting damage event. ok is false on a miss.
	ResolveAttack(attacker Attacker, target Defender) (dmg Damage, ok bool)
}

// Attacker is the minimal view of an attacking entity the resolver needs.
type Attacker struct {
	EntityID   uint64
	Stats      *Stats
	Weapon     *WeaponStats
	Species    Species
	Enchant    int // flat enchantment damage bonus
	LifeStealP float64
}

// Defender is the minimal view of a defending entity the resolver needs.
type Defender struct {
	EntityID   uint64
	Stats      *Stats
	ArmorClass int
	Species    Species
}
