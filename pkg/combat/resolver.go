package combat

// DefaultResolver implements CombatResolver using the deterministic
// ability-score-based to-hit and damage formulas: no die roll decides
// whether an attack connects, only the attacker's modifier against the
// defender's armor class.
type DefaultResolver struct{}

// NewDefaultResolver creates the standard combat resolver.
func NewDefaultResolver() *DefaultResolver {
	return &DefaultResolver{}
}

// attackRoll computes 10 + the attacker's relevant ability modifier.
// Finesse and ranged weapons may use DEX; everything else uses STR.
func attackRoll(attacker Attacker) int {
	useDex := attacker.Weapon != nil && (attacker.Weapon.IsFinesse || attacker.Weapon.RangeTiles > 2.0)
	if useDex {
		return 10 + Modifier(attacker.Stats.DEX)
	}
	return 10 + Modifier(attacker.Stats.STR)
}

// ResolveAttack performs one attack from attacker against target.
func (r *DefaultResolver) ResolveAttack(attacker Attacker, target Defender) (Damage, bool) {
	roll := attackRoll(attacker)
	if roll < target.ArmorClass {
		return Damage{}, false
	}

	weapon := attacker.Weapon
	if weapon == nil {
		weapon = &WeaponStats{DamageDiceN: 1, DamageDiceD: 4}
	}

	abilityMod := Modifier(attacker.Stats.STR)
	if weapon.IsFinesse {
		abilityMod = Modifier(attacker.Stats.DEX)
	}

	raw := DiceAverage(weapon.DamageDiceN, weapon.DamageDiceD) + float64(abilityMod) + float64(attacker.Enchant)
	if raw < 0 {
		raw = 0
	}

	final := r.CalculateDamage(raw, target)

	return Damage{
		Amount:   final,
		Type:     DamagePhysical,
		SourceID: attacker.EntityID,
		TargetID: target.EntityID,
	}, true
}

// CalculateDamage applies racial damage resistance to a raw damage amount.
func (r *DefaultResolver) CalculateDamage(raw float64, target Defender) float64 {
	if raw <= 0 {
		return 0
	}
	reduced := ApplyDamageResistance(target.Species, int(raw))
	return float64(reduced)
}
