package combat

import "testing"

func TestDamageType_Constants(t *testing.T) {
	types := []DamageType{
		DamagePhysical, DamageMagical, DamageFire, DamageIce, DamageLightning, DamagePoison,
	}

	seen := make(map[DamageType]bool)
	for _, dt := range types {
		if seen[dt] {
			t.Errorf("duplicate damage type value: %v", dt)
		}
		seen[dt] = true
	}

	if len(types) != 6 {
		t.Errorf("expected 6 damage type constants, got %d", len(types))
	}
}

func TestNewStats(t *testing.T) {
	stats := NewStats()
	if stats.STR != 10 || stats.DEX != 10 || stats.CON != 10 || stats.INT != 10 || stats.WIS != 10 || stats.CHA != 10 {
		t.Errorf("expected all-10 baseline stats, got %+v", stats)
	}
}

func TestModifier(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{10, 0}, {12, 1}, {13, 1}, {8, -1}, {7, -2}, {20, 5}, {1, -5},
	}
	for _, tt := range tests {
		if got := Modifier(tt.score); got != tt.want {
			t.Errorf("Modifier(%d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestCalculateStats_HumanFighter(t *testing.T) {
	stats := CalculateStats(Human, Fighter)
	// STR = 10 + 1 (human) + 2 (fighter) = 13
	if stats.STR != 13 {
		t.Errorf("Human Fighter STR = %d, want 13", stats.STR)
	}
}

func TestCalculateMaxHP_HumanFighter(t *testing.T) {
	hp := CalculateMaxHP(Human, Fighter)
	// 10 (human base) + 2 (fighter bonus) = 12
	if hp != 12 {
		t.Errorf("Human Fighter max HP = %d, want 12", hp)
	}
}

func TestApplyDamageResistance(t *testing.T) {
	if got := ApplyDamageResistance(Dwarf, 5); got != 4 {
		t.Errorf("Dwarf resisted damage = %d, want 4", got)
	}
	if got := ApplyDamageResistance(Dwarf, 1); got != 1 {
		t.Errorf("Dwarf resisted damage floor = %d, want 1", got)
	}
	if got := ApplyDamageResistance(Human, 5); got != 5 {
		t.Errorf("Human damage should be unaffected, got %d", got)
	}
}

func TestDiceAverage(t *testing.T) {
	if got := DiceAverage(1, 6); got != 3.5 {
		t.Errorf("DiceAverage(1,6) = %f, want 3.5", got)
	}
	if got := DiceAverage(2, 6); got != 7 {
		t.Errorf("DiceAverage(2,6) = %f, want 7", got)
	}
}

func TestResolveAttack_HitAndMiss(t *testing.T) {
	r := NewDefaultResolver()

	attacker := Attacker{
		EntityID: 1,
		Stats:    &Stats{STR: 16, DEX: 10},
		Weapon:   &WeaponStats{DamageDiceN: 1, DamageDiceD: 8},
		Species:  Human,
	}

	// AC low enough to be hit: 10 + Modifier(16)=3 => roll 13 >= AC 12
	weakTarget := Defender{EntityID: 2, Stats: NewStats(), ArmorClass: 12, Species: Human}
	if _, ok := r.ResolveAttack(attacker, weakTarget); !ok {
		t.Error("expected attack to hit a low-AC target")
	}

	// AC far above the roll should miss.
	armoredTarget := Defender{EntityID: 2, Stats: NewStats(), ArmorClass: 25, Species: Human}
	if _, ok := r.ResolveAttack(attacker, armoredTarget); ok {
		t.Error("expected attack to miss a high-AC target")
	}
}

func TestResolveAttack_DwarfResistanceReducesDamage(t *testing.T) {
	r := NewDefaultResolver()
	attacker := Attacker{
		EntityID: 1,
		Stats:    &Stats{STR: 16},
		Weapon:   &WeaponStats{DamageDiceN: 1, DamageDiceD: 8},
	}
	dwarfTarget := Defender{EntityID: 2, Stats: NewStats(), ArmorClass: 10, Species: Dwarf}
	humanTarget := Defender{EntityID: 3, Stats: NewStats(), ArmorClass: 10, Species: Human}

	dmgDwarf, ok := r.ResolveAttack(attacker, dwarfTarget)
	if !ok {
		t.Fatal("expected hit")
	}
	dmgHuman, ok := r.ResolveAttack(attacker, humanTarget)
	if !ok {
		t.Fatal("expected hit")
	}
	if dmgDwarf.Amount >= dmgHuman.Amount {
		t.Errorf("dwarf resistance should reduce damage: dwarf=%f human=%f", dmgDwarf.Amount, dmgHuman.Amount)
	}
}

func TestAbilityForClass(t *testing.T) {
	tests := map[Class]ClassAbility{
		Fighter: SecondWind, Rogue: SneakAttack, Cleric: HealingWord,
		Wizard: MagicMissile, Ranger: HuntersMark, Barbarian: Rage,
	}
	for class, want := range tests {
		if got := AbilityForClass(class); got != want {
			t.Errorf("AbilityForClass(%v) = %v, want %v", class, got, want)
		}
	}
}

func TestAbilityCooldownMS(t *testing.T) {
	tests := map[ClassAbility]int64{
		SecondWind: 60000, SneakAttack: 10000, HealingWord: 30000,
		MagicMissile: 15000, HuntersMark: 45000, Rage: 60000,
	}
	for ability, want := range tests {
		if got := AbilityCooldownMS(ability); got != want {
			t.Errorf("AbilityCooldownMS(%v) = %d, want %d", ability, got, want)
		}
	}
}
