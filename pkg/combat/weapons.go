package combat

// WeaponType identifies a weapon archetype. Ranges are expressed in tiles
// (32px each) to match the rest of the distance system.
type WeaponType int

const (
	Dagger WeaponType = iota
	Shortsword
	Longsword
	Mace
	Battleaxe
	Greatsword
	Quarterstaff
	Shortbow
	Longbow
	WandType
)

// WeaponStats describes a weapon's combat properties. This is a
// representative subset of the full equipment catalogue an external content
// pipeline would supply; it covers one weapon per archetype actually
// exercised by the default class abilities and monster loot tables.
type WeaponStats struct {
	Type          WeaponType
	DamageDiceN   int // number of dice
	DamageDiceD   int // die size
	DamageBonus   int
	AttackSpeed   float64 // multiplier on the class base cooldown
	RangeTiles    float64
	IsTwoHanded   bool
	IsFinesse     bool // DEX may be used instead of STR for the attack roll
	StrRequirement int // 0 = none
}

// weaponTable is the static lookup of known weapons, grounded on the
// reference implementation's weapon stat blocks.
var weaponTable = map[WeaponType]WeaponStats{
	Dagger:       {Type: Dagger, DamageDiceN: 1, DamageDiceD: 4, AttackSpeed: 0.8, RangeTiles: 1.0, IsFinesse: true},
	Shortsword:   {Type: Shortsword, DamageDiceN: 1, DamageDiceD: 6, AttackSpeed: 1.0, RangeTiles: 1.2, IsFinesse: true},
	Longsword:    {Type: Longsword, DamageDiceN: 1, DamageDiceD: 8, AttackSpeed: 1.0, RangeTiles: 1.5},
	Mace:         {Type: Mace, DamageDiceN: 1, DamageDiceD: 6, AttackSpeed: 1.0, RangeTiles: 1.3},
	Battleaxe:    {Type: Battleaxe, DamageDiceN: 1, DamageDiceD: 8, AttackSpeed: 1.1, RangeTiles: 1.4},
	Greatsword:   {Type: Greatsword, DamageDiceN: 2, DamageDiceD: 6, AttackSpeed: 1.3, RangeTiles: 2.0, IsTwoHanded: true},
	Quarterstaff: {Type: Quarterstaff, DamageDiceN: 1, DamageDiceD: 6, AttackSpeed: 0.9, RangeTiles: 1.8},
	Shortbow:     {Type: Shortbow, DamageDiceN: 1, DamageDiceD: 6, AttackSpeed: 1.0, RangeTiles: 15.0, IsTwoHanded: true, IsFinesse: true},
	Longbow:      {Type: Longbow, DamageDiceN: 1, DamageDiceD: 8, AttackSpeed: 1.2, RangeTiles: 20.0, IsTwoHanded: true, IsFinesse: true, StrRequirement: 13},
	WandType:     {Type: WandType, DamageDiceN: 1, DamageDiceD: 4, AttackSpeed: 1.0, RangeTiles: 12.0, IsFinesse: true},
}

// GetWeaponStats returns the stat block for a weapon type.
func GetWeaponStats(t WeaponType) WeaponStats {
	if ws, ok := weaponTable[t]; ok {
		return ws
	}
	return weaponTable[Dagger]
}

// DiceAverage returns the expected value of rolling n dice of size d.
func DiceAverage(n, d int) float64 {
	if n <= 0 || d <= 0 {
		return 0
	}
	return float64(n) * (float64(d) + 1) / 2
}

// RangePixels returns the weapon's range in pixels (32px per tile).
func (w WeaponStats) RangePixels() float64 {
	return w.RangeTiles * 32.0
}
