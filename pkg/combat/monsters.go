package combat

// MonsterTemplate is an immutable stat block for a monster type, looked up
// by the spawn manager when it creates a new monster entity. This table is
// a representative sample, not an exhaustive bestiary.
type MonsterTemplate struct {
	MonsterType string
	Level       int
	XPReward    int
	HP          int
	ArmorClass  int
	Stats       Stats

	SpeedPixelsPerSecond float64
	DamageDiceN          int
	DamageDiceD          int
	DamageBonus          int
	AttackCooldownMS     int64
	DetectionRangeTiles  float64

	PackCreature bool
	Regeneration bool
	IsBoss       bool
}

var monsterTemplates = map[string]MonsterTemplate{
	"giant_rat": {
		MonsterType:          "giant_rat",
		Level:                1,
		XPReward:             50,
		HP:                   7,
		ArmorClass:           12,
		Stats:                Stats{STR: 8, DEX: 15, CON: 11, INT: 2, WIS: 10, CHA: 4},
		SpeedPixelsPerSecond: 200.0,
		DamageDiceN:          1,
		DamageDiceD:          4,
		AttackCooldownMS:     1000,
		DetectionRangeTiles:  12.0,
		PackCreature:         true,
	},
	"goblin": {
		MonsterType:          "goblin",
		Level:                1,
		XPReward:             50,
		HP:                   7,
		ArmorClass:           13,
		Stats:                Stats{STR: 8, DEX: 14, CON: 10, INT: 10, WIS: 8, CHA: 8},
		SpeedPixelsPerSecond: 180.0,
		DamageDiceN:          1,
		DamageDiceD:          4,
		DamageBonus:          1,
		AttackCooldownMS:     1000,
		DetectionRangeTiles:  15.0,
		PackCreature:         true,
	},
	"skeleton": {
		MonsterType:          "skeleton",
		Level:                1,
		XPReward:             50,
		HP:                   13,
		ArmorClass:           13,
		Stats:                Stats{STR: 10, DEX: 14, CON: 15, INT: 6, WIS: 8, CHA: 5},
		SpeedPixelsPerSecond: 160.0,
		DamageDiceN:          1,
		DamageDiceD:          6,
		AttackCooldownMS:     1200,
		DetectionRangeTiles:  18.0,
	},
	"wolf": {
		MonsterType:          "wolf",
		Level:                1,
		XPReward:             50,
		HP:                   11,
		ArmorClass:           13,
		Stats:                Stats{STR: 12, DEX: 15, CON: 12, INT: 3, WIS: 12, CHA: 6},
		SpeedPixelsPerSecond: 240.0,
		DamageDiceN:          1,
		DamageDiceD:          6,
		DamageBonus:          1,
		AttackCooldownMS:     900,
		DetectionRangeTiles:  20.0,
		PackCreature:         true,
	},
	"troll": {
		MonsterType:          "troll",
		Level:                5,
		XPReward:             800,
		HP:                   84,
		ArmorClass:           15,
		Stats:                Stats{STR: 18, DEX: 13, CON: 20, INT: 7, WIS: 9, CHA: 7},
		SpeedPixelsPerSecond: 200.0,
		DamageDiceN:          1,
		DamageDiceD:          6,
		DamageBonus:          4,
		AttackCooldownMS:     800,
		DetectionRangeTiles:  25.0,
		Regeneration:         true,
	},
	"lich": {
		MonsterType:          "lich",
		Level:                10,
		XPReward:             3000,
		HP:                   135,
		ArmorClass:           17,
		Stats:                Stats{STR: 11, DEX: 16, CON: 16, INT: 20, WIS: 14, CHA: 16},
		SpeedPixelsPerSecond: 180.0,
		DamageDiceN:          3,
		DamageDiceD:          6,
		AttackCooldownMS:     1000,
		DetectionRangeTiles:  35.0,
		IsBoss:               true,
	},
}

// GetMonsterTemplate looks up a monster's immutable stat block by type name.
func GetMonsterTemplate(monsterType string) (MonsterTemplate, bool) {
	tmpl, ok := monsterTemplates[monsterType]
	return tmpl, ok
}
