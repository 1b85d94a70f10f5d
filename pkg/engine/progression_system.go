package engine

import (
	"fmt"

	"github.com/ashfall-game/server/pkg/combat"
)

// LevelUpCallback is called when an entity levels up.
type LevelUpCallback func(entity *Entity, newLevel int)

// ProgressionSystem manages character progression and experience gain.
type ProgressionSystem struct {
	world            *World
	levelUpCallbacks []LevelUpCallback
}

// NewProgressionSystem creates a new progression system.
func NewProgressionSystem(world *World) *ProgressionSystem {
	return &ProgressionSystem{
		world:            world,
		levelUpCallbacks: make([]LevelUpCallback, 0),
	}
}

// AddLevelUpCallback adds a callback invoked whenever an entity levels up.
func (ps *ProgressionSystem) AddLevelUpCallback(callback LevelUpCallback) {
	if callback != nil {
		ps.levelUpCallbacks = append(ps.levelUpCallbacks, callback)
	}
}

// AwardXP gives experience points to an entity, applying its species' XP
// bonus multiplier, and processes any resulting level-ups.
func (ps *ProgressionSystem) AwardXP(entity *Entity, baseXP int) error {
	if entity == nil {
		return fmt.Errorf("cannot award XP to nil entity")
	}
	if baseXP <= 0 {
		return fmt.Errorf("XP amount must be positive")
	}

	charComp, ok := entity.GetComponent("character")
	if !ok {
		return fmt.Errorf("entity does not have character component")
	}
	character := charComp.(*CharacterComponent)

	bonusXP := int(float64(baseXP) * combat.XPBonusMultiplier(character.Species))
	oldLevel := character.Level
	character.XP += bonusXP
	character.Level = levelFromXP(character.XP)

	if character.Level > oldLevel {
		ps.applyLevelUpBonuses(entity, character.Level-oldLevel)
		for _, callback := range ps.levelUpCallbacks {
			callback(entity, character.Level)
		}
	}

	return nil
}

// applyLevelUpBonuses grants +5 max HP (and a full heal of the gained
// amount) per level gained.
func (ps *ProgressionSystem) applyLevelUpBonuses(entity *Entity, levelsGained int) {
	healthComp, ok := entity.GetComponent("health")
	if !ok {
		return
	}
	health := healthComp.(*HealthComponent)
	gained := 5.0 * float64(levelsGained)
	health.Max += gained
	health.Current += gained
}

// CalculateXPReward calculates the XP a killer should receive for
// defeating the given entity, based on its character level.
func (ps *ProgressionSystem) CalculateXPReward(defeatedEntity *Entity) int {
	charComp, ok := defeatedEntity.GetComponent("character")
	if !ok {
		if monster := defeatedEntity.GetMonster(); monster != nil {
			return monster.XPReward
		}
		return 10
	}
	return xpRewardForLevel(charComp.(*CharacterComponent).Level)
}

// GetLevel returns the current level of an entity, or 1 if it has no
// character component.
func (ps *ProgressionSystem) GetLevel(entity *Entity) int {
	if entity == nil {
		return 1
	}
	charComp, ok := entity.GetComponent("character")
	if !ok {
		return 1
	}
	return charComp.(*CharacterComponent).Level
}

// InitializeEntityAtLevel sets up a character component at a specific level
// with the corresponding total accumulated XP.
func (ps *ProgressionSystem) InitializeEntityAtLevel(entity *Entity, level int) error {
	if entity == nil {
		return fmt.Errorf("cannot initialize nil entity")
	}
	if level < 1 {
		level = 1
	}

	charComp, ok := entity.GetComponent("character")
	if !ok {
		return fmt.Errorf("entity does not have character component")
	}
	character := charComp.(*CharacterComponent)
	character.Level = level
	character.XP = xpForLevel(level)
	return nil
}

// Update implements the System interface. ProgressionSystem is event-driven
// (AwardXP), not frame-driven, so this is a no-op.
func (ps *ProgressionSystem) Update(entities []*Entity, deltaTime float64) {}
