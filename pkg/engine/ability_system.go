// Package engine provides the class-ability system. This file implements
// AbilitySystem, which resolves the six class-specific active abilities
// (Second Wind, Sneak Attack, Healing Word, Magic Missile, Hunter's Mark,
// Rage) on top of the deterministic combat model in pkg/combat.
package engine

import (
	"github.com/ashfall-game/server/pkg/combat"
	"github.com/sirupsen/logrus"
)

// AbilitySystem resolves class-ability activations: cooldown gating,
// immediate effects (healing, direct damage), and status-effect-driven
// abilities (Sneak Attack, Hunter's Mark, Rage).
type AbilitySystem struct {
	logger *logrus.Entry
}

// NewAbilitySystem creates a new ability system.
func NewAbilitySystem() *AbilitySystem {
	return NewAbilitySystemWithLogger(nil)
}

// NewAbilitySystemWithLogger creates an ability system that logs activations
// through the given logger.
func NewAbilitySystemWithLogger(logger *logrus.Logger) *AbilitySystem {
	var entry *logrus.Entry
	if logger != nil {
		entry = logger.WithFields(logrus.Fields{"system": "ability"})
	}
	return &AbilitySystem{logger: entry}
}

// UseAbility activates caster's class ability against target (target may be
// nil for self-targeted abilities). nowMS is the current tick timestamp in
// milliseconds. Returns false if the caster is dead, has no character or
// cooldowns component, or the ability is still on cooldown.
func (s *AbilitySystem) UseAbility(caster, target *Entity, nowMS int64) bool {
	if caster.HasComponent("dead") {
		return false
	}

	char := caster.GetCharacter()
	if char == nil {
		return false
	}

	cooldownsComp, ok := caster.GetComponent("cooldowns")
	if !ok {
		return false
	}
	cd := cooldownsComp.(*CooldownsComponent)

	ability := combat.AbilityForClass(char.Class)
	cooldownMS := combat.AbilityCooldownMS(ability)
	if !cd.AbilityReady(nowMS, cooldownMS) {
		return false
	}

	if kind, durationMS, statusDriven := combat.StatusEffectKindFor(ability); statusDriven {
		// Hunter's Mark is a debuff on the enemy being marked; Sneak Attack
		// and Rage are self-buffs on the caster.
		recipient := caster
		if ability == combat.HuntersMark {
			if target == nil {
				return false
			}
			recipient = target
		}
		s.applyAbilityStatus(recipient, kind, durationMS)
		cd.LastAbilityMS = nowMS
		s.logActivation(caster, ability)
		return true
	}

	switch ability {
	case combat.SecondWind:
		s.secondWind(caster, char)
	case combat.HealingWord:
		if target == nil {
			return false
		}
		s.healingWord(target, char)
	case combat.MagicMissile:
		if target == nil {
			return false
		}
		if !s.magicMissile(target) {
			return false
		}
	default:
		return false
	}

	cd.LastAbilityMS = nowMS
	s.logActivation(caster, ability)
	return true
}

// secondWind heals the fighter caster for 1d10 plus character level.
func (s *AbilitySystem) secondWind(caster *Entity, char *CharacterComponent) {
	health := caster.GetHealth()
	if health == nil {
		return
	}
	health.Heal(combat.DiceAverage(1, 10) + float64(char.Level))
}

// healingWord heals target for 30% of the target's max HP.
func (s *AbilitySystem) healingWord(target *Entity, char *CharacterComponent) {
	health := target.GetHealth()
	if health == nil {
		return
	}
	_ = char
	health.Heal(health.Max * 0.3)
}

// magicMissile deals automatic, unavoidable damage (3 darts, 1d4+1 each) to
// target — the classic D&D magic missile never misses. Returns false if
// target has no health component or is already dead.
func (s *AbilitySystem) magicMissile(target *Entity) bool {
	health := target.GetHealth()
	if health == nil || health.IsDead() {
		return false
	}
	const darts = 3
	damage := darts * (combat.DiceAverage(1, 4) + 1)
	health.TakeDamage(damage)
	return true
}

// applyAbilityStatus installs the status effect backing a status-driven
// ability (Sneak Attack, Hunter's Mark, Rage) onto recipient — the caster
// for self-buffs, the target for Hunter's Mark. durationMS is converted to
// seconds to match StatusEffectComponent's duration units.
func (s *AbilitySystem) applyAbilityStatus(recipient *Entity, kind string, durationMS int64) {
	effect := NewStatusEffectComponent(kind, 0, float64(durationMS)/1000.0, 0)
	recipient.AddComponent(effect)
}

func (s *AbilitySystem) logActivation(caster *Entity, ability combat.ClassAbility) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"entityID": caster.ID,
		"ability":  ability.String(),
	}).Info("ability activated")
}
