// Package engine provides the combat system for damage and status effects.
// This file implements CombatSystem which handles damage resolution, attack
// cooldowns, and status effect ticking using the combat package's
// deterministic to-hit and damage model.
package engine

import (
	"math"

	"github.com/ashfall-game/server/pkg/combat"
	"github.com/sirupsen/logrus"
)

// CombatSystem handles combat interactions, damage calculation, and status effects.
type CombatSystem struct {
	resolver combat.CombatResolver

	// Callback for when an entity dies
	onDeathCallback func(entity *Entity)

	// Callback for when damage is dealt
	onDamageCallback func(attacker, target *Entity, damage float64)

	// Logger for combat events
	logger *logrus.Entry
}

// NewCombatSystem creates a new combat system using the default resolver.
func NewCombatSystem() *CombatSystem {
	return NewCombatSystemWithLogger(nil)
}

// NewCombatSystemWithLogger creates a new combat system with a logger.
func NewCombatSystemWithLogger(logger *logrus.Logger) *CombatSystem {
	var logEntry *logrus.Entry
	if logger != nil {
		logEntry = logger.WithFields(logrus.Fields{"system": "combat"})
		logEntry.Debug("combat system created")
	}

	return &CombatSystem{
		resolver: combat.NewDefaultResolver(),
		logger:   logEntry,
	}
}

// Update implements the System interface.
// Updates status effect and shield durations; attack cooldowns are tracked
// as monotonic timestamps in CooldownsComponent and need no per-tick update.
func (s *CombatSystem) Update(entities []*Entity, deltaTime float64) {
	for _, entity := range entities {
		statusComp, ok := entity.GetComponent("status_effect")
		if !ok {
			continue
		}
		status := statusComp.(*StatusEffectComponent)

		if ticked := status.Update(deltaTime); ticked {
			s.applyStatusEffectTick(entity, status)
		}

		if status.IsExpired() {
			entity.RemoveComponent("status_effect")
			ReleaseStatusEffect(status)
		}
	}

	for _, entity := range entities {
		shieldComp, ok := entity.GetComponent("shield")
		if !ok {
			continue
		}
		shield := shieldComp.(*ShieldComponent)
		shield.Update(deltaTime)
		if !shield.IsActive() {
			entity.RemoveComponent("shield")
		}
	}

	for _, entity := range entities {
		healthComp, ok := entity.GetComponent("health")
		if !ok {
			continue
		}
		health := healthComp.(*HealthComponent)
		if !health.IsDead() || entity.HasComponent("dead") {
			continue
		}
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"entityID": entity.ID}).Info("entity death")
		}
		if s.onDeathCallback != nil {
			s.onDeathCallback(entity)
		}
	}
}

// applyStatusEffectTick applies periodic status effect damage/healing.
func (s *CombatSystem) applyStatusEffectTick(entity *Entity, effect *StatusEffectComponent) {
	healthComp, ok := entity.GetComponent("health")
	if !ok {
		return
	}
	health := healthComp.(*HealthComponent)

	switch effect.EffectType {
	case "poison", "burn":
		health.TakeDamage(effect.Magnitude)
	case "regeneration":
		health.Heal(effect.Magnitude)
	}
}

// toAttacker builds a combat.Attacker description from an entity's stats,
// species, and equipped main-hand weapon.
func toAttacker(e *Entity) (combat.Attacker, bool) {
	statsComp, ok := e.GetComponent("stats")
	if !ok {
		return combat.Attacker{}, false
	}
	stats := statsComp.(*StatsComponent).ToCombatStats()

	var species combat.Species
	if charComp := e.GetCharacter(); charComp != nil {
		species = charComp.Species
	}

	var weapon *combat.WeaponStats
	var enchant int
	if equip := e.GetEquipment(); equip != nil && equip.MainHand != nil && equip.MainHand.Weapon != nil {
		ws := *equip.MainHand.Weapon
		weapon = &ws
		enchant = equip.MainHand.EnchantmentBonus
	}

	return combat.Attacker{
		EntityID: e.ID,
		Stats:    stats,
		Weapon:   weapon,
		Species:  species,
		Enchant:  enchant,
	}, true
}

// toDefender builds a combat.Defender description from an entity's stats,
// species, and armor class.
func toDefender(e *Entity) (combat.Defender, bool) {
	statsComp, ok := e.GetComponent("stats")
	if !ok {
		return combat.Defender{}, false
	}
	stats := statsComp.(*StatsComponent).ToCombatStats()

	var species combat.Species
	if charComp := e.GetCharacter(); charComp != nil {
		species = charComp.Species
	}

	ac := 10
	if acComp, ok := e.GetComponent("armor_class"); ok {
		ac = acComp.(*ArmorClassComponent).Value
	}

	return combat.Defender{
		EntityID:   e.ID,
		Stats:      stats,
		ArmorClass: ac,
		Species:    species,
	}, true
}

// Attack performs an attack from attacker to target, respecting attack
// speed cooldowns. nowMS is the current tick timestamp in milliseconds.
// Returns true if the attack connected.
func (s *CombatSystem) Attack(attacker, target *Entity, nowMS int64) bool {
	if attacker.HasComponent("dead") || target.HasComponent("dead") {
		return false
	}

	cooldowns, ok := attacker.GetComponent("cooldowns")
	if !ok {
		return false
	}
	cd := cooldowns.(*CooldownsComponent)

	speedComp, ok := attacker.GetComponent("attack_speed")
	if !ok {
		return false
	}
	speed := speedComp.(*AttackSpeedComponent)

	if !cd.AttackReady(nowMS, speed) {
		return false
	}

	targetHealthComp, ok := target.GetComponent("health")
	if !ok {
		return false
	}
	health := targetHealthComp.(*HealthComponent)
	if health.IsDead() {
		return false
	}

	atk, ok := toAttacker(attacker)
	if !ok {
		return false
	}
	def, ok := toDefender(target)
	if !ok {
		return false
	}

	if _, aPos := attacker.GetComponent("position"); aPos != nil {
		if _, tPos := target.GetComponent("position"); tPos != nil {
			rangePx := 32.0 * 1.5
			if atk.Weapon != nil {
				rangePx = atk.Weapon.RangePixels()
			}
			if GetDistance(attacker, target) > rangePx {
				return false
			}
		}
	}

	dmg, hit := s.resolver.ResolveAttack(atk, def)
	cd.LastAttackMS = nowMS

	if !hit {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"attackerID": attacker.ID, "targetID": target.ID,
			}).Debug("attack missed")
		}
		return false
	}

	dmg.Amount = s.applyAbilityModifiers(attacker, target, dmg.Amount)

	if shieldComp, hasShield := target.GetComponent("shield"); hasShield {
		shield := shieldComp.(*ShieldComponent)
		if shield.IsActive() {
			absorbed := shield.AbsorbDamage(dmg.Amount)
			dmg.Amount -= absorbed
			if dmg.Amount <= 0 {
				return true
			}
		}
	}

	health.TakeDamage(dmg.Amount)

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"attackerID": attacker.ID, "targetID": target.ID,
			"damage": dmg.Amount, "targetHealth": health.Current,
		}).Info("damage dealt")
	}

	if s.onDamageCallback != nil {
		s.onDamageCallback(attacker, target, dmg.Amount)
	}

	return true
}

// applyAbilityModifiers folds the three status-effect-driven class
// abilities into a landed hit's damage: Sneak Attack doubles and consumes
// itself on the attacker, Hunter's Mark adds 1d6 while the target carries
// the mark, and Rage adds flat damage on the raging attacker and halves
// incoming damage on a raging target.
func (s *CombatSystem) applyAbilityModifiers(attacker, target *Entity, amount float64) float64 {
	if statusComp, ok := attacker.GetComponent("status_effect"); ok {
		status := statusComp.(*StatusEffectComponent)
		switch status.EffectType {
		case "sneak_attack_ready":
			amount *= 2
			attacker.RemoveComponent("status_effect")
			ReleaseStatusEffect(status)
		case "raging":
			amount += 2
		}
	}

	if statusComp, ok := target.GetComponent("status_effect"); ok {
		status := statusComp.(*StatusEffectComponent)
		switch status.EffectType {
		case "hunters_mark":
			amount += combat.DiceAverage(1, 6)
		case "raging":
			amount *= 0.5
		}
	}

	return amount
}

// CanAttackTarget checks if an attacker can attack a target (range and cooldown check).
func (s *CombatSystem) CanAttackTarget(attacker, target *Entity, nowMS int64) bool {
	cooldowns, ok := attacker.GetComponent("cooldowns")
	if !ok {
		return false
	}
	speedComp, ok := attacker.GetComponent("attack_speed")
	if !ok {
		return false
	}
	if !cooldowns.(*CooldownsComponent).AttackReady(nowMS, speedComp.(*AttackSpeedComponent)) {
		return false
	}

	targetHealth, ok := target.GetComponent("health")
	if !ok || targetHealth.(*HealthComponent).IsDead() {
		return false
	}

	_, attackerHasPos := attacker.GetComponent("position")
	_, targetHasPos := target.GetComponent("position")
	if attackerHasPos && targetHasPos {
		rangePx := 32.0 * 1.5
		if equip := attacker.GetEquipment(); equip != nil && equip.MainHand != nil && equip.MainHand.Weapon != nil {
			rangePx = equip.MainHand.Weapon.RangePixels()
		}
		if GetDistance(attacker, target) > rangePx {
			return false
		}
	}

	return true
}

// ApplyStatusEffect applies a status effect to an entity, drawing the
// component from the shared pool (see status_effect_pool.go) to avoid an
// allocation on every cast.
func (s *CombatSystem) ApplyStatusEffect(target *Entity, effectType string, duration, magnitude, tickInterval float64) {
	effect := NewStatusEffectComponent(effectType, magnitude, duration, tickInterval)
	target.AddComponent(effect)
}

// ApplyShield grants target a damage-absorption shield, stacking onto any
// shield already active.
func (s *CombatSystem) ApplyShield(target *Entity, amount, duration float64) {
	if shieldComp, ok := target.GetComponent("shield"); ok {
		shield := shieldComp.(*ShieldComponent)
		shield.Amount += amount
		if shield.Amount > shield.MaxAmount {
			shield.MaxAmount = shield.Amount
		}
		if duration > shield.Duration {
			shield.Duration = duration
			shield.MaxDuration = duration
		}
		return
	}

	target.AddComponent(&ShieldComponent{
		Amount:      amount,
		MaxAmount:   amount,
		Duration:    duration,
		MaxDuration: duration,
	})
}

// Heal heals a target entity by the given amount.
func (s *CombatSystem) Heal(target *Entity, amount float64) {
	healthComp, ok := target.GetComponent("health")
	if !ok {
		return
	}
	health := healthComp.(*HealthComponent)
	health.Heal(amount)
}

// SetDeathCallback sets the callback function for entity deaths.
func (s *CombatSystem) SetDeathCallback(callback func(entity *Entity)) {
	s.onDeathCallback = callback
}

// SetDamageCallback sets the callback function for damage dealt.
func (s *CombatSystem) SetDamageCallback(callback func(attacker, target *Entity, damage float64)) {
	s.onDamageCallback = callback
}

// FindEnemiesInRange finds all enemy entities within the given range of the attacker.
func FindEnemiesInRange(world *World, attacker *Entity, maxRange float64) []*Entity {
	_, ok := attacker.GetComponent("position")
	if !ok {
		return nil
	}

	attackerTeam, _ := attacker.GetComponent("team")
	var attackerTeamID int
	if attackerTeam != nil {
		attackerTeamID = attackerTeam.(*TeamComponent).TeamID
	}

	enemies := make([]*Entity, 0)

	for _, entity := range world.GetEntities() {
		if entity.ID == attacker.ID {
			continue
		}
		if entity.HasComponent("dead") {
			continue
		}

		targetTeam, hasTeam := entity.GetComponent("team")
		if hasTeam {
			team := targetTeam.(*TeamComponent)
			if !team.IsEnemy(attackerTeamID) {
				continue
			}
		}

		healthComp, hasHealth := entity.GetComponent("health")
		if !hasHealth || healthComp.(*HealthComponent).IsDead() {
			continue
		}

		_, hasPos := entity.GetComponent("position")
		if !hasPos {
			continue
		}

		if GetDistance(attacker, entity) <= maxRange {
			enemies = append(enemies, entity)
		}
	}

	return enemies
}

// FindNearestEnemy finds the closest enemy to the attacker within the given range.
func FindNearestEnemy(world *World, attacker *Entity, maxRange float64) *Entity {
	enemies := FindEnemiesInRange(world, attacker, maxRange)
	if len(enemies) == 0 {
		return nil
	}

	var nearest *Entity
	nearestDistance := math.MaxFloat64

	for _, enemy := range enemies {
		distance := GetDistance(attacker, enemy)
		if distance < nearestDistance {
			nearestDistance = distance
			nearest = enemy
		}
	}

	return nearest
}
