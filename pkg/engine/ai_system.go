// Package engine provides the AI system for autonomous entity behavior.
// This file implements AISystem which manages state transitions and behaviors
// for AI-controlled entities using a state machine pattern.
package engine

import (
	"math"
)

// AISystem manages artificial intelligence behaviors for entities.
// It implements a state machine that transitions between idle, patrol,
// chase, attack, and flee states.
type AISystem struct {
	world  *World
	combat *CombatSystem
	nowMS  int64

	// alertRadiusTiles is the distance, in 32px tiles, within which a
	// monster's damage-time pack alert wakes same-type allies.
	alertRadiusTiles float64
	tileSize         float64
}

// NewAISystem creates a new AI system.
func NewAISystem(world *World) *AISystem {
	return &AISystem{
		world:            world,
		combat:           NewCombatSystem(),
		alertRadiusTiles: 15.0,
		tileSize:         32.0,
	}
}

// SetNowMS sets the current tick timestamp in milliseconds, used for
// attack cooldown checks performed during the Attack state.
func (ai *AISystem) SetNowMS(nowMS int64) {
	ai.nowMS = nowMS
}

// Update processes AI behavior for all entities with AI components.
func (ai *AISystem) Update(entities []*Entity, deltaTime float64) {
	for _, entity := range entities {
		aiComp, ok := entity.GetComponent("ai")
		if !ok {
			continue
		}
		aiState := aiComp.(*AIComponent)

		if entity.HasComponent("dead") {
			aiState.ChangeState(AIStateDead)
			continue
		}

		aiState.UpdateStateTimer(deltaTime)

		if !aiState.ShouldUpdateDecision(deltaTime) {
			continue
		}

		ai.processAI(entity, aiState)
	}
}

// processAI handles the AI decision-making logic for an entity.
func (ai *AISystem) processAI(entity *Entity, aiComp *AIComponent) {
	posComp, ok := entity.GetComponent("position")
	if !ok {
		return
	}
	pos := posComp.(*PositionComponent)

	shouldFlee := ai.shouldFlee(entity, aiComp)

	switch aiComp.State {
	case AIStateIdle:
		ai.processIdle(entity, aiComp, pos)

	case AIStatePatrol:
		ai.processPatrol(entity, aiComp, pos)

	case AIStateChase:
		if shouldFlee {
			aiComp.ClearTarget()
			aiComp.ChangeState(AIStateFlee)
		} else {
			ai.processChase(entity, aiComp, pos)
		}

	case AIStateAttack:
		if shouldFlee {
			aiComp.ClearTarget()
			aiComp.ChangeState(AIStateFlee)
		} else {
			ai.processAttack(entity, aiComp, pos)
		}

	case AIStateFlee:
		ai.processFlee(entity, aiComp, pos)

	case AIStateDead:
		// terminal; nothing to process
	}
}

// processIdle handles the idle state: detecting a nearby enemy jumps
// straight to chasing it, per the collapsed state machine.
func (ai *AISystem) processIdle(entity *Entity, aiComp *AIComponent, pos *PositionComponent) {
	if target := ai.findNearestEnemy(entity, pos, aiComp.DetectionRange); target != nil {
		aiComp.Target = target
		aiComp.ChangeState(AIStateChase)
	}
}

// processPatrol handles the patrol state.
func (ai *AISystem) processPatrol(entity *Entity, aiComp *AIComponent, pos *PositionComponent) {
	if target := ai.findNearestEnemy(entity, pos, aiComp.DetectionRange); target != nil {
		aiComp.Target = target
		aiComp.ChangeState(AIStateChase)
		return
	}

	if aiComp.HasPatrolRoute() {
		waypoint := aiComp.GetCurrentWaypoint()
		if waypoint == nil {
			return
		}
		if ai.getDistance(pos.X, pos.Y, waypoint.X, waypoint.Y) <= aiComp.WaypointReachDistance {
			if !aiComp.IsWaitingAtWaypoint(aiComp.DecisionInterval) {
				aiComp.AdvanceToNextWaypoint()
			}
			return
		}
		ai.moveTowards(entity, pos, waypoint.X, waypoint.Y, aiComp.GetSpeedMultiplier())
	}
}

// processChase handles the chase state: pursue the target until in attack
// range, too far from spawn, or the target becomes invalid.
func (ai *AISystem) processChase(entity *Entity, aiComp *AIComponent, pos *PositionComponent) {
	if !ai.isValidTarget(aiComp.Target, pos, aiComp.DetectionRange*1.5) {
		aiComp.ClearTarget()
		aiComp.ChangeState(AIStateIdle)
		return
	}

	if aiComp.ShouldReturnToSpawn(pos.X, pos.Y) {
		aiComp.ClearTarget()
		aiComp.ChangeState(AIStateIdle)
		return
	}

	targetPos, ok := aiComp.Target.GetComponent("position")
	if !ok {
		aiComp.ClearTarget()
		aiComp.ChangeState(AIStateIdle)
		return
	}
	targetP := targetPos.(*PositionComponent)

	if ai.getDistance(pos.X, pos.Y, targetP.X, targetP.Y) <= ai.attackRange(entity) {
		aiComp.ChangeState(AIStateAttack)
		return
	}

	ai.moveTowards(entity, pos, targetP.X, targetP.Y, aiComp.GetSpeedMultiplier())
}

// processAttack handles the attack state.
func (ai *AISystem) processAttack(entity *Entity, aiComp *AIComponent, pos *PositionComponent) {
	if !ai.isValidTarget(aiComp.Target, pos, aiComp.DetectionRange*1.5) {
		aiComp.ClearTarget()
		aiComp.ChangeState(AIStateIdle)
		return
	}

	targetPos, ok := aiComp.Target.GetComponent("position")
	if !ok {
		aiComp.ClearTarget()
		aiComp.ChangeState(AIStateIdle)
		return
	}
	targetP := targetPos.(*PositionComponent)

	if ai.getDistance(pos.X, pos.Y, targetP.X, targetP.Y) > ai.attackRange(entity) {
		aiComp.ChangeState(AIStateChase)
		return
	}

	ai.combat.Attack(entity, aiComp.Target, ai.nowMS)
}

// processFlee handles the flee state: run towards spawn until health
// recovers or spawn is reached, then return to idle.
func (ai *AISystem) processFlee(entity *Entity, aiComp *AIComponent, pos *PositionComponent) {
	if !ai.shouldFlee(entity, aiComp) || aiComp.GetDistanceFromSpawn(pos.X, pos.Y) < 10.0 {
		aiComp.ClearTarget()
		aiComp.ChangeState(AIStateIdle)
		if velComp, ok := entity.GetComponent("velocity"); ok {
			vel := velComp.(*VelocityComponent)
			vel.VX, vel.VY = 0, 0
		}
		return
	}

	ai.moveTowards(entity, pos, aiComp.SpawnX, aiComp.SpawnY, aiComp.GetSpeedMultiplier())
}

// attackRange returns the entity's effective attack range in pixels, based
// on its equipped main-hand weapon, or a default melee reach if unarmed.
func (ai *AISystem) attackRange(entity *Entity) float64 {
	if equip := entity.GetEquipment(); equip != nil && equip.MainHand != nil && equip.MainHand.Weapon != nil {
		return equip.MainHand.Weapon.RangePixels()
	}
	return ai.tileSize * 1.5
}

// shouldFlee checks if the entity should flee based on health.
func (ai *AISystem) shouldFlee(entity *Entity, aiComp *AIComponent) bool {
	healthComp, ok := entity.GetComponent("health")
	if !ok {
		return false
	}
	health := healthComp.(*HealthComponent)
	if health.Max <= 0 {
		return false
	}
	return health.Current/health.Max < aiComp.FleeHealthThreshold
}

// findNearestEnemy finds the closest enemy within the detection range.
func (ai *AISystem) findNearestEnemy(entity *Entity, pos *PositionComponent, detectionRange float64) *Entity {
	teamComp, ok := entity.GetComponent("team")
	if !ok {
		return nil
	}
	team := teamComp.(*TeamComponent)

	var nearest *Entity
	nearestDist := detectionRange

	for _, other := range ai.world.entities {
		if other == entity {
			continue
		}

		otherTeam, ok := other.GetComponent("team")
		if !ok {
			continue
		}
		if !team.IsEnemy(otherTeam.(*TeamComponent).TeamID) {
			continue
		}

		if otherHealth, ok := other.GetComponent("health"); ok {
			if otherHealth.(*HealthComponent).IsDead() {
				continue
			}
		}

		otherPos, ok := other.GetComponent("position")
		if !ok {
			continue
		}
		otherP := otherPos.(*PositionComponent)

		if dist := ai.getDistance(pos.X, pos.Y, otherP.X, otherP.Y); dist < nearestDist {
			nearest = other
			nearestDist = dist
		}
	}

	return nearest
}

// isValidTarget checks if a target is still valid (alive, in range).
func (ai *AISystem) isValidTarget(target *Entity, pos *PositionComponent, maxRange float64) bool {
	if target == nil {
		return false
	}
	if targetHealth, ok := target.GetComponent("health"); ok {
		if targetHealth.(*HealthComponent).IsDead() {
			return false
		}
	}
	targetPos, ok := target.GetComponent("position")
	if !ok {
		return false
	}
	targetP := targetPos.(*PositionComponent)
	return ai.getDistance(pos.X, pos.Y, targetP.X, targetP.Y) <= maxRange
}

// moveTowards moves an entity towards a target position.
func (ai *AISystem) moveTowards(entity *Entity, pos *PositionComponent, targetX, targetY, speedMultiplier float64) {
	velComp, ok := entity.GetComponent("velocity")
	if !ok {
		return
	}
	vel := velComp.(*VelocityComponent)

	dx := targetX - pos.X
	dy := targetY - pos.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	if dist > 0 {
		speed := 100.0 * speedMultiplier
		if speedComp, ok := entity.GetComponent("movement_speed"); ok {
			speed = speedComp.(*MovementSpeedComponent).PixelsPerSecond * speedMultiplier
		}
		vel.VX = (dx / dist) * speed
		vel.VY = (dy / dist) * speed
	}
}

// getDistance calculates the distance between two points.
func (ai *AISystem) getDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// SetDetectionRange sets the detection range for an AI entity.
func (ai *AISystem) SetDetectionRange(entity *Entity, detectionRange float64) {
	if aiComp, ok := entity.GetComponent("ai"); ok {
		aiComp.(*AIComponent).DetectionRange = detectionRange
	}
}

// GetState returns the current AI state of an entity.
func (ai *AISystem) GetState(entity *Entity) AIState {
	aiComp, ok := entity.GetComponent("ai")
	if !ok {
		return AIStateIdle
	}
	return aiComp.(*AIComponent).State
}

// AlertPack notifies nearby monsters of the same MonsterType that victim
// was attacked by attacker, setting them to chase the attacker — grounded on
// the "call for help" pack-aggro behavior. It is not run per tick, and
// nothing in this repository calls it from the combat damage path.
func (ai *AISystem) AlertPack(attacker, victim *Entity) {
	victimMonster := victim.GetMonster()
	victimPos, ok := victim.GetComponent("position")
	if victimMonster == nil || !ok {
		return
	}
	vPos := victimPos.(*PositionComponent)
	radius := ai.alertRadiusTiles * ai.tileSize

	for _, other := range ai.world.entities {
		if other == victim {
			continue
		}
		otherMonster := other.GetMonster()
		if otherMonster == nil || otherMonster.MonsterType != victimMonster.MonsterType {
			continue
		}
		aiComp, ok := other.GetComponent("ai")
		if !ok {
			continue
		}
		otherPos, ok := other.GetComponent("position")
		if !ok {
			continue
		}
		oPos := otherPos.(*PositionComponent)
		if ai.getDistance(vPos.X, vPos.Y, oPos.X, oPos.Y) > radius {
			continue
		}

		state := aiComp.(*AIComponent)
		state.Target = attacker
		state.ChangeState(AIStateChase)
	}
}
