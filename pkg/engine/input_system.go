package engine

import (
	"math"

	"github.com/ashfall-game/server/pkg/combat"
)

// defaultAttackRangePixels bounds a basic-attack auto-target search when
// the attacker carries no weapon with its own range.
const defaultAttackRangePixels = 48.0

// InputSystem is the only system that reads the cross-goroutine
// InputBuffer; it drains it once per tick and turns each player's pending
// intent into velocity (movement integration), a queued ability
// activation, or a queued basic attack. Running it first keeps every
// other system's view of the world consistent with "the tick loop is the
// only writer."
type InputSystem struct {
	world     *World
	buffer    *InputBuffer
	abilities *AbilitySystem
	combat    *CombatSystem
	nowMS     int64
}

// NewInputSystem creates an input system wired to the given ability and
// combat resolvers, used for the queued-action half of each player's
// intent.
func NewInputSystem(world *World, buffer *InputBuffer, abilities *AbilitySystem, combat *CombatSystem) *InputSystem {
	return &InputSystem{
		world:     world,
		buffer:    buffer,
		abilities: abilities,
		combat:    combat,
	}
}

// SetNowMS sets the current tick timestamp, used for ability/attack
// cooldown checks.
func (s *InputSystem) SetNowMS(nowMS int64) {
	s.nowMS = nowMS
}

// Update drains the input buffer and applies each player's pending
// movement and action to its avatar entity.
func (s *InputSystem) Update(entities []*Entity, deltaTime float64) {
	intents := s.buffer.Drain()
	if len(intents) == 0 {
		return
	}

	for _, entity := range entities {
		playerComp, ok := entity.GetComponent("player")
		if !ok {
			continue
		}
		player := playerComp.(*PlayerComponent)

		intent, ok := intents[player.ConnectionID]
		if !ok {
			continue
		}

		s.applyMovement(entity, intent)

		switch intent.Action {
		case PlayerActionAttack:
			s.performAttack(entity)
		case PlayerActionInteract:
			s.performAbility(entity)
		}
	}
}

// applyMovement normalizes the input vector and scales it by the
// entity's MovementSpeedComponent, defaulting to the baseline player
// speed if one isn't attached.
func (s *InputSystem) applyMovement(entity *Entity, intent PlayerIntent) {
	speed := 200.0
	if speedComp, ok := entity.GetComponent("movement_speed"); ok {
		speed = speedComp.(*MovementSpeedComponent).PixelsPerSecond
	}

	length := math.Sqrt(intent.MoveX*intent.MoveX + intent.MoveY*intent.MoveY)
	if length == 0 {
		SetVelocity(entity, 0, 0)
		return
	}
	SetVelocity(entity, intent.MoveX/length*speed, intent.MoveY/length*speed)
}

// performAttack resolves a basic weapon attack against the nearest enemy
// in range; there is no explicit target id on the wire, so the closest
// live enemy stands in for one.
func (s *InputSystem) performAttack(attacker *Entity) {
	rangePixels := defaultAttackRangePixels
	if equip := attacker.GetEquipment(); equip != nil && equip.MainHand != nil && equip.MainHand.Weapon != nil {
		rangePixels = equip.MainHand.Weapon.RangePixels()
	}

	target := FindNearestEnemy(s.world, attacker, rangePixels)
	if target == nil {
		return
	}
	s.combat.Attack(attacker, target, s.nowMS)
}

// performAbility resolves the caster's class ability against whichever
// target its effect needs: the nearest enemy for offensive abilities, the
// nearest injured ally for Healing Word, or no one for self-buffs.
func (s *InputSystem) performAbility(caster *Entity) {
	char := caster.GetCharacter()
	if char == nil {
		return
	}

	var target *Entity
	switch combat.AbilityForClass(char.Class) {
	case combat.HealingWord:
		target = s.findHealTarget(caster)
	case combat.MagicMissile, combat.HuntersMark:
		target = FindNearestEnemy(s.world, caster, VisionRangePixels)
	}

	s.abilities.UseAbility(caster, target, s.nowMS)
}

// findHealTarget returns the nearest injured ally within vision range, or
// the caster itself if no ally needs healing.
func (s *InputSystem) findHealTarget(caster *Entity) *Entity {
	var teamID int
	if teamComp, ok := caster.GetComponent("team"); ok {
		teamID = teamComp.(*TeamComponent).TeamID
	}

	var nearest *Entity
	nearestDist := math.MaxFloat64
	for _, entity := range s.world.GetEntities() {
		if entity.ID == caster.ID || entity.HasComponent("dead") {
			continue
		}
		teamComp, ok := entity.GetComponent("team")
		if !ok || teamComp.(*TeamComponent).TeamID != teamID {
			continue
		}
		health := entity.GetHealth()
		if health == nil || health.Current >= health.Max {
			continue
		}
		if dist := GetDistance(caster, entity); dist <= VisionRangePixels && dist < nearestDist {
			nearestDist = dist
			nearest = entity
		}
	}
	if nearest == nil {
		return caster
	}
	return nearest
}
