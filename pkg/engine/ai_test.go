package engine

import (
	"testing"

	"github.com/ashfall-game/server/pkg/combat"
)

// TestAIComponent tests the AIComponent functionality.
func TestAIComponent(t *testing.T) {
	ai := NewAIComponent(100, 200)

	// Test initial state
	if ai.State != AIStateIdle {
		t.Errorf("initial state = %v, want %v", ai.State, AIStateIdle)
	}
	if ai.SpawnX != 100 || ai.SpawnY != 200 {
		t.Errorf("spawn position = (%v, %v), want (100, 200)", ai.SpawnX, ai.SpawnY)
	}
	if ai.HasTarget() {
		t.Error("new AI should not have a target")
	}
}

// TestAIComponentStateChanges tests state transitions.
func TestAIComponentStateChanges(t *testing.T) {
	ai := NewAIComponent(0, 0)

	// Change state
	ai.ChangeState(AIStateChase)
	if ai.State != AIStateChase {
		t.Errorf("state = %v, want %v", ai.State, AIStateChase)
	}
	if ai.StateTimer != 0 {
		t.Errorf("state timer = %v, want 0", ai.StateTimer)
	}

	// Update state timer
	ai.UpdateStateTimer(1.5)
	if ai.StateTimer != 1.5 {
		t.Errorf("state timer = %v, want 1.5", ai.StateTimer)
	}

	// Change state again should reset timer
	ai.ChangeState(AIStateAttack)
	if ai.StateTimer != 0 {
		t.Errorf("state timer = %v, want 0 after state change", ai.StateTimer)
	}
}

// TestAIComponentDecisionTimer tests the decision timing.
func TestAIComponentDecisionTimer(t *testing.T) {
	ai := NewAIComponent(0, 0)
	ai.DecisionInterval = 1.0
	ai.DecisionTimer = 1.0

	// Should not update yet
	if ai.ShouldUpdateDecision(0.5) {
		t.Error("should not update decision yet")
	}

	// Should update now
	if !ai.ShouldUpdateDecision(0.6) {
		t.Error("should update decision now")
	}

	// Timer should be reset
	if ai.DecisionTimer <= 0 || ai.DecisionTimer > 1.0 {
		t.Errorf("decision timer = %v, should be reset to interval", ai.DecisionTimer)
	}
}

// TestAIComponentSpeedMultipliers tests speed multipliers for different states.
func TestAIComponentSpeedMultipliers(t *testing.T) {
	ai := NewAIComponent(0, 0)

	tests := []struct {
		state AIState
		want  float64
	}{
		{AIStateIdle, 1.0},
		{AIStatePatrol, 0.5},
		{AIStateChase, 1.0},
		{AIStateAttack, 1.0},
		{AIStateFlee, 1.5},
	}

	for _, tt := range tests {
		ai.State = tt.state
		got := ai.GetSpeedMultiplier()
		if got != tt.want {
			t.Errorf("speed multiplier for %v = %v, want %v", tt.state, got, tt.want)
		}
	}
}

// TestAIComponentDistanceCalculations tests distance from spawn.
func TestAIComponentDistanceCalculations(t *testing.T) {
	ai := NewAIComponent(100, 100)

	tests := []struct {
		name       string
		x, y       float64
		wantDist   float64
		wantReturn bool
	}{
		{"at spawn", 100, 100, 0, false},
		{"close to spawn", 110, 110, 14.142, false},
		{"far from spawn", 700, 100, 600, true}, // sqrt(600^2 + 0^2) = 600
	}

	ai.MaxChaseDistance = 500

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist := ai.GetDistanceFromSpawn(tt.x, tt.y)
			// Use wider tolerance for distance checks (sqrt can be imprecise)
			if dist < tt.wantDist-50 || dist > tt.wantDist+50 {
				t.Errorf("distance = %v, want ~%v", dist, tt.wantDist)
			}

			shouldReturn := ai.ShouldReturnToSpawn(tt.x, tt.y)
			if shouldReturn != tt.wantReturn {
				t.Errorf("should return = %v, want %v", shouldReturn, tt.wantReturn)
			}
		})
	}
}

// TestAISystemIdle tests idle state behavior: detecting an enemy jumps
// straight to Chase, since the Detect state was folded away.
func TestAISystemIdle(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity
	ai := world.CreateEntity()
	ai.AddComponent(NewAIComponent(100, 100))
	ai.AddComponent(&PositionComponent{X: 100, Y: 100})
	ai.AddComponent(&TeamComponent{TeamID: 1})

	// Create enemy
	enemy := world.CreateEntity()
	enemy.AddComponent(&PositionComponent{X: 150, Y: 150})
	enemy.AddComponent(&TeamComponent{TeamID: 2})
	enemy.AddComponent(&HealthComponent{Current: 100, Max: 100})

	world.Update(0)

	// Update AI - should detect enemy and start chasing immediately
	aiSystem.Update(world.GetEntities(), 0.6)

	aiComp, _ := ai.GetComponent("ai")
	aiC := aiComp.(*AIComponent)

	if aiC.State != AIStateChase {
		t.Errorf("state = %v, want %v", aiC.State, AIStateChase)
	}
	if !aiC.HasTarget() {
		t.Error("should have detected target")
	}
}

// TestAISystemChase tests chase behavior.
func TestAISystemChase(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity with all needed components
	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateChase
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 100, Y: 100})
	ai.AddComponent(&VelocityComponent{})
	ai.AddComponent(&TeamComponent{TeamID: 1})

	// Create enemy within detection range but outside attack range
	enemy := world.CreateEntity()
	enemy.AddComponent(&PositionComponent{X: 200, Y: 100}) // 100 pixels away
	enemy.AddComponent(&TeamComponent{TeamID: 2})
	enemy.AddComponent(&HealthComponent{Current: 100, Max: 100})

	aiComp.Target = enemy
	aiComp.DetectionRange = 300 // Ensure enemy is within detection range

	world.Update(0)

	// Update AI
	aiSystem.Update(world.GetEntities(), 0.6)

	// Should still be chasing (enemy is in detection range but not attack range)
	if aiComp.State != AIStateChase {
		t.Errorf("state = %v, want %v", aiComp.State, AIStateChase)
	}

	// Should have set velocity towards enemy
	velComp, _ := ai.GetComponent("velocity")
	vel := velComp.(*VelocityComponent)
	if vel.VX == 0 && vel.VY == 0 {
		t.Error("velocity should be set when chasing")
	}
}

// TestAISystemAttack tests attack behavior.
func TestAISystemAttack(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity
	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateAttack
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 100, Y: 100})
	ai.AddComponent(&VelocityComponent{})
	ai.AddComponent(&TeamComponent{TeamID: 1})
	ai.AddComponent(NewStatsComponent(*combat.NewStats()))
	ai.AddComponent(&ArmorClassComponent{Value: 10})
	ai.AddComponent(&AttackSpeedComponent{CooldownMS: 1000})
	ai.AddComponent(&CooldownsComponent{})

	// Create enemy in attack range
	enemy := world.CreateEntity()
	enemy.AddComponent(&PositionComponent{X: 120, Y: 100})
	enemy.AddComponent(&TeamComponent{TeamID: 2})
	enemy.AddComponent(&HealthComponent{Current: 100, Max: 100})
	enemy.AddComponent(NewStatsComponent(*combat.NewStats()))
	enemy.AddComponent(&ArmorClassComponent{Value: 10})

	aiComp.Target = enemy

	world.Update(0)

	// Get initial enemy health
	enemyHealth, _ := enemy.GetComponent("health")
	initialHealth := enemyHealth.(*HealthComponent).Current

	aiSystem.SetNowMS(1000)

	// Update AI
	aiSystem.Update(world.GetEntities(), 0.6)

	// Should still be in attack state
	if aiComp.State != AIStateAttack {
		t.Errorf("state = %v, want %v", aiComp.State, AIStateAttack)
	}

	// Enemy should have taken damage (default ArmorClass 10 is always hit)
	currentHealth := enemyHealth.(*HealthComponent).Current
	if currentHealth >= initialHealth {
		t.Errorf("enemy health = %v, should be less than %v", currentHealth, initialHealth)
	}
}

// TestAISystemFlee tests flee behavior.
func TestAISystemFlee(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity with low health
	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateFlee
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 200, Y: 200})
	ai.AddComponent(&VelocityComponent{})
	ai.AddComponent(&TeamComponent{TeamID: 1})
	ai.AddComponent(&HealthComponent{Current: 10, Max: 100}) // 10% health

	world.Update(0)

	// Update AI
	aiSystem.Update(world.GetEntities(), 0.6)

	// Should still be fleeing
	if aiComp.State != AIStateFlee {
		t.Errorf("state = %v, want %v", aiComp.State, AIStateFlee)
	}

	// Should be moving towards spawn
	velComp, _ := ai.GetComponent("velocity")
	vel := velComp.(*VelocityComponent)
	if vel.VX == 0 && vel.VY == 0 {
		t.Error("velocity should be set when fleeing")
	}
}

// TestAISystemFleeReachesSpawn tests the flee-to-idle transition once the
// entity reaches its spawn point.
func TestAISystemFleeReachesSpawn(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateFlee
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 105, Y: 105})
	ai.AddComponent(&VelocityComponent{VX: 10, VY: 10})
	ai.AddComponent(&TeamComponent{TeamID: 1})
	ai.AddComponent(&HealthComponent{Current: 80, Max: 100}) // healthy, no longer fleeing

	world.Update(0)

	aiSystem.Update(world.GetEntities(), 0.6)

	if aiComp.State != AIStateIdle {
		t.Errorf("state = %v, want %v after reaching spawn healthy", aiComp.State, AIStateIdle)
	}

	velComp, _ := ai.GetComponent("velocity")
	vel := velComp.(*VelocityComponent)
	if vel.VX != 0 || vel.VY != 0 {
		t.Error("velocity should be stopped when idle at spawn")
	}
}

// TestAISystemFleeTransition tests transitioning from combat to flee.
func TestAISystemFleeTransition(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity in attack state with low health
	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateAttack
	aiComp.FleeHealthThreshold = 0.2
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 100, Y: 100})
	ai.AddComponent(&VelocityComponent{})
	ai.AddComponent(&TeamComponent{TeamID: 1})
	ai.AddComponent(&HealthComponent{Current: 15, Max: 100}) // 15% health

	// Create enemy
	enemy := world.CreateEntity()
	enemy.AddComponent(&PositionComponent{X: 150, Y: 100})
	enemy.AddComponent(&TeamComponent{TeamID: 2})
	enemy.AddComponent(&HealthComponent{Current: 100, Max: 100})

	aiComp.Target = enemy

	world.Update(0)

	// Update AI - should transition to flee
	aiSystem.Update(world.GetEntities(), 0.6)

	if aiComp.State != AIStateFlee {
		t.Errorf("state = %v, want %v when health low", aiComp.State, AIStateFlee)
	}
}

// TestAISystemChaseRange tests chase distance limit: giving up goes
// straight to Idle since the Return state was folded away.
func TestAISystemChaseRange(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity far from spawn
	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateChase
	aiComp.MaxChaseDistance = 200
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 400, Y: 100}) // 300 pixels from spawn
	ai.AddComponent(&VelocityComponent{})
	ai.AddComponent(&TeamComponent{TeamID: 1})

	// Create enemy
	enemy := world.CreateEntity()
	enemy.AddComponent(&PositionComponent{X: 450, Y: 100})
	enemy.AddComponent(&TeamComponent{TeamID: 2})
	enemy.AddComponent(&HealthComponent{Current: 100, Max: 100})

	aiComp.Target = enemy

	world.Update(0)

	// Update AI - should give up and go idle (too far from spawn)
	aiSystem.Update(world.GetEntities(), 0.6)

	if aiComp.State != AIStateIdle {
		t.Errorf("state = %v, want %v when too far from spawn", aiComp.State, AIStateIdle)
	}
	if aiComp.HasTarget() {
		t.Error("should not have target after giving up chase")
	}
}

// TestAISystemNoComponents tests AI with missing components.
func TestAISystemNoComponents(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity without position
	ai := world.CreateEntity()
	ai.AddComponent(NewAIComponent(100, 100))

	world.Update(0)

	// Should not crash
	aiSystem.Update(world.GetEntities(), 0.6)
}

// TestAISystemDeadTarget tests behavior when target dies.
func TestAISystemDeadTarget(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create AI entity
	ai := world.CreateEntity()
	aiComp := NewAIComponent(100, 100)
	aiComp.State = AIStateChase
	ai.AddComponent(aiComp)
	ai.AddComponent(&PositionComponent{X: 100, Y: 100})
	ai.AddComponent(&VelocityComponent{})
	ai.AddComponent(&TeamComponent{TeamID: 1})

	// Create dead enemy
	enemy := world.CreateEntity()
	enemy.AddComponent(&PositionComponent{X: 150, Y: 100})
	enemy.AddComponent(&TeamComponent{TeamID: 2})
	enemy.AddComponent(&HealthComponent{Current: 0, Max: 100}) // Dead

	aiComp.Target = enemy

	world.Update(0)

	// Update AI - should lose target and go idle
	aiSystem.Update(world.GetEntities(), 0.6)

	if aiComp.State != AIStateIdle {
		t.Errorf("state = %v, want %v when target is dead", aiComp.State, AIStateIdle)
	}
	if aiComp.HasTarget() {
		t.Error("should not have target when target is dead")
	}
}

// TestAISystemAlertPack tests that damaging a monster alerts nearby
// same-type allies to chase the attacker.
func TestAISystemAlertPack(t *testing.T) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	attacker := world.CreateEntity()
	attacker.AddComponent(&PositionComponent{X: 0, Y: 0})

	victim := world.CreateEntity()
	victim.AddComponent(&PositionComponent{X: 10, Y: 10})
	victim.AddComponent(&MonsterComponent{MonsterType: "goblin", Level: 1, XPReward: 50})
	victim.AddComponent(NewAIComponent(10, 10))

	ally := world.CreateEntity()
	ally.AddComponent(&PositionComponent{X: 50, Y: 50}) // within 480px
	ally.AddComponent(&MonsterComponent{MonsterType: "goblin", Level: 1, XPReward: 50})
	allyAI := NewAIComponent(50, 50)
	ally.AddComponent(allyAI)

	farAlly := world.CreateEntity()
	farAlly.AddComponent(&PositionComponent{X: 10000, Y: 10000}) // far outside radius
	farAlly.AddComponent(&MonsterComponent{MonsterType: "goblin", Level: 1, XPReward: 50})
	farAllyAI := NewAIComponent(10000, 10000)
	farAlly.AddComponent(farAllyAI)

	otherType := world.CreateEntity()
	otherType.AddComponent(&PositionComponent{X: 20, Y: 20})
	otherType.AddComponent(&MonsterComponent{MonsterType: "skeleton", Level: 1, XPReward: 50})
	otherTypeAI := NewAIComponent(20, 20)
	otherType.AddComponent(otherTypeAI)

	world.Update(0)

	aiSystem.AlertPack(attacker, victim)

	if allyAI.State != AIStateChase {
		t.Errorf("nearby same-type ally state = %v, want %v", allyAI.State, AIStateChase)
	}
	if allyAI.Target != attacker {
		t.Error("nearby same-type ally should target the attacker")
	}
	if farAllyAI.State == AIStateChase {
		t.Error("far-away ally should not be alerted")
	}
	if otherTypeAI.State == AIStateChase {
		t.Error("different monster type should not be alerted")
	}
}

// BenchmarkAISystemUpdate benchmarks AI system updates.
func BenchmarkAISystemUpdate(b *testing.B) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create 50 AI entities
	for i := 0; i < 50; i++ {
		ai := world.CreateEntity()
		ai.AddComponent(NewAIComponent(float64(i*10), float64(i*10)))
		ai.AddComponent(&PositionComponent{X: float64(i * 10), Y: float64(i * 10)})
		ai.AddComponent(&VelocityComponent{})
		ai.AddComponent(&TeamComponent{TeamID: 1})
		ai.AddComponent(&HealthComponent{Current: 100, Max: 100})
	}

	world.Update(0)
	entities := world.GetEntities()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		aiSystem.Update(entities, 0.016) // ~60 FPS
	}
}

// BenchmarkAISystemUpdateMany benchmarks AI with many entities.
func BenchmarkAISystemUpdateMany(b *testing.B) {
	world := NewWorld()
	aiSystem := NewAISystem(world)

	// Create 200 AI entities
	for i := 0; i < 200; i++ {
		ai := world.CreateEntity()
		ai.AddComponent(NewAIComponent(float64(i*10), float64(i*10)))
		ai.AddComponent(&PositionComponent{X: float64(i * 10), Y: float64(i * 10)})
		ai.AddComponent(&VelocityComponent{})
		ai.AddComponent(&TeamComponent{TeamID: 1})
		ai.AddComponent(&HealthComponent{Current: 100, Max: 100})
	}

	world.Update(0)
	entities := world.GetEntities()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		aiSystem.Update(entities, 0.016) // ~60 FPS
	}
}
