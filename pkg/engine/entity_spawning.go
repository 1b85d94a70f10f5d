// Package engine provides the monster spawn point manager. This file
// implements SpawnPointManager, which tracks spawn records and recreates
// monster entities once their respawn cooldown has elapsed.
package engine

import (
	"fmt"

	"github.com/ashfall-game/server/pkg/combat"
	"github.com/sirupsen/logrus"
)

const (
	regularRespawnSeconds int64 = 300
	bossRespawnSeconds    int64 = 86400
)

// SpawnRecord is the bookkeeping tuple governing when and where a monster
// re-enters the world.
type SpawnRecord struct {
	ID                 uint64
	MonsterType        string
	OriginX, OriginY   float64
	IsBoss             bool
	CooldownSeconds    int64
	LastSpawnTimeMS    int64
	HasSpawnedBefore   bool
	CurrentEntityID    uint64
	HasCurrentEntity   bool
}

// SpawnPointManager owns the ordered list of spawn records and recreates
// monsters at their origin once the cooldown for that record has elapsed.
type SpawnPointManager struct {
	world        *World
	spawnPoints  []*SpawnRecord
	nextRecordID uint64
	logger       *logrus.Entry
}

// NewSpawnPointManager creates an empty spawn point manager bound to world.
func NewSpawnPointManager(world *World) *SpawnPointManager {
	return NewSpawnPointManagerWithLogger(world, nil)
}

// NewSpawnPointManagerWithLogger creates a spawn point manager that logs
// spawn/respawn events through the given logger.
func NewSpawnPointManagerWithLogger(world *World, logger *logrus.Logger) *SpawnPointManager {
	var entry *logrus.Entry
	if logger != nil {
		entry = logger.WithFields(logrus.Fields{"system": "spawn"})
	}
	return &SpawnPointManager{world: world, logger: entry}
}

// AddSpawnPoint registers a new spawn record and returns its id. Regular
// monsters respawn 300s after death; bosses respawn after 86400s (24h).
func (m *SpawnPointManager) AddSpawnPoint(monsterType string, x, y float64, isBoss bool) uint64 {
	id := m.nextRecordID
	m.nextRecordID++

	cooldown := regularRespawnSeconds
	if isBoss {
		cooldown = bossRespawnSeconds
	}

	m.spawnPoints = append(m.spawnPoints, &SpawnRecord{
		ID:              id,
		MonsterType:     monsterType,
		OriginX:         x,
		OriginY:         y,
		IsBoss:          isBoss,
		CooldownSeconds: cooldown,
	})
	return id
}

// Update walks every spawn record: if its current monster has died (or was
// never spawned), and the cooldown has elapsed, a fresh monster is created
// at the record's origin. nowMS is the current tick timestamp in
// milliseconds.
func (m *SpawnPointManager) Update(nowMS int64) {
	for _, record := range m.spawnPoints {
		if record.HasCurrentEntity {
			diedAtMS := nowMS
			if entity, ok := m.world.GetEntity(record.CurrentEntityID); ok {
				if !isMonsterDead(entity) {
					continue
				}
				if dead, ok := entity.GetComponent("dead"); ok {
					diedAtMS = int64(dead.(*DeadComponent).TimeOfDeath * 1000)
				}
			}
			record.HasCurrentEntity = false
			// The respawn cooldown counts from the monster's death.
			record.LastSpawnTimeMS = diedAtMS
		}

		elapsedSeconds := (nowMS - record.LastSpawnTimeMS) / 1000
		shouldSpawn := !record.HasSpawnedBefore || elapsedSeconds >= record.CooldownSeconds
		if !shouldSpawn {
			continue
		}

		entity, err := SpawnMonster(m.world, record.MonsterType, record.OriginX, record.OriginY, record.IsBoss)
		if err != nil {
			if m.logger != nil {
				m.logger.WithError(err).WithField("monster_type", record.MonsterType).Warn("failed to spawn monster")
			}
			continue
		}

		record.CurrentEntityID = entity.ID
		record.HasCurrentEntity = true
		record.HasSpawnedBefore = true
		record.LastSpawnTimeMS = nowMS

		if m.logger != nil {
			m.logger.WithFields(logrus.Fields{
				"monster_type": record.MonsterType,
				"entity_id":    entity.ID,
			}).Debug("spawned monster")
		}
	}
}

// SpawnPoints returns the manager's spawn records, for inspection/tests.
func (m *SpawnPointManager) SpawnPoints() []*SpawnRecord {
	return m.spawnPoints
}

// Clear removes all spawn points, for map resets.
func (m *SpawnPointManager) Clear() {
	m.spawnPoints = nil
}

func isMonsterDead(entity *Entity) bool {
	if entity.HasComponent("dead") {
		return true
	}
	if health := entity.GetHealth(); health != nil {
		return health.IsDead()
	}
	return false
}

// SpawnMonster creates a monster entity from its template at the given
// position and adds it to world. Returns an error if monsterType has no
// registered template.
func SpawnMonster(world *World, monsterType string, x, y float64, isBoss bool) (*Entity, error) {
	tmpl, ok := combat.GetMonsterTemplate(monsterType)
	if !ok {
		return nil, fmt.Errorf("unknown monster type %q", monsterType)
	}

	e := world.CreateEntity()

	e.AddComponent(&PositionComponent{X: x, Y: y})
	e.AddComponent(&VelocityComponent{})
	e.AddComponent(&HealthComponent{Current: float64(tmpl.HP), Max: float64(tmpl.HP)})
	e.AddComponent(NewStatsComponent(tmpl.Stats))
	e.AddComponent(&MonsterComponent{
		MonsterType: tmpl.MonsterType,
		Level:       tmpl.Level,
		XPReward:    tmpl.XPReward,
	})
	e.AddComponent(&ArmorClassComponent{Value: tmpl.ArmorClass})
	e.AddComponent(&MovementSpeedComponent{PixelsPerSecond: tmpl.SpeedPixelsPerSecond})
	e.AddComponent(&AttackSpeedComponent{CooldownMS: tmpl.AttackCooldownMS})
	e.AddComponent(&VisionRangeComponent{Tiles: tmpl.DetectionRangeTiles})
	e.AddComponent(&SpawnPointComponent{OriginX: x, OriginY: y, MaxRoamDistance: 10.0 * 32.0})
	e.AddComponent(&TeamComponent{TeamID: 2})
	e.AddComponent(&CooldownsComponent{})

	aiComp := NewAIComponent(x, y)
	aiComp.DetectionRange = tmpl.DetectionRangeTiles * 32.0
	e.AddComponent(aiComp)

	e.AddComponent(&SpriteComponent{SpriteID: tmpl.MonsterType})
	e.AddComponent(&ColliderComponent{Radius: 16.0, Solid: true, Layer: 1})

	if tmpl.Regeneration {
		e.AddComponent(&RegenerationComponent{HPPerSecond: maxInt(1, tmpl.HP/20)})
	}
	if isBoss {
		e.AddComponent(&BossComponent{RespawnCooldownSeconds: bossRespawnSeconds})
	}

	return e, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
