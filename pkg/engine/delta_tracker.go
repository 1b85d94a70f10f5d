package engine

import "math"

// VisionRangePixels is the max distance, in world pixels, at which an
// entity is included in a player's delta update (20 tiles * 32px/tile).
const VisionRangePixels = 640.0

// positionEpsilon is the minimum positional change that counts as movement
// for delta-tracking purposes; smaller drift is treated as unchanged.
const positionEpsilon = 0.01

// EntityChanges is the set of entity ids that changed since the previous
// tick: newly spawned, meaningfully moved/updated, or despawned.
type EntityChanges struct {
	Spawned   []uint64
	Updated   []uint64
	Despawned []uint64
}

// DeltaTracker watches entity positions tick over tick and reports which
// entities changed, so the network layer can send clients a small delta
// instead of the full world state every tick.
type DeltaTracker struct {
	lastPositions map[uint64]positionSnapshot
	spawned       map[uint64]struct{}
	despawned     map[uint64]struct{}
}

type positionSnapshot struct {
	X, Y float64
}

// NewDeltaTracker creates an empty delta tracker.
func NewDeltaTracker() *DeltaTracker {
	return &DeltaTracker{
		lastPositions: make(map[uint64]positionSnapshot),
		spawned:       make(map[uint64]struct{}),
		despawned:     make(map[uint64]struct{}),
	}
}

// MarkSpawned records that entityID was created this tick.
func (d *DeltaTracker) MarkSpawned(entityID uint64) {
	d.spawned[entityID] = struct{}{}
}

// MarkDespawned records that entityID was removed this tick.
func (d *DeltaTracker) MarkDespawned(entityID uint64) {
	d.despawned[entityID] = struct{}{}
	delete(d.lastPositions, entityID)
}

// Update compares current entity positions against the previous tick's
// snapshot and returns everything that changed. Spawned/despawned sets are
// drained; callers should treat the returned EntityChanges as tick-scoped.
func (d *DeltaTracker) Update(world *World) EntityChanges {
	current := make(map[uint64]positionSnapshot)
	var updated []uint64

	for _, entity := range world.GetEntitiesWith("position") {
		pos := entity.GetPosition()
		if pos == nil {
			continue
		}
		snap := positionSnapshot{X: pos.X, Y: pos.Y}
		current[entity.ID] = snap

		if last, ok := d.lastPositions[entity.ID]; ok {
			if math.Abs(snap.X-last.X) > positionEpsilon || math.Abs(snap.Y-last.Y) > positionEpsilon {
				updated = append(updated, entity.ID)
			}
		}
	}

	d.lastPositions = current

	changes := EntityChanges{
		Spawned:   drainIDs(d.spawned),
		Updated:   updated,
		Despawned: drainIDs(d.despawned),
	}

	d.spawned = make(map[uint64]struct{})
	d.despawned = make(map[uint64]struct{})

	return changes
}

func drainIDs(set map[uint64]struct{}) []uint64 {
	if len(set) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// FilterChangesByVision narrows changes to only the spawned/updated entity
// ids within VisionRangePixels of observerPos; despawn notifications are
// never filtered, since a client that never saw an entity simply ignores
// its despawn.
func FilterChangesByVision(world *World, changes EntityChanges, observerPos PositionComponent) EntityChanges {
	inRange := func(entityID uint64) bool {
		entity, ok := world.GetEntity(entityID)
		if !ok {
			return false
		}
		pos := entity.GetPosition()
		if pos == nil {
			return false
		}
		dx := pos.X - observerPos.X
		dy := pos.Y - observerPos.Y
		return math.Sqrt(dx*dx+dy*dy) <= VisionRangePixels
	}

	filterIDs := func(ids []uint64) []uint64 {
		var out []uint64
		for _, id := range ids {
			if inRange(id) {
				out = append(out, id)
			}
		}
		return out
	}

	return EntityChanges{
		Spawned:   filterIDs(changes.Spawned),
		Updated:   filterIDs(changes.Updated),
		Despawned: changes.Despawned,
	}
}
