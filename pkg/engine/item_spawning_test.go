package engine

import (
	"math/rand"
	"testing"
)

func TestSpawnWorldItem(t *testing.T) {
	world := NewWorld()

	e := SpawnWorldItem(world, "rat_meat", 2, 100, 200)
	world.Update(0)

	pos := e.GetPosition()
	if pos == nil || pos.X != 100 || pos.Y != 200 {
		t.Fatalf("position = %+v, want (100, 200)", pos)
	}

	if !e.HasComponent("item") {
		t.Error("spawned item should have an item component")
	}
	if !e.HasComponent("sprite") {
		t.Error("spawned item should have a sprite component")
	}
	if !e.HasComponent("collider") {
		t.Error("spawned item should have a collider component")
	}

	comp, _ := e.GetComponent("item")
	itemComp := comp.(*ItemComponent)
	if itemComp.ItemID != "rat_meat" || itemComp.Quantity != 2 {
		t.Errorf("item component = %+v, want {rat_meat 2}", itemComp)
	}
}

func TestRollLootUnknownMonsterType(t *testing.T) {
	world := NewWorld()
	rng := rand.New(rand.NewSource(1))

	items := RollLoot(world, rng, "nonexistent", 0, 0)
	if items != nil {
		t.Error("unknown monster type should yield no loot")
	}
}

func TestRollLootGuaranteedDropsAlwaysSpawn(t *testing.T) {
	world := NewWorld()
	rng := rand.New(rand.NewSource(1))

	// Lich's loot table has three drops at chance 1.0 plus guaranteed copper.
	items := RollLoot(world, rng, "lich", 50, 50)
	if len(items) < 4 {
		t.Fatalf("expected at least 4 guaranteed drops, got %d", len(items))
	}

	foundCopper := false
	for _, e := range items {
		comp, ok := e.GetComponent("item")
		if !ok {
			t.Fatal("loot entity missing item component")
		}
		itemComp := comp.(*ItemComponent)
		if itemComp.ItemID == "copper" {
			foundCopper = true
			if itemComp.Quantity < 200 || itemComp.Quantity > 800 {
				t.Errorf("copper quantity = %d, want within [200, 800]", itemComp.Quantity)
			}
		}
	}
	if !foundCopper {
		t.Error("lich should always drop guaranteed copper")
	}
}

// maxSource is a rand.Source64 whose Int63 returns the largest value for
// which Float64() stays below 1.0 (Float64 draws again whenever its result
// rounds to 1.0), driving Float64() as close to 1.0 as the generator allows
// so that roll < chance is false for any chance below 1.0.
type maxSource struct{}

func (maxSource) Seed(int64) {}
func (maxSource) Int63() int64 {
	return int64(^uint64(0)>>1) - 1023
}
func (maxSource) Uint64() uint64 {
	return ^uint64(0)
}

func TestRollLootZeroChanceNeverDrops(t *testing.T) {
	world := NewWorld()

	// giant_rat has no guaranteed currency, so with an rng pinned at its
	// maximum value (never below any chance threshold), nothing should drop.
	items := RollLoot(world, rand.New(maxSource{}), "giant_rat", 0, 0)
	if len(items) != 0 {
		t.Errorf("expected no drops when every roll is above its chance threshold, got %d", len(items))
	}
}

func TestItemPickupSystemPicksUpNearbyItem(t *testing.T) {
	world := NewWorld()
	system := NewItemPickupSystem(world)

	player := world.CreateEntity()
	player.AddComponent(&PositionComponent{X: 0, Y: 0})
	player.AddComponent(&PlayerComponent{DisplayName: "hero"})
	player.AddComponent(NewInventoryComponent(10))

	itemEntity := world.CreateEntity()
	itemEntity.AddComponent(&PositionComponent{X: 10, Y: 0})
	itemEntity.AddComponent(&ItemComponent{ItemID: "rat_meat", Quantity: 1})

	world.Update(0)

	system.Update(world.GetEntities(), 0.016)
	world.Update(0)

	if _, ok := world.GetEntity(itemEntity.ID); ok {
		t.Error("picked-up item should be removed from the world")
	}

	inv := player.GetInventory()
	if len(inv.Items) != 1 || inv.Items[0].ID != "rat_meat" {
		t.Errorf("expected item in player inventory, got %+v", inv.Items)
	}
}

func TestItemPickupSystemIgnoresFarItem(t *testing.T) {
	world := NewWorld()
	system := NewItemPickupSystem(world)

	player := world.CreateEntity()
	player.AddComponent(&PositionComponent{X: 0, Y: 0})
	player.AddComponent(&PlayerComponent{DisplayName: "hero"})
	player.AddComponent(NewInventoryComponent(10))

	itemEntity := world.CreateEntity()
	itemEntity.AddComponent(&PositionComponent{X: 1000, Y: 0})
	itemEntity.AddComponent(&ItemComponent{ItemID: "rat_meat", Quantity: 1})

	world.Update(0)
	system.Update(world.GetEntities(), 0.016)
	world.Update(0)

	if _, ok := world.GetEntity(itemEntity.ID); !ok {
		t.Error("far-away item should not be picked up")
	}
	if len(player.GetInventory().Items) != 0 {
		t.Error("player inventory should remain empty")
	}
}

func TestItemPickupSystemFullInventoryLeavesItemOnGround(t *testing.T) {
	world := NewWorld()
	system := NewItemPickupSystem(world)

	player := world.CreateEntity()
	player.AddComponent(&PositionComponent{X: 0, Y: 0})
	player.AddComponent(&PlayerComponent{DisplayName: "hero"})
	inv := NewInventoryComponent(1)
	inv.AddItem(&Item{ID: "filler", Name: "filler"})
	player.AddComponent(inv)

	itemEntity := world.CreateEntity()
	itemEntity.AddComponent(&PositionComponent{X: 5, Y: 0})
	itemEntity.AddComponent(&ItemComponent{ItemID: "rat_meat", Quantity: 1})

	world.Update(0)
	system.Update(world.GetEntities(), 0.016)
	world.Update(0)

	if _, ok := world.GetEntity(itemEntity.ID); !ok {
		t.Error("item should remain on the ground when inventory is full")
	}
}
