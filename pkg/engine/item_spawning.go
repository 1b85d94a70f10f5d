// Package engine provides loot rolling and world-item spawning. This file
// implements RollLoot, which rolls a monster's loot table on death and
// spawns the resulting drops as pickable world entities.
package engine

import (
	"math/rand"

	"github.com/ashfall-game/server/pkg/combat"
)

// SpawnWorldItem creates a ground item entity at the given position that
// players can pick up. Gains Position, Item, Sprite, and a small Collider,
// matching the dropped-item shape used by loot rolls.
func SpawnWorldItem(world *World, itemID string, quantity int, x, y float64) *Entity {
	e := world.CreateEntity()
	e.AddComponent(&PositionComponent{X: x, Y: y})
	e.AddComponent(&ItemComponent{ItemID: itemID, Quantity: quantity})
	e.AddComponent(&SpriteComponent{SpriteID: itemSpriteID(itemID)})
	e.AddComponent(&ColliderComponent{Radius: 16.0, IsTrigger: true, Layer: 3})
	return e
}

// RollLoot rolls the loot table for monsterType and spawns each resulting
// drop as a world item entity at (x, y). Each drop entry is an independent
// Bernoulli trial; guaranteed currency, if any, is sampled uniformly from
// its declared range and spawned as a "copper" item. Returns the spawned
// entities.
func RollLoot(world *World, rng *rand.Rand, monsterType string, x, y float64) []*Entity {
	table, ok := combat.GetLootTable(monsterType)
	if !ok {
		return nil
	}

	var spawned []*Entity
	for _, drop := range table.Drops {
		if rng.Float64() < drop.Chance {
			spawned = append(spawned, SpawnWorldItem(world, drop.ItemID, drop.Quantity, x, y))
		}
	}

	if table.GuaranteedCopperMax > 0 {
		amount := table.GuaranteedCopperMin
		if table.GuaranteedCopperMax > table.GuaranteedCopperMin {
			amount += rng.Intn(table.GuaranteedCopperMax - table.GuaranteedCopperMin + 1)
		}
		if amount > 0 {
			spawned = append(spawned, SpawnWorldItem(world, "copper", amount, x, y))
		}
	}

	return spawned
}

// itemSpriteID maps an item id to its client sprite id: coin ids get a
// "coin_" prefix and every other id an "item_" prefix.
func itemSpriteID(itemID string) string {
	switch itemID {
	case "copper", "silver", "gold":
		return "coin_" + itemID
	default:
		return "item_" + itemID
	}
}

// ItemPickupSystem handles automatic item pickup when a player moves close
// to a dropped world item.
type ItemPickupSystem struct {
	world        *World
	pickupRadius float64
}

// NewItemPickupSystem creates a new item pickup system with a one-tile
// pickup radius.
func NewItemPickupSystem(world *World) *ItemPickupSystem {
	return &ItemPickupSystem{world: world, pickupRadius: 32.0}
}

// Update scans for player entities within pickup range of world items and
// transfers them into inventory when there is room.
func (s *ItemPickupSystem) Update(entities []*Entity, deltaTime float64) {
	var players []*Entity
	var items []*Entity
	for _, e := range entities {
		if e.HasComponent("player") {
			players = append(players, e)
		}
		if e.HasComponent("item") {
			items = append(items, e)
		}
	}

	for _, player := range players {
		inv := player.GetInventory()
		if inv == nil || player.GetPosition() == nil {
			continue
		}

		for _, itemEntity := range items {
			if itemEntity.GetPosition() == nil {
				continue
			}
			if GetDistance(player, itemEntity) > s.pickupRadius {
				continue
			}

			comp, _ := itemEntity.GetComponent("item")
			worldItem := comp.(*ItemComponent)
			if !inv.CanAddItem() {
				continue
			}
			inv.AddItem(&Item{ID: worldItem.ItemID, Name: worldItem.ItemID, Kind: ItemKindMisc, Value: 0})
			s.world.RemoveEntity(itemEntity.ID)
		}
	}
}
