// Package engine provides the inventory management system.
// This file implements InventorySystem which handles item storage,
// equip/unequip, and equipment-derived stat bonuses for entities.
package engine

import (
	"fmt"

	"github.com/ashfall-game/server/pkg/combat"
)

// InventorySystem manages inventory and equipment operations.
type InventorySystem struct {
	world *World
}

// NewInventorySystem creates a new inventory system.
func NewInventorySystem(world *World) *InventorySystem {
	return &InventorySystem{world: world}
}

func (s *InventorySystem) getInventory(entityID uint64) (*Entity, *InventoryComponent, error) {
	entity, ok := s.world.GetEntity(entityID)
	if !ok {
		return nil, nil, fmt.Errorf("entity %d not found", entityID)
	}
	comp, ok := entity.GetComponent("inventory")
	if !ok {
		return nil, nil, fmt.Errorf("entity %d does not have inventory component", entityID)
	}
	invComp, ok := comp.(*InventoryComponent)
	if !ok {
		return nil, nil, fmt.Errorf("entity %d inventory component has wrong type", entityID)
	}
	return entity, invComp, nil
}

// AddItemToInventory adds an item to an entity's inventory.
func (s *InventorySystem) AddItemToInventory(entityID uint64, itm *Item) (bool, error) {
	_, invComp, err := s.getInventory(entityID)
	if err != nil {
		return false, err
	}
	return invComp.AddItem(itm), nil
}

// RemoveItemFromInventory removes an item from inventory by index.
func (s *InventorySystem) RemoveItemFromInventory(entityID uint64, index int) (*Item, error) {
	_, invComp, err := s.getInventory(entityID)
	if err != nil {
		return nil, err
	}
	itm := invComp.RemoveItem(index)
	if itm == nil {
		return nil, fmt.Errorf("invalid item index %d", index)
	}
	return itm, nil
}

// EquipItem equips an item from inventory into the slot matching its kind.
// The previously equipped item, if any, returns to the inventory.
func (s *InventorySystem) EquipItem(entityID uint64, inventoryIndex int) error {
	entity, invComp, err := s.getInventory(entityID)
	if err != nil {
		return err
	}

	comp2, ok := entity.GetComponent("equipment")
	if !ok {
		return fmt.Errorf("entity %d does not have equipment component", entityID)
	}
	equipComp, ok := comp2.(*EquipmentComponent)
	if !ok {
		return fmt.Errorf("entity %d equipment component has wrong type", entityID)
	}

	if inventoryIndex < 0 || inventoryIndex >= len(invComp.Items) {
		return fmt.Errorf("invalid inventory index %d", inventoryIndex)
	}
	itm := invComp.Items[inventoryIndex]

	var previous *Item
	switch itm.Kind {
	case ItemKindWeapon:
		previous = equipComp.MainHand
		equipComp.MainHand = itm
	case ItemKindArmor:
		previous = equipComp.Armor
		equipComp.Armor = itm
	case ItemKindAccessory:
		if equipComp.Accessories[0] == nil {
			equipComp.Accessories[0] = itm
		} else {
			previous = equipComp.Accessories[1]
			equipComp.Accessories[1] = itm
		}
	default:
		return fmt.Errorf("item %s cannot be equipped", itm.Name)
	}

	invComp.RemoveItem(inventoryIndex)

	if previous != nil && !invComp.AddItem(previous) {
		return fmt.Errorf("cannot equip: inventory full for swapped item")
	}

	s.applyEquipmentStats(entityID)
	return nil
}

// applyEquipmentStats recomputes an entity's ArmorClassComponent as the
// entity's base class armor class plus any bonus from equipped armor and
// helmet.
func (s *InventorySystem) applyEquipmentStats(entityID uint64) {
	entity, ok := s.world.GetEntity(entityID)
	if !ok {
		return
	}

	equipComp := entity.GetEquipment()
	if equipComp == nil {
		return
	}

	acComp, ok := entity.GetComponent("armor_class")
	if !ok {
		return
	}
	ac, ok := acComp.(*ArmorClassComponent)
	if !ok {
		return
	}

	base := 10
	if charComp := entity.GetCharacter(); charComp != nil {
		base = combat.ClassArmorClass(charComp.Class)
	}
	ac.Value = base + equipComp.TotalArmorClassBonus()
}

// GetEquipment retrieves the EquipmentComponent if present.
func (e *Entity) GetEquipment() *EquipmentComponent {
	if comp, ok := e.Components["equipment"]; ok {
		return comp.(*EquipmentComponent)
	}
	return nil
}

// DropItem removes an item from inventory. The caller is responsible for
// spawning a corresponding world item entity (see SpawnItemInWorld).
func (s *InventorySystem) DropItem(entityID uint64, inventoryIndex int) (*Item, error) {
	_, invComp, err := s.getInventory(entityID)
	if err != nil {
		return nil, err
	}
	itm := invComp.RemoveItem(inventoryIndex)
	if itm == nil {
		return nil, fmt.Errorf("invalid inventory index %d", inventoryIndex)
	}
	return itm, nil
}

// TransferItem moves an item from one entity's inventory to another's.
func (s *InventorySystem) TransferItem(fromEntityID, toEntityID uint64, inventoryIndex int) error {
	_, fromInv, err := s.getInventory(fromEntityID)
	if err != nil {
		return err
	}
	_, toInv, err := s.getInventory(toEntityID)
	if err != nil {
		return err
	}

	if inventoryIndex < 0 || inventoryIndex >= len(fromInv.Items) {
		return fmt.Errorf("invalid inventory index %d", inventoryIndex)
	}
	if !toInv.CanAddItem() {
		return fmt.Errorf("destination inventory cannot accept item")
	}

	itm := fromInv.RemoveItem(inventoryIndex)
	toInv.AddItem(itm)
	return nil
}

// GetInventoryValue returns the total value of all items plus gold in an
// entity's inventory.
func (s *InventorySystem) GetInventoryValue(entityID uint64) (int, error) {
	_, invComp, err := s.getInventory(entityID)
	if err != nil {
		return 0, err
	}
	total := invComp.Gold
	for _, itm := range invComp.Items {
		total += itm.Value
	}
	return total, nil
}

// Update implements the System interface. InventorySystem is event-driven
// (AddItem, EquipItem, etc.), not frame-driven, so this is a no-op.
func (s *InventorySystem) Update(entities []*Entity, deltaTime float64) {}
