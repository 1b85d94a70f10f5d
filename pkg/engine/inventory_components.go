// Package engine provides inventory and equipment components.
// This file defines components for item storage, equipment slots, and
// inventory management used by the inventory system.
package engine

import "github.com/ashfall-game/server/pkg/combat"

// ItemKind identifies the broad category of an item.
type ItemKind int

const (
	ItemKindWeapon ItemKind = iota
	ItemKindArmor
	ItemKindAccessory
	ItemKindCurrency
	ItemKindMisc
)

// Item is a single piece of equipment, currency, or loot.
type Item struct {
	ID   string
	Name string
	Kind ItemKind

	// Weapon carries the weapon stat block when Kind == ItemKindWeapon.
	Weapon *combat.WeaponStats

	// ArmorClassBonus is added to the wearer's armor class when equipped,
	// used when Kind == ItemKindArmor.
	ArmorClassBonus int

	// EnchantmentBonus is a flat damage or defense bonus from enchantment.
	EnchantmentBonus int

	// Value is the item's worth in copper, used for currency stacks and
	// vendor-agnostic loot value.
	Value int
}

// InventoryComponent manages an entity's item collection.
type InventoryComponent struct {
	Items    []*Item
	Capacity int
	Gold     int
}

// Type returns the component type identifier.
func (i *InventoryComponent) Type() string {
	return "inventory"
}

// NewInventoryComponent creates a new inventory with the given capacity.
func NewInventoryComponent(capacity int) *InventoryComponent {
	return &InventoryComponent{
		Items:    make([]*Item, 0, capacity),
		Capacity: capacity,
	}
}

// CanAddItem checks if an item can be added to inventory.
func (i *InventoryComponent) CanAddItem() bool {
	return len(i.Items) < i.Capacity
}

// AddItem adds an item to the inventory if possible.
func (i *InventoryComponent) AddItem(itm *Item) bool {
	if !i.CanAddItem() {
		return false
	}
	i.Items = append(i.Items, itm)
	return true
}

// RemoveItem removes an item from inventory by index.
func (i *InventoryComponent) RemoveItem(index int) *Item {
	if index < 0 || index >= len(i.Items) {
		return nil
	}
	itm := i.Items[index]
	i.Items = append(i.Items[:index], i.Items[index+1:]...)
	return itm
}

// IsFull returns true if inventory cannot accept more items.
func (i *InventoryComponent) IsFull() bool {
	return len(i.Items) >= i.Capacity
}

// EquipmentComponent manages an entity's equipped items.
type EquipmentComponent struct {
	MainHand     *Item
	OffHand      *Item
	Armor        *Item
	Helmet       *Item
	Accessories  [2]*Item
}

// Type returns the component type identifier.
func (e *EquipmentComponent) Type() string {
	return "equipment"
}

// NewEquipmentComponent creates an empty equipment component.
func NewEquipmentComponent() *EquipmentComponent {
	return &EquipmentComponent{}
}

// TotalArmorClassBonus sums the AC bonus granted by equipped armor pieces.
func (e *EquipmentComponent) TotalArmorClassBonus() int {
	total := 0
	if e.Armor != nil {
		total += e.Armor.ArmorClassBonus
	}
	if e.Helmet != nil {
		total += e.Helmet.ArmorClassBonus
	}
	return total
}

// WeaponEnchantment returns the enchantment bonus of the equipped main-hand
// weapon, or 0 if unarmed.
func (e *EquipmentComponent) WeaponEnchantment() int {
	if e.MainHand != nil {
		return e.MainHand.EnchantmentBonus
	}
	return 0
}
