/*
Package game
File: mechanics.go
Description:
    Pure catalog queries. Nothing here touches simulation state; these are
    the helpers the UI uses to label buttons, price purchases, and show
    "3/5 industrial slots used" without reaching into the simulation.
*/

package game

// Facility returns the template for a facility name.
func (c *Catalog) Facility(name string) (*FacilityDef, bool) {
	if c == nil {
		return nil, false
	}
	def, ok := c.facilities[name]
	return def, ok
}

// Ship returns the template for a ship name.
func (c *Catalog) Ship(name string) (*ShipDef, bool) {
	if c == nil {
		return nil, false
	}
	def, ok := c.ships[name]
	return def, ok
}

// FacilityNames lists facility templates in catalog order.
func (c *Catalog) FacilityNames() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.facilityOrder...)
}

// ShipNames lists ship templates in catalog order.
func (c *Catalog) ShipNames() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.shipOrder...)
}

// DisplayName returns the display name for a facility name, "" if unknown.
func (c *Catalog) DisplayName(name string) string {
	if def, ok := c.Facility(name); ok {
		return def.DisplayName
	}
	return ""
}

// NameFromDisplay is the reverse of DisplayName.
func (c *Catalog) NameFromDisplay(display string) string {
	if c == nil {
		return ""
	}
	for _, name := range c.facilityOrder {
		if c.facilities[name].DisplayName == display {
			return name
		}
	}
	return ""
}

// SupportsOfficer reports whether the facility can take a directing officer.
func (c *Catalog) SupportsOfficer(name string) bool {
	def, ok := c.Facility(name)
	return ok && def.Officer
}

// IsUnique reports whether the facility is required and only one may exist.
// Unique facilities cannot be bought or sold.
func (c *Catalog) IsUnique(name string) bool {
	def, ok := c.Facility(name)
	return ok && def.Unique
}

// IsSingleton reports whether only one copy may be held at a time.
func (c *Catalog) IsSingleton(name string) bool {
	def, ok := c.Facility(name)
	return ok && def.Singleton
}

// BuildTime is how many cycles construction takes.
func (c *Catalog) BuildTime(name string) uint32 {
	if def, ok := c.Facility(name); ok {
		return def.BuildTime
	}
	return 0
}

// WorkTime is how many cycles one work order takes.
func (c *Catalog) WorkTime(name string) uint32 {
	if def, ok := c.Facility(name); ok {
		return def.WorkTime
	}
	return 0
}

// RepairTime is how many cycles a repair takes, falling back to BuildTime.
func (c *Catalog) RepairTime(name string) uint32 {
	def, ok := c.Facility(name)
	if !ok {
		return 0
	}
	if def.RepairTime > 0 {
		return def.RepairTime
	}
	return def.BuildTime
}

// ResourceCost returns a copy of the "cost", "upkeep" or "provides" list.
// Returns nil for an unknown facility, an unknown kind, or an empty list.
func (c *Catalog) ResourceCost(name, kind string) *ResourceList {
	def, ok := c.Facility(name)
	if !ok {
		return nil
	}
	var src []ResourceEntry
	switch kind {
	case "cost":
		src = def.Cost
	case "upkeep":
		src = def.Upkeep
	case "provides":
		src = def.Provides
	default:
		return nil
	}
	if len(src) == 0 {
		return nil
	}
	return NewResourceList(src...)
}

// PossibleFromTypes lists facility names whose slot type is in types.
// Unique facilities are left out since they cannot be purchased.
func (c *Catalog) PossibleFromTypes(types []string) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, name := range c.facilityOrder {
		def := c.facilities[name]
		if def.Unique {
			continue
		}
		for _, t := range types {
			if def.Type == t {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// SlotCountByType is how many facilities of slotType a ship design allows.
func (c *Catalog) SlotCountByType(shipName, slotType string) int {
	def, ok := c.Ship(shipName)
	if !ok {
		return 0
	}
	for _, s := range def.Slots {
		if s.Type == slotType {
			return s.Count
		}
	}
	return 0
}

// SlotNameCount is how many facility types a ship design permits.
func (c *Catalog) SlotNameCount(shipName string) int {
	def, ok := c.Ship(shipName)
	if !ok {
		return 0
	}
	return len(def.Slots)
}

// SlotNameByIndex returns the nth slot type of a ship design.
func (c *Catalog) SlotNameByIndex(shipName string, index int) (string, bool) {
	def, ok := c.Ship(shipName)
	if !ok || index < 0 || index >= len(def.Slots) {
		return "", false
	}
	return def.Slots[index].Type, true
}
