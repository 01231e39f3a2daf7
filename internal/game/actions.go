/*
Package game
File: actions.go
Description:
    Player actions against the World: building and selling facilities,
    moving staff between the pool and the stations, ordering repairs and
    toggling facilities. Every action either applies completely or returns
    an error and leaves the world untouched.

    Staff moved onto a mission come out of the unassigned pool and return
    to it when the mission completes (see AdvanceHour).
*/

package game

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// BuildFacility buys a facility for a ship and starts its construction.
//
// Checks, in order: the template exists, it is not unique, a singleton is not
// already present, the ship has a free slot of its type, and the treasury
// covers its cost. Up to staff workers are taken from the pool for the
// construction mission.
func (w *World) BuildFacility(shipID uint32, name string, position Vector2, staff int) (*Facility, error) {
	s, ok := w.Ship(shipID)
	if !ok {
		return nil, fmt.Errorf("ship %d: %w", shipID, ErrNotFound)
	}
	def, ok := w.Catalog.Facility(name)
	if !ok {
		return nil, fmt.Errorf("facility %q: %w", name, ErrUnknownFacilityType)
	}
	if def.Unique {
		return nil, fmt.Errorf("facility %q: %w", name, ErrNotPurchasable)
	}
	if def.Singleton && s.Facilities.CountByName(name) > 0 {
		return nil, fmt.Errorf("facility %q on ship %d: %w", name, shipID, ErrSingleton)
	}
	if s.SlotUsageByType(def.Type) >= s.SlotCountByType(w.Catalog, def.Type) {
		return nil, fmt.Errorf("%s slot on ship %d: %w", def.Type, shipID, ErrSlotFull)
	}
	if err := w.Resources.Consume(w.Catalog.ResourceCost(name, "cost")); err != nil {
		return nil, fmt.Errorf("buy %q: %w", name, err)
	}

	crew := min(max(staff, 0), w.Staff)
	f, err := s.BuildFacility(w.Catalog, name, position, crew)
	if err != nil {
		w.Resources.Merge(w.Catalog.ResourceCost(name, "cost"))
		return nil, err
	}
	w.Staff -= crew

	w.log.WithFields(logrus.Fields{
		"ship":     shipID,
		"facility": f.ID,
		"name":     name,
	}).Info("Construction started")
	return f, nil
}

// SellFacility removes a facility from a ship. Its staff and any mission
// crew return to the pool, and half of its purchase cost is refunded.
func (w *World) SellFacility(shipID, facilityID uint32) error {
	s, f, err := w.Facility(shipID, facilityID)
	if err != nil {
		return err
	}
	if f.Required {
		return fmt.Errorf("facility %q: %w", f.Name, ErrNotPurchasable)
	}

	returned := f.StaffAssigned
	if f.Mission != nil {
		returned += f.Mission.StaffAssigned
	}
	name := f.Name
	if err := s.RemoveFacility(facilityID); err != nil {
		return err
	}
	w.Staff += returned

	if cost := w.Catalog.ResourceCost(name, "cost"); cost != nil {
		for _, e := range cost.Entries {
			w.Resources.Add(e.Name, e.Amount/2)
		}
	}

	w.log.WithFields(logrus.Fields{
		"ship":     shipID,
		"facility": facilityID,
		"name":     name,
	}).Info("Facility sold")
	return nil
}

// ChangeFacilityStaff moves delta workers from the pool onto a facility
// (delta > 0) or back (delta < 0). It returns the signed part of delta that
// could not be applied: missing pool staff and full positions on the way in,
// an empty facility on the way out.
func (w *World) ChangeFacilityStaff(shipID, facilityID uint32, delta int) (int, error) {
	s, f, err := w.Facility(shipID, facilityID)
	if err != nil {
		return 0, err
	}
	overflow := w.moveStaff(delta, f.ChangeStaff)
	s.Check()
	return overflow, nil
}

// ChangeShipStaff moves workers between the pool and a ship's own crew.
func (w *World) ChangeShipStaff(shipID uint32, delta int) (int, error) {
	s, ok := w.Ship(shipID)
	if !ok {
		return 0, fmt.Errorf("ship %d: %w", shipID, ErrNotFound)
	}
	return w.moveStaff(delta, s.ChangeStaff), nil
}

// moveStaff applies delta through change, keeping the pool balanced.
func (w *World) moveStaff(delta int, change func(int) int) int {
	give := delta
	if give > w.Staff {
		give = w.Staff
	}
	overflow := change(give)
	w.Staff -= give - overflow
	return overflow + (delta - give)
}

// RepairFacility starts a repair mission with up to staff workers.
func (w *World) RepairFacility(shipID, facilityID uint32, staff int) error {
	_, f, err := w.Facility(shipID, facilityID)
	if err != nil {
		return err
	}
	crew := min(max(staff, 0), w.Staff)
	if err := f.BeginRepair(w.Catalog, crew); err != nil {
		return err
	}
	w.Staff -= crew
	return nil
}

// RepairShip starts a hull repair mission with up to staff workers.
func (w *World) RepairShip(shipID uint32, staff int) error {
	s, ok := w.Ship(shipID)
	if !ok {
		return fmt.Errorf("ship %d: %w", shipID, ErrNotFound)
	}
	crew := min(max(staff, 0), w.Staff)
	if err := s.BeginHullRepair(w.Catalog, crew); err != nil {
		return err
	}
	w.Staff -= crew
	return nil
}

// SetFacilityDisabled flips a facility's on/off switch.
func (w *World) SetFacilityDisabled(shipID, facilityID uint32, disabled bool) error {
	s, f, err := w.Facility(shipID, facilityID)
	if err != nil {
		return err
	}
	f.SetDisabled(disabled)
	s.Check()
	return nil
}

// ParkShip moves a ship into the first free parking spot.
func (w *World) ParkShip(shipID uint32) (Vector3, error) {
	s, ok := w.Ship(shipID)
	if !ok {
		return NoSpot, fmt.Errorf("ship %d: %w", shipID, ErrNotFound)
	}
	if s.Location == ParkingLocation {
		return s.Position, nil
	}
	spot := w.Parking.NextSpot()
	if spot == NoSpot {
		return NoSpot, fmt.Errorf("parking: %w", ErrSlotFull)
	}
	s.SetLocation(ParkingLocation, spot)
	return spot, nil
}

// UnparkShip frees a ship's parking spot and sends it to the egress point.
func (w *World) UnparkShip(shipID uint32) error {
	s, ok := w.Ship(shipID)
	if !ok {
		return fmt.Errorf("ship %d: %w", shipID, ErrNotFound)
	}
	if s.Location != ParkingLocation {
		return nil
	}
	w.Parking.Vacate(s.Position)
	s.SetLocation("", s.Position)
	s.SetFlightPath([]Vector3{w.Parking.Egress()})
	return nil
}
