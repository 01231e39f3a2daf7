/*
Package game
File: ship.go
Description:
    Ships and station sections. A Ship owns an ordered list of facilities and
    rolls their staffing, energy, housing and storage up into ship-level
    totals. Totals are always recomputed by Check, never adjusted in place.

    Flight state (path, target, dock) is stored for the kinematics layer and
    is not interpreted here.
*/

package game

import "fmt"

// Ship is a ship or a station section.
type Ship struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	ID          uint32   `json:"id"`
	IDPool      uint32   `json:"id_pool"` // last facility id issued; never reused
	Location    string   `json:"location"`
	Position    Vector3  `json:"position"`
	Housing     int      `json:"housing"`
	Passengers  int      `json:"passengers"`
	Hull        float64  `json:"hull"`
	HullMax     float64  `json:"hull_max"`
	Captain     string   `json:"captain"`
	Mission     *Mission `json:"mission,omitempty"`
	Working     bool     `json:"working"`

	StaffPositions int `json:"staff_positions"`
	StaffRequired  int `json:"staff_required"`
	StaffAssigned  int `json:"staff_assigned"`

	// Ship-level crew (helm, bridge) not tied to any facility.
	Crew          int `json:"crew"`
	CrewPositions int `json:"crew_positions"`
	CrewRequired  int `json:"crew_required"`

	EnergyOutput    int           `json:"energy_output"`
	EnergyDraw      int           `json:"energy_draw"`
	BaseHousing     int           `json:"base_housing"`
	BaseStorage     int           `json:"base_storage"`
	StorageCapacity int           `json:"storage_capacity"`
	Cargo           *ResourceList `json:"cargo"`
	Disabled        bool          `json:"disabled"`
	Speed           float64       `json:"speed"`
	Efficiency      float64       `json:"efficiency"`
	Facilities      FacilityList  `json:"facilities"`
	FlightPath      []Vector3     `json:"flight_path"`
	FlightTarget    Vector3       `json:"flight_target"`
	DockName        string        `json:"dock_name"`
}

// TickReport summarises one economic tick of a ship.
type TickReport struct {
	ShipID       uint32           `json:"ship_id"`
	EnergyBudget int              `json:"energy_budget"`
	EnergyUsed   int              `json:"energy_used"`
	Active       int              `json:"active"`
	Inactive     int              `json:"inactive"`
	Completed    []MissionOutcome `json:"completed,omitempty"`
	Destroyed    bool             `json:"destroyed"`
}

// NewShipByName creates a ship from its catalog template. With defaults set,
// the template's default facilities are installed; unknown ones are skipped.
func NewShipByName(cat *Catalog, name string, id uint32, defaults bool) (*Ship, error) {
	def, ok := cat.Ship(name)
	if !ok {
		return nil, fmt.Errorf("ship %q: %w", name, ErrUnknownShipType)
	}
	s := &Ship{
		Name:          def.Name,
		DisplayName:   def.DisplayName,
		ID:            id,
		Hull:          def.HullMax,
		HullMax:       def.HullMax,
		BaseHousing:   def.Housing,
		BaseStorage:   def.StorageCapacity,
		Speed:         def.Speed,
		Efficiency:    def.Efficiency,
		CrewPositions: def.CrewPositions,
		CrewRequired:  def.CrewRequired,
		Cargo:         &ResourceList{},
	}
	if defaults {
		for _, fname := range def.Defaults {
			f, err := NewFacilityByName(cat, fname, s.nextID())
			if err != nil {
				continue
			}
			s.Facilities.Append(f)
		}
	}
	s.Check()
	return s, nil
}

func (s *Ship) nextID() uint32 {
	s.IDPool++
	return s.IDPool
}

// Check recomputes every aggregate from the facility list. It is a pure fold:
// calling it again without intervening changes yields identical totals.
//
// Disabled facilities contribute nothing. The ship works when it is not
// disabled, has its minimum crew, has at least one facility, and every
// required facility is working.
func (s *Ship) Check() {
	s.StaffPositions = s.CrewPositions
	s.StaffRequired = s.CrewRequired
	s.StaffAssigned = s.Crew
	s.EnergyOutput = 0
	s.EnergyDraw = 0
	s.Housing = s.BaseHousing
	s.StorageCapacity = s.BaseStorage

	working := !s.Disabled && len(s.Facilities) > 0 && s.Crew >= s.CrewRequired
	for _, f := range s.Facilities {
		f.Check()
		if f.Required && !f.Working {
			working = false
		}
		if f.Disabled {
			continue
		}
		s.StaffPositions += f.StaffPositions
		s.StaffRequired += f.StaffRequired
		s.StaffAssigned += f.StaffAssigned
		s.EnergyOutput += f.EnergyOutput
		s.EnergyDraw += f.EnergyDraw
		s.Housing += f.Housing
		s.StorageCapacity += f.Storage
	}
	s.Working = working
}

// ChangeStaff moves people into or out of the ship-level crew, clamped to
// [0, CrewPositions]. The return value is the part that could not be applied,
// signed the same way as Facility.ChangeStaff.
func (s *Ship) ChangeStaff(delta int) int {
	want := s.Crew + delta
	overflow := 0
	switch {
	case want > s.CrewPositions:
		overflow = want - s.CrewPositions
		want = s.CrewPositions
	case want < 0:
		overflow = want
		want = 0
	}
	s.Crew = want
	s.Check()
	return overflow
}

// RunEconomicTick updates every facility in list order against one shared
// energy pool seeded from EnergyOutput. Earlier facilities claim energy first.
func (s *Ship) RunEconomicTick(now uint32) TickReport {
	rep := TickReport{ShipID: s.ID}
	if s.Cargo == nil {
		s.Cargo = &ResourceList{}
	}
	energy := s.EnergyOutput
	rep.EnergyBudget = energy

	for _, f := range s.Facilities {
		if out := f.Update(s.Cargo, s.Cargo, &energy, now); out != nil {
			rep.Completed = append(rep.Completed, *out)
		}
		if f.Working && !f.Disabled {
			if f.Inactive {
				rep.Inactive++
			} else {
				rep.Active++
			}
		}
	}
	rep.EnergyUsed = rep.EnergyBudget - energy

	if out := runMission(&s.Mission, s); out != nil {
		rep.Completed = append(rep.Completed, *out)
	}
	s.Check()
	rep.Destroyed = s.Destroyed()
	return rep
}

// GiveFacility installs a ready (not under construction) facility.
// Slot capacity is not checked.
func (s *Ship) GiveFacility(cat *Catalog, name string) (*Facility, error) {
	f, err := NewFacilityByName(cat, name, s.IDPool+1)
	if err != nil {
		return nil, err
	}
	s.nextID()
	s.Facilities.Append(f)
	s.Check()
	return f, nil
}

// BuildFacility starts construction of a facility on this ship.
func (s *Ship) BuildFacility(cat *Catalog, name string, position Vector2, staff int) (*Facility, error) {
	if _, ok := cat.Facility(name); !ok {
		return nil, fmt.Errorf("facility %q: %w", name, ErrUnknownFacilityType)
	}
	f, err := BuildFacility(cat, name, position, &s.Facilities, s.nextID(), staff)
	if err != nil {
		return nil, err
	}
	s.Check()
	return f, nil
}

// RemoveFacility takes a facility off the ship and frees it with its mission.
func (s *Ship) RemoveFacility(id uint32) error {
	f, ok := s.Facilities.Remove(id)
	if !ok {
		return fmt.Errorf("facility %d on ship %d: %w", id, s.ID, ErrNotFound)
	}
	f.release()
	s.Check()
	return nil
}

// SlotCountByType is how many facilities of slotType this ship's design allows.
func (s *Ship) SlotCountByType(cat *Catalog, slotType string) int {
	return cat.SlotCountByType(s.Name, slotType)
}

// SlotUsageByType counts installed facilities (including ones under
// construction) of slotType.
func (s *Ship) SlotUsageByType(slotType string) int {
	n := 0
	for _, f := range s.Facilities {
		if f.FacilityType == slotType {
			n++
		}
	}
	return n
}

// SlotNameCount is how many facility types this ship's design permits.
func (s *Ship) SlotNameCount(cat *Catalog) int {
	return cat.SlotNameCount(s.Name)
}

// SlotNameByIndex returns the nth slot type of this ship's design.
func (s *Ship) SlotNameByIndex(cat *Catalog, index int) (string, bool) {
	return cat.SlotNameByIndex(s.Name, index)
}

// DamageHull reduces the hull; it never rises above HullMax.
func (s *Ship) DamageHull(amount float64) {
	s.Hull -= amount
	if s.Hull > s.HullMax {
		s.Hull = s.HullMax
	}
}

// Destroyed reports whether the hull has failed.
func (s *Ship) Destroyed() bool {
	return s.Hull <= 0
}

// BeginHullRepair attaches a Repair mission that restores the hull.
func (s *Ship) BeginHullRepair(cat *Catalog, staff int) error {
	if s.Mission != nil {
		return fmt.Errorf("ship %d has a %s mission: %w", s.ID, s.Mission.Kind(), ErrMissionActive)
	}
	var duration uint32
	if def, ok := cat.Ship(s.Name); ok {
		duration = def.RepairTime
	}
	s.Mission = NewMission(RepairTask{}, s.ID, duration, staff)
	return nil
}

func (s *Ship) finishConstruction() { s.Check() }

func (s *Ship) finishRepair() {
	s.Hull = s.HullMax
}

// SetLocation sets where the ship is and, more specifically, its position.
func (s *Ship) SetLocation(location string, position Vector3) {
	s.Location = location
	s.Position = position
}

// OrderToDock records the dock the ship should align to.
func (s *Ship) OrderToDock(dock string) {
	s.DockName = dock
}

// SetFlightPath stores a journey; the first waypoint becomes the target.
func (s *Ship) SetFlightPath(path []Vector3) {
	s.FlightPath = append([]Vector3(nil), path...)
	if len(s.FlightPath) > 0 {
		s.FlightTarget = s.FlightPath[0]
	}
}

// Release frees everything the ship owns. The ship must not be ticked again.
func (s *Ship) Release() {
	for _, f := range s.Facilities {
		f.release()
	}
	s.Facilities = nil
	s.Mission = nil
	s.Cargo = nil
	s.FlightPath = nil
	s.Working = false
}
