/*
Package game
File: facility.go
Description:
    A Facility is a single productive unit on a ship or station section:
    a reactor, a habitat ring, a refinery. It is staffed, draws energy,
    consumes upkeep and emits production once per simulation cycle.

    Per-facility state machine (all derived from fields):
        UnderConstruction -> Idle -> Working <-> Inactive -> Disabled -> Removed
    Damage is orthogonal: at 100 the facility cannot work until repaired.
*/

package game

import "fmt"

// MaxDamage means destroyed; anything below can be repaired while operating.
const MaxDamage = 100.0

// Facility is owned by the FacilityList of a ship.
type Facility struct {
	Name           string        `json:"name"`
	DisplayName    string        `json:"display_name"`
	ID             uint32        `json:"id"`
	FacilityType   string        `json:"facility_type"`
	Required       bool          `json:"required"` // unique template; the ship cannot work without it
	Position       Vector2       `json:"position"`
	Damage         float64       `json:"damage"`
	Working        bool          `json:"working"`
	Mission        *Mission      `json:"mission,omitempty"`
	Productivity   float64       `json:"productivity"`
	LastProduction uint32        `json:"last_production"`
	OperatingCost  int           `json:"operating_cost"`
	Income         int           `json:"income"`
	Housing        int           `json:"housing"`
	CrimeRate      float64       `json:"crime_rate"`
	Opportunities  float64       `json:"opportunities"`
	Commerce       float64       `json:"commerce"`
	Entertainment  float64       `json:"entertainment"`
	StaffRequired  int           `json:"staff_required"`
	StaffAssigned  int           `json:"staff_assigned"`
	StaffPositions int           `json:"staff_positions"`
	EnergyDraw     int           `json:"energy_draw"`
	EnergyOutput   int           `json:"energy_output"`
	Inactive       bool          `json:"inactive"`
	Disabled       bool          `json:"disabled"`
	Storage        int           `json:"storage"`
	Officer        string        `json:"officer"`
	Upkeep         *ResourceList `json:"upkeep"`
	Produces       *ResourceList `json:"produces"`
}

// NewFacilityByName creates a facility from its catalog template.
// The facility starts idle: not working, undamaged, unstaffed.
func NewFacilityByName(cat *Catalog, name string, id uint32) (*Facility, error) {
	def, ok := cat.Facility(name)
	if !ok {
		return nil, fmt.Errorf("facility %q: %w", name, ErrUnknownFacilityType)
	}
	return &Facility{
		Name:           def.Name,
		DisplayName:    fmt.Sprintf("%s %d", def.DisplayName, id),
		ID:             id,
		FacilityType:   def.Type,
		Required:       def.Unique,
		OperatingCost:  def.OperatingCost,
		Income:         def.Income,
		Housing:        def.Housing,
		CrimeRate:      def.CrimeRate,
		Opportunities:  def.Opportunities,
		Commerce:       def.Commerce,
		Entertainment:  def.Entertainment,
		StaffRequired:  def.StaffRequired,
		StaffPositions: def.StaffPositions,
		EnergyDraw:     def.EnergyDraw,
		EnergyOutput:   def.EnergyOutput,
		Storage:        def.Storage,
		Upkeep:         NewResourceList(def.Upkeep...),
		Produces:       NewResourceList(def.Provides...),
	}, nil
}

// BuildFacility places a new facility into parent with a Build mission
// attached. It is visible immediately but inert until the mission completes.
func BuildFacility(cat *Catalog, name string, position Vector2, parent *FacilityList, id uint32, staff int) (*Facility, error) {
	f, err := NewFacilityByName(cat, name, id)
	if err != nil {
		return nil, err
	}
	f.Position = position
	f.Mission = NewMission(BuildTask{Facility: name}, id, cat.BuildTime(name), staff)
	if parent != nil {
		parent.Append(f)
	}
	return f, nil
}

// UnderConstruction reports whether a Build mission is still pending.
func (f *Facility) UnderConstruction() bool {
	return f.Mission.Kind() == MissionBuild
}

// ChangeStaff hires (delta > 0) or fires (delta < 0) staff. The assignment is
// clamped to [0, StaffPositions]; the return value is what could not be applied:
// positive when there was no room, negative when there was no one left to remove.
func (f *Facility) ChangeStaff(delta int) int {
	want := f.StaffAssigned + delta
	overflow := 0
	switch {
	case want > f.StaffPositions:
		overflow = want - f.StaffPositions
		want = f.StaffPositions
	case want < 0:
		overflow = want
		want = 0
	}
	f.StaffAssigned = want
	f.Check()
	return overflow
}

// Check recomputes Working from staffing, damage, the disabled switch and
// construction state. Energy is not considered; it is a shared pool resolved
// during Update.
func (f *Facility) Check() {
	f.Working = f.StaffAssigned >= f.StaffRequired &&
		f.Damage < MaxDamage &&
		!f.Disabled &&
		!f.UnderConstruction()
	f.Productivity = f.productivity()
}

// productivity folds staffing ratio and damage into [0,1].
func (f *Facility) productivity() float64 {
	if !f.Working || f.Inactive {
		return 0
	}
	staffing := 1.0
	if f.StaffPositions > 0 {
		staffing = float64(f.StaffAssigned) / float64(f.StaffPositions)
	}
	p := staffing * (MaxDamage - f.Damage) / MaxDamage
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Update runs one simulation cycle.
//
// A working facility needs its whole upkeep in cargo and its whole energy draw
// in *energySupply. If either falls short nothing is charged and the facility is
// marked Inactive. Otherwise both are charged, Produces is merged into output and
// LastProduction is set to now. Any attached mission advances one cycle unless
// the facility is disabled; a completed mission is applied and reported.
func (f *Facility) Update(cargo, output *ResourceList, energySupply *int, now uint32) *MissionOutcome {
	if f.Disabled {
		f.Inactive = false
		f.Productivity = 0
		return nil
	}
	if f.Working {
		f.Inactive = !f.operate(cargo, output, energySupply, now)
	} else {
		f.Inactive = false
	}
	f.Productivity = f.productivity()
	return runMission(&f.Mission, f)
}

func (f *Facility) operate(cargo, output *ResourceList, energySupply *int, now uint32) bool {
	var none int
	if energySupply == nil {
		energySupply = &none
	}
	if !cargo.Has(f.Upkeep) {
		return false
	}
	if f.EnergyDraw > *energySupply {
		return false
	}
	if f.Upkeep.Len() > 0 {
		if err := cargo.Consume(f.Upkeep); err != nil {
			return false
		}
	}
	*energySupply -= f.EnergyDraw
	if output == nil {
		output = cargo
	}
	output.Merge(f.Produces)
	f.LastProduction = now
	return true
}

// Repair clears all damage, unconditionally.
func (f *Facility) Repair() {
	f.Damage = 0
}

// ApplyDamage adds damage, clamped to [0, MaxDamage].
func (f *Facility) ApplyDamage(amount float64) {
	f.Damage += amount
	if f.Damage > MaxDamage {
		f.Damage = MaxDamage
	}
	if f.Damage < 0 {
		f.Damage = 0
	}
	f.Check()
}

// BeginRepair attaches a Repair mission sized from the catalog.
func (f *Facility) BeginRepair(cat *Catalog, staff int) error {
	if f.Mission != nil {
		return fmt.Errorf("facility %d has a %s mission: %w", f.ID, f.Mission.Kind(), ErrMissionActive)
	}
	f.Mission = NewMission(RepairTask{}, f.ID, cat.RepairTime(f.Name), staff)
	return nil
}

// SetDisabled is the player's on/off switch.
func (f *Facility) SetDisabled(disabled bool) {
	f.Disabled = disabled
	f.Check()
}

func (f *Facility) finishConstruction() { f.Check() }

func (f *Facility) finishRepair() {
	f.Repair()
	f.Check()
}

// release drops everything the facility owns.
func (f *Facility) release() {
	f.Mission = nil
	f.Upkeep = nil
	f.Produces = nil
	f.Working = false
}

// FacilityList is an ordered set of facilities. Order is load-bearing: it is
// the order facilities claim the shared energy pool.
type FacilityList []*Facility

// Append adds f at the end.
func (l *FacilityList) Append(f *Facility) {
	*l = append(*l, f)
}

// Remove takes the facility with id out of the list and returns it.
func (l *FacilityList) Remove(id uint32) (*Facility, bool) {
	for i, f := range *l {
		if f.ID == id {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return f, true
		}
	}
	return nil, false
}

// GetByID finds a facility by id.
func (l FacilityList) GetByID(id uint32) (*Facility, bool) {
	for _, f := range l {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// GetByName returns the first facility built from template name.
func (l FacilityList) GetByName(name string) (*Facility, bool) {
	for _, f := range l {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// GetByNameID matches both template name and id.
func (l FacilityList) GetByNameID(name string, id uint32) (*Facility, bool) {
	for _, f := range l {
		if f.Name == name && f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// GetByPosition finds the planet-side facility at position.
func (l FacilityList) GetByPosition(position Vector2) (*Facility, bool) {
	for _, f := range l {
		if f.Position == position {
			return f, true
		}
	}
	return nil, false
}

// CountByName is how many facilities were built from template name.
func (l FacilityList) CountByName(name string) int {
	n := 0
	for _, f := range l {
		if f.Name == name {
			n++
		}
	}
	return n
}
