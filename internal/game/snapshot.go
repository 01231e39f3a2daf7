/*
Package game
File: snapshot.go
Description:
    Read-only copies of world state for the API and the UI. Snapshots share
    no memory with the live world, so they can be encoded after the lock
    protecting the world has been released.
*/

package game

import "github.com/dustin/go-humanize"

// FacilitySnapshot is what a facility panel shows.
type FacilitySnapshot struct {
	ID               uint32          `json:"id"`
	Name             string          `json:"name"`
	DisplayName      string          `json:"display_name"`
	FacilityType     string          `json:"facility_type"`
	Position         Vector2         `json:"position"`
	Damage           float64         `json:"damage"`
	Working          bool            `json:"working"`
	Inactive         bool            `json:"inactive"`
	Disabled         bool            `json:"disabled"`
	Productivity     float64         `json:"productivity"`
	StaffAssigned    int             `json:"staff_assigned"`
	StaffRequired    int             `json:"staff_required"`
	StaffPositions   int             `json:"staff_positions"`
	EnergyDraw       int             `json:"energy_draw"`
	EnergyOutput     int             `json:"energy_output"`
	Mission          MissionKind     `json:"mission,omitempty"`
	MissionRemaining uint32          `json:"mission_remaining,omitempty"`
	Upkeep           []ResourceEntry `json:"upkeep"`
	Produces         []ResourceEntry `json:"produces"`
}

// ShipSnapshot is what a ship or station panel shows.
type ShipSnapshot struct {
	ID               uint32             `json:"id"`
	Name             string             `json:"name"`
	DisplayName      string             `json:"display_name"`
	Location         string             `json:"location"`
	Position         Vector3            `json:"position"`
	Hull             float64            `json:"hull"`
	HullMax          float64            `json:"hull_max"`
	Working          bool               `json:"working"`
	Housing          int                `json:"housing"`
	StaffAssigned    int                `json:"staff_assigned"`
	StaffRequired    int                `json:"staff_required"`
	StaffPositions   int                `json:"staff_positions"`
	Crew             int                `json:"crew"`
	EnergyOutput     int                `json:"energy_output"`
	EnergyDraw       int                `json:"energy_draw"`
	StorageCapacity  int                `json:"storage_capacity"`
	Mission          MissionKind        `json:"mission,omitempty"`
	MissionRemaining uint32             `json:"mission_remaining,omitempty"`
	Cargo            []ResourceEntry    `json:"cargo"`
	Facilities       []FacilitySnapshot `json:"facilities"`
}

// HUDSnapshot is the always-on readout: hull, spare energy, money.
type HUDSnapshot struct {
	Date         string  `json:"date"`
	Hull         float64 `json:"hull"`
	HullMax      float64 `json:"hull_max"`
	EnergySupply int     `json:"energy_supply"` // output minus draw; negative means a deficit
	Credits      int     `json:"credits"`
	CreditsText  string  `json:"credits_text"`
}

// PersonnelReport summarises where the player's people are.
type PersonnelReport struct {
	Population int `json:"population"`
	Housing    int `json:"housing"`
	StaffTotal int `json:"staff_total"`
	Unassigned int `json:"unassigned"`
	Assigned   int `json:"assigned"`
}

// WorldSnapshot is the full read-only view.
type WorldSnapshot struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"`
	Day        uint32          `json:"day"`
	Hour       uint32          `json:"hour"`
	Staff      int             `json:"staff"`
	Population int             `json:"population"`
	Resources  []ResourceEntry `json:"resources"`
	Ships      []ShipSnapshot  `json:"ships"`
}

func entries(l *ResourceList) []ResourceEntry {
	return l.Clone().Entries
}

// Snapshot copies a facility.
func (f *Facility) Snapshot() FacilitySnapshot {
	return FacilitySnapshot{
		ID:               f.ID,
		Name:             f.Name,
		DisplayName:      f.DisplayName,
		FacilityType:     f.FacilityType,
		Position:         f.Position,
		Damage:           f.Damage,
		Working:          f.Working,
		Inactive:         f.Inactive,
		Disabled:         f.Disabled,
		Productivity:     f.Productivity,
		StaffAssigned:    f.StaffAssigned,
		StaffRequired:    f.StaffRequired,
		StaffPositions:   f.StaffPositions,
		EnergyDraw:       f.EnergyDraw,
		EnergyOutput:     f.EnergyOutput,
		Mission:          f.Mission.Kind(),
		MissionRemaining: remaining(f.Mission),
		Upkeep:           entries(f.Upkeep),
		Produces:         entries(f.Produces),
	}
}

// Snapshot copies a ship and its facilities.
func (s *Ship) Snapshot() ShipSnapshot {
	snap := ShipSnapshot{
		ID:               s.ID,
		Name:             s.Name,
		DisplayName:      s.DisplayName,
		Location:         s.Location,
		Position:         s.Position,
		Hull:             s.Hull,
		HullMax:          s.HullMax,
		Working:          s.Working,
		Housing:          s.Housing,
		StaffAssigned:    s.StaffAssigned,
		StaffRequired:    s.StaffRequired,
		StaffPositions:   s.StaffPositions,
		Crew:             s.Crew,
		EnergyOutput:     s.EnergyOutput,
		EnergyDraw:       s.EnergyDraw,
		StorageCapacity:  s.StorageCapacity,
		Mission:          s.Mission.Kind(),
		MissionRemaining: remaining(s.Mission),
		Cargo:            entries(s.Cargo),
		Facilities:       make([]FacilitySnapshot, 0, len(s.Facilities)),
	}
	for _, f := range s.Facilities {
		snap.Facilities = append(snap.Facilities, f.Snapshot())
	}
	return snap
}

func remaining(m *Mission) uint32 {
	if m == nil {
		return 0
	}
	return m.Remaining()
}

// Snapshot copies the whole world.
func (w *World) Snapshot() WorldSnapshot {
	snap := WorldSnapshot{
		ID:         w.ID,
		Date:       w.Clock.String(),
		Day:        w.Clock.Day,
		Hour:       w.Clock.Hour,
		Staff:      w.Staff,
		Population: w.Population,
		Resources:  entries(w.Resources),
		Ships:      make([]ShipSnapshot, 0, len(w.Ships)),
	}
	for _, s := range w.Ships {
		snap.Ships = append(snap.Ships, s.Snapshot())
	}
	return snap
}

// HUD reads the station's hull and energy balance and the treasury.
// With no station the ship fields stay zero.
func (w *World) HUD() HUDSnapshot {
	hud := HUDSnapshot{
		Date:        FormatDate(w.Clock.Day),
		Credits:     w.Credits(),
		CreditsText: humanize.Comma(int64(w.Credits())),
	}
	if s, ok := w.Station(); ok {
		hud.Hull = s.Hull
		hud.HullMax = s.HullMax
		hud.EnergySupply = s.EnergyOutput - s.EnergyDraw
	}
	return hud
}

// Personnel reports population, station housing and staff placement.
func (w *World) Personnel() PersonnelReport {
	rep := PersonnelReport{
		Population: w.Population,
		Unassigned: w.Staff,
	}
	if s, ok := w.Station(); ok {
		rep.Housing = s.Housing
		rep.Assigned = s.StaffAssigned
	}
	rep.StaffTotal = rep.Unassigned + rep.Assigned
	return rep
}
