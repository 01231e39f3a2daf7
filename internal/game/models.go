/*
Package game
File: models.go
Description:
    Defines the static template structures that make up the Definition Catalog.
    These map directly to 'catalog.yaml' and are served as-is by the JSON API.

    No logic is performed here; this file is strictly for type definitions.
*/

package game

// Vector2 is a planar position (planet-side facilities).
type Vector2 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Vector3 is a position in space (ships, waypoints, parking spots).
type Vector3 struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Balance stores global tuning variables for a new world.
type Balance struct {
	StartingCredits    int           `yaml:"starting_credits" json:"starting_credits"`       // Treasury credits for a new game
	StartingStaff      int           `yaml:"starting_staff" json:"starting_staff"`           // Unassigned staff pool for a new game
	StartingPopulation int           `yaml:"starting_population" json:"starting_population"` // Residents, reported by the personnel report
	HourTime           uint32        `yaml:"hour_time" json:"hour_time"`                     // Real milliseconds per simulated hour
	Parking            ParkingDef    `yaml:"parking" json:"parking"`                         // Parking lot layout
	StartingShips      []StartingDef `yaml:"starting_ships" json:"starting_ships"`           // Ships spawned in a new game
}

// ParkingDef lays out the parking grid: Start + Delta*(row, column).
type ParkingDef struct {
	Start    Vector3 `yaml:"start" json:"start"`
	Delta    Vector3 `yaml:"delta" json:"delta"`
	Approach Vector3 `yaml:"approach" json:"approach"`
	Egress   Vector3 `yaml:"egress" json:"egress"`
}

// StartingDef names a ship to spawn in a new game.
type StartingDef struct {
	Name     string  `yaml:"name" json:"name"`
	Location string  `yaml:"location" json:"location"`
	Position Vector3 `yaml:"position" json:"position"`
}

// FacilityDef is the template a facility is instantiated from.
type FacilityDef struct {
	Name        string `yaml:"name" json:"name"`                 // Unique ID (e.g., "fusion_reactor")
	DisplayName string `yaml:"display_name" json:"display_name"` // Display name
	Type        string `yaml:"type" json:"type"`                 // Slot type it occupies (e.g., "industrial")
	Unique      bool   `yaml:"unique" json:"unique"`             // Required and only one; cannot be bought or sold
	Singleton   bool   `yaml:"singleton" json:"singleton"`       // Only one allowed at a time; can be traded
	Officer     bool   `yaml:"officer" json:"officer"`           // Supports a directing officer

	BuildTime  uint32 `yaml:"build_time" json:"build_time"`   // Hours to construct
	WorkTime   uint32 `yaml:"work_time" json:"work_time"`     // Hours to complete one work order
	RepairTime uint32 `yaml:"repair_time" json:"repair_time"` // Hours to repair; falls back to BuildTime

	Housing        int     `yaml:"housing" json:"housing"`
	OperatingCost  int     `yaml:"operating_cost" json:"operating_cost"` // Daily wages and office costs
	Income         int     `yaml:"income" json:"income"`                 // Daily income, if any
	CrimeRate      float64 `yaml:"crime_rate" json:"crime_rate"`
	Opportunities  float64 `yaml:"opportunities" json:"opportunities"`
	Commerce       float64 `yaml:"commerce" json:"commerce"`
	Entertainment  float64 `yaml:"entertainment" json:"entertainment"`
	StaffRequired  int     `yaml:"staff_required" json:"staff_required"`
	StaffPositions int     `yaml:"staff_positions" json:"staff_positions"`
	EnergyDraw     int     `yaml:"energy_draw" json:"energy_draw"`
	EnergyOutput   int     `yaml:"energy_output" json:"energy_output"`
	Storage        int     `yaml:"storage" json:"storage"`

	Cost     []ResourceEntry `yaml:"cost" json:"cost"`         // Purchase price
	Upkeep   []ResourceEntry `yaml:"upkeep" json:"upkeep"`     // Consumed every cycle while working
	Provides []ResourceEntry `yaml:"provides" json:"provides"` // Produced every cycle while working
}

// SlotDef is a facility category a ship design permits, with a capacity.
type SlotDef struct {
	Type  string `yaml:"type" json:"type"`
	Count int    `yaml:"count" json:"count"`
}

// ShipDef is the template a ship or station section is instantiated from.
type ShipDef struct {
	Name            string    `yaml:"name" json:"name"`
	DisplayName     string    `yaml:"display_name" json:"display_name"`
	HullMax         float64   `yaml:"hull_max" json:"hull_max"`
	Housing         int       `yaml:"housing" json:"housing"`
	StorageCapacity int       `yaml:"storage_capacity" json:"storage_capacity"`
	Speed           float64   `yaml:"speed" json:"speed"`
	Efficiency      float64   `yaml:"efficiency" json:"efficiency"`
	CrewPositions   int       `yaml:"crew_positions" json:"crew_positions"` // Ship-level positions (helm, bridge)
	CrewRequired    int       `yaml:"crew_required" json:"crew_required"`
	RepairTime      uint32    `yaml:"repair_time" json:"repair_time"` // Hours to restore the hull
	Slots           []SlotDef `yaml:"slots" json:"slots"`
	Defaults        []string  `yaml:"default_facilities" json:"default_facilities"`
}

// CatalogDoc is the root struct, mapping to the entire 'catalog.yaml' file.
type CatalogDoc struct {
	BalanceConfig Balance       `yaml:"balance"`
	Facilities    []FacilityDef `yaml:"facilities"`
	Ships         []ShipDef     `yaml:"ships"`
}
