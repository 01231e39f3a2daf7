/*
Package game
File: state.go
Description:
    The World is the explicit simulation context: the catalog, the ordered
    ship list, the clock, the parking lot and the player's staff pool and
    treasury. Nothing in the package is global; every operation takes the
    World (or a Ship/Facility inside it).

    The World is not safe for concurrent use. The server guards it with a
    single RWMutex.
*/

package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Credits is the treasury entry that daily accounts settle against.
const Credits = "credits"

// World holds one running game.
type World struct {
	ID         string
	Catalog    *Catalog
	Ships      []*Ship
	Clock      Clock
	Parking    *ParkingLot
	Staff      int           // unassigned staff
	Population int           // residents
	Resources  *ResourceList // treasury

	shipIDPool uint32
	log        logrus.FieldLogger
}

func newWorld(cat *Catalog, log logrus.FieldLogger) *World {
	log = loggerOrDefault(log)
	w := &World{
		ID:        uuid.NewString(),
		Catalog:   cat,
		Resources: &ResourceList{},
		log:       log,
	}
	if cat != nil {
		w.Clock.HourTime = cat.Balance.HourTime
		w.Parking = NewParkingLot(cat.Balance.Parking)
	} else {
		w.Parking = NewParkingLot(ParkingDef{})
	}
	w.log = log.WithField("world", w.ID)
	return w
}

// NewWorld creates an empty world bound to cat: no ships, no staff, no credits.
func NewWorld(cat *Catalog, log logrus.FieldLogger) *World {
	return newWorld(cat, log)
}

// NewGame creates a world seeded from the catalog's balance section.
// Starting ships are spawned with their default facilities, then staffed from
// the starting pool in list order until the pool runs dry.
func NewGame(cat *Catalog, log logrus.FieldLogger) (*World, error) {
	w := newWorld(cat, log)
	bal := cat.Balance

	// 1. Treasury and people
	w.Staff = bal.StartingStaff
	w.Population = bal.StartingPopulation
	w.Resources.Add(Credits, bal.StartingCredits)

	// 2. Starting fleet
	for _, start := range bal.StartingShips {
		s, err := w.SpawnShip(start.Name, true)
		if err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
		s.SetLocation(start.Location, start.Position)
	}

	// 3. Crew the default facilities
	for _, s := range w.Ships {
		give := min(s.CrewRequired, w.Staff)
		w.Staff -= give - s.ChangeStaff(give)
		for _, f := range s.Facilities {
			give := min(f.StaffRequired, w.Staff)
			w.Staff -= give - f.ChangeStaff(give)
		}
		s.Check()
	}

	w.log.WithFields(logrus.Fields{
		"ships": len(w.Ships),
		"staff": w.Staff,
	}).Info("New game started")
	return w, nil
}

// Logger returns the world's logger.
func (w *World) Logger() logrus.FieldLogger {
	return w.log
}

// SetLogger replaces the world's logger; nil restores the standard logger.
func (w *World) SetLogger(log logrus.FieldLogger) {
	w.log = loggerOrDefault(log).WithField("world", w.ID)
}

// SetCatalog swaps in a reloaded catalog. Existing ships and facilities keep
// the stats they were built with; only new construction sees the change.
func (w *World) SetCatalog(cat *Catalog) {
	w.Catalog = cat
	w.Clock.HourTime = cat.Balance.HourTime
	w.Parking.Layout = cat.Balance.Parking
}

// SpawnShip creates a ship from its template and appends it to the world.
func (w *World) SpawnShip(name string, defaults bool) (*Ship, error) {
	if _, ok := w.Catalog.Ship(name); !ok {
		return nil, fmt.Errorf("ship %q: %w", name, ErrUnknownShipType)
	}
	w.shipIDPool++
	s, err := NewShipByName(w.Catalog, name, w.shipIDPool, defaults)
	if err != nil {
		return nil, err
	}
	w.Ships = append(w.Ships, s)
	return s, nil
}

// Ship finds a ship by id.
func (w *World) Ship(id uint32) (*Ship, bool) {
	for _, s := range w.Ships {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Station is the player's station: the first ship in the list.
func (w *World) Station() (*Ship, bool) {
	if len(w.Ships) == 0 {
		return nil, false
	}
	return w.Ships[0], true
}

// Facility finds a facility on a ship.
func (w *World) Facility(shipID, facilityID uint32) (*Ship, *Facility, error) {
	s, ok := w.Ship(shipID)
	if !ok {
		return nil, nil, fmt.Errorf("ship %d: %w", shipID, ErrNotFound)
	}
	f, ok := s.Facilities.GetByID(facilityID)
	if !ok {
		return s, nil, fmt.Errorf("facility %d on ship %d: %w", facilityID, shipID, ErrNotFound)
	}
	return s, f, nil
}

// Credits is the treasury balance.
func (w *World) Credits() int {
	return w.Resources.Get(Credits)
}

// removeShip takes a ship out of the list, frees its parking spot and
// releases it. Its crew and facility staff are lost with it.
func (w *World) removeShip(id uint32) (*Ship, bool) {
	for i, s := range w.Ships {
		if s.ID != id {
			continue
		}
		w.Ships = append(w.Ships[:i], w.Ships[i+1:]...)
		if s.Location == ParkingLocation {
			w.Parking.Vacate(s.Position)
		}
		s.Release()
		return s, true
	}
	return nil, false
}
