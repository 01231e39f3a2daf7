/*
Package game
File: save.go
Description:
    Save/load of facilities, ships and whole worlds as JSON documents.
    Resource lists are written as arrays of {name, amount}; missions as a
    small object tagged by kind.

    Loading is best-effort. A document that is not JSON at all is an error,
    but missing or out-of-range fields are logged, defaulted or clamped and
    the load carries on. Null entries are dropped, and derived state
    (working flags, ship totals) is recomputed rather than trusted.
*/

package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// MarshalJSON writes the list as an array, never null.
func (l ResourceList) MarshalJSON() ([]byte, error) {
	entries := l.Entries
	if entries == nil {
		entries = []ResourceEntry{}
	}
	return json.Marshal(entries)
}

// UnmarshalJSON reads an array of entries.
func (l *ResourceList) UnmarshalJSON(data []byte) error {
	var entries []ResourceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	l.Entries = entries
	return nil
}

type missionDoc struct {
	Kind          MissionKind `json:"kind"`
	Facility      string      `json:"facility,omitempty"`
	TargetID      uint32      `json:"target_id"`
	Progress      uint32      `json:"progress"`
	Duration      uint32      `json:"duration"`
	StaffAssigned int         `json:"staff_assigned"`
}

// MarshalJSON flattens the task variant into a kind tag.
func (m Mission) MarshalJSON() ([]byte, error) {
	doc := missionDoc{
		Kind:          m.Kind(),
		TargetID:      m.TargetID,
		Progress:      m.Progress,
		Duration:      m.Duration,
		StaffAssigned: m.StaffAssigned,
	}
	if b, ok := m.Task.(BuildTask); ok {
		doc.Facility = b.Facility
	}
	return json.Marshal(doc)
}

// UnmarshalJSON restores the task variant from its kind tag. An unknown kind
// leaves the mission without a task; it still counts down but has no effect.
func (m *Mission) UnmarshalJSON(data []byte) error {
	var doc missionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	switch doc.Kind {
	case MissionBuild:
		m.Task = BuildTask{Facility: doc.Facility}
	case MissionRepair:
		m.Task = RepairTask{}
	default:
		m.Task = nil
	}
	m.TargetID = doc.TargetID
	m.Progress = doc.Progress
	m.Duration = doc.Duration
	m.StaffAssigned = doc.StaffAssigned
	if m.Progress > m.Duration {
		m.Progress = m.Duration
	}
	return nil
}

// SaveFacility encodes a facility.
func SaveFacility(f *Facility) ([]byte, error) {
	return json.Marshal(f)
}

// LoadFacility decodes a facility.
func LoadFacility(data []byte, log logrus.FieldLogger) (*Facility, error) {
	var f Facility
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load facility: %v: %w", err, ErrMalformedConfig)
	}
	sanitizeFacility(&f, loggerOrDefault(log))
	return &f, nil
}

func sanitizeFacility(f *Facility, log logrus.FieldLogger) {
	entry := log.WithField("facility_id", f.ID)
	if f.Name == "" {
		entry.Warn("save: facility missing name")
	}
	if f.Damage < 0 || f.Damage > MaxDamage {
		entry.WithField("damage", f.Damage).Warn("save: facility damage out of range, clamping")
		f.Damage = min(max(f.Damage, 0), MaxDamage)
	}
	if f.StaffAssigned < 0 || f.StaffAssigned > f.StaffPositions {
		entry.WithField("staff_assigned", f.StaffAssigned).Warn("save: facility staff out of range, clamping")
		f.StaffAssigned = min(max(f.StaffAssigned, 0), f.StaffPositions)
	}
	was := f.Working
	f.Check()
	if was != f.Working {
		entry.WithField("working", f.Working).Warn("save: facility working flag inconsistent, recomputed")
	}
}

// SaveShip encodes a ship with its facilities and cargo.
func SaveShip(s *Ship) ([]byte, error) {
	return json.Marshal(s)
}

// LoadShip decodes a ship.
func LoadShip(data []byte, log logrus.FieldLogger) (*Ship, error) {
	var s Ship
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("load ship: %v: %w", err, ErrMalformedConfig)
	}
	sanitizeShip(&s, loggerOrDefault(log))
	return &s, nil
}

func sanitizeShip(s *Ship, log logrus.FieldLogger) {
	entry := log.WithField("ship_id", s.ID)
	if s.Name == "" {
		entry.Warn("save: ship missing name")
	}
	kept := s.Facilities[:0]
	for i, f := range s.Facilities {
		if f == nil {
			entry.WithField("index", i).Warn("save: null facility skipped")
			continue
		}
		sanitizeFacility(f, entry)
		if f.ID > s.IDPool {
			entry.WithField("facility_id", f.ID).Warn("save: id pool behind facility ids, advancing")
			s.IDPool = f.ID
		}
		kept = append(kept, f)
	}
	s.Facilities = kept
	if s.Hull > s.HullMax {
		entry.Warn("save: hull above hull_max, clamping")
		s.Hull = s.HullMax
	}
	if s.Crew < 0 || s.Crew > s.CrewPositions {
		entry.WithField("crew", s.Crew).Warn("save: crew out of range, clamping")
		s.Crew = min(max(s.Crew, 0), s.CrewPositions)
	}
	s.Check()
}

// WorldDoc is the saved form of a World.
type WorldDoc struct {
	ID         string        `json:"id"`
	Day        uint32        `json:"day"`
	Hour       uint32        `json:"hour"`
	Staff      int           `json:"staff"`
	Population int           `json:"population"`
	ShipIDPool uint32        `json:"ship_id_pool"`
	Resources  *ResourceList `json:"resources"`
	Parking    []Vector3     `json:"parking"`
	Ships      []*Ship       `json:"ships"`
}

// SaveWorld encodes the mutable state of a world. The catalog is not saved.
func SaveWorld(w *World) ([]byte, error) {
	return json.Marshal(w.Doc())
}

// Doc captures the world's mutable state.
func (w *World) Doc() WorldDoc {
	return WorldDoc{
		ID:         w.ID,
		Day:        w.Clock.Day,
		Hour:       w.Clock.Hour,
		Staff:      w.Staff,
		Population: w.Population,
		ShipIDPool: w.shipIDPool,
		Resources:  w.Resources,
		Parking:    w.Parking.Taken(),
		Ships:      w.Ships,
	}
}

// LoadWorld decodes a world and binds it to cat.
func LoadWorld(cat *Catalog, data []byte, log logrus.FieldLogger) (*World, error) {
	log = loggerOrDefault(log)
	var doc WorldDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load world: %v: %w", err, ErrMalformedConfig)
	}
	w := newWorld(cat, log)
	w.shipIDPool = doc.ShipIDPool
	ships := doc.Ships[:0]
	for i, s := range doc.Ships {
		if s == nil {
			log.WithField("index", i).Warn("save: null ship skipped")
			continue
		}
		sanitizeShip(s, log)
		if s.ID > w.shipIDPool {
			log.WithField("ship_id", s.ID).Warn("save: ship id pool behind ship ids, advancing")
			w.shipIDPool = s.ID
		}
		ships = append(ships, s)
	}
	if doc.ID != "" {
		w.ID = doc.ID
	} else {
		log.Warn("save: world missing id, keeping a fresh one")
	}
	w.Clock.Day = doc.Day
	w.Clock.Hour = doc.Hour % HoursPerDay
	w.Staff = doc.Staff
	w.Population = doc.Population
	if doc.Resources != nil {
		w.Resources = doc.Resources
	}
	for _, spot := range doc.Parking {
		w.Parking.Claim(spot)
	}
	w.Ships = ships
	return w, nil
}

// SaveWorldFile writes a save to path, creating its directory.
func SaveWorldFile(w *World, path string) error {
	data, err := SaveWorld(w)
	if err != nil {
		return fmt.Errorf("encode world: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write save %s: %w", path, err)
	}
	return nil
}

// LoadWorldFile reads a save written by SaveWorldFile.
func LoadWorldFile(cat *Catalog, path string, log logrus.FieldLogger) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read save %s: %w", path, err)
	}
	return LoadWorld(cat, data, log)
}

func loggerOrDefault(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
