/*
Package api
File: handlers.go
Description:
    Contains the HTTP handlers for the REST API.
    These functions decode JSON requests, call World actions from
    internal/game, and return JSON snapshots.

    Key Responsibilities:
    - Input Validation (Is the JSON valid? Does the entity exist?)
    - State Modification (through World actions only)
    - Thread Safety (every World access holds Server.mu)
*/

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/everforgeworks/station-economy/internal/game"
	"github.com/everforgeworks/station-economy/internal/storage"
)

// Request DTOs (Data Transfer Objects)

type StaffRequest struct {
	Delta int `json:"delta"`
}

type BuildRequest struct {
	Name     string       `json:"name"`
	Position game.Vector2 `json:"position"`
	Staff    int          `json:"staff"`
}

type RepairRequest struct {
	Staff int `json:"staff"`
}

type DisableRequest struct {
	Disabled bool `json:"disabled"`
}

// StaffResponse reports what part of a staff change could not be applied.
type StaffResponse struct {
	Overflow int               `json:"overflow"`
	Ship     game.ShipSnapshot `json:"ship"`
}

// SlotInfo is one slot type of a ship design.
type SlotInfo struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Used     int      `json:"used"`
	Possible []string `json:"possible"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), statusFor(err))
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func urlID(w http.ResponseWriter, r *http.Request, key string) (uint32, bool) {
	n, err := strconv.ParseUint(chi.URLParam(r, key), 10, 32)
	if err != nil {
		http.Error(w, "Invalid "+key, http.StatusBadRequest)
		return 0, false
	}
	return uint32(n), true
}

// handleGetWorld returns the full world snapshot.
func (s *Server) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.world.Snapshot()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetShips(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	snap := s.world.Snapshot().Ships
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGetShip(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ship, found := s.world.Ship(id)
	if !found {
		http.Error(w, "Ship not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ship.Snapshot())
}

// handleGetSlots lists a ship's slot types with usage and what could be built.
func (s *Server) handleGetSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ship, found := s.world.Ship(id)
	if !found {
		http.Error(w, "Ship not found", http.StatusNotFound)
		return
	}
	cat := s.world.Catalog
	slots := []SlotInfo{}
	for i := 0; i < ship.SlotNameCount(cat); i++ {
		slotType, ok := ship.SlotNameByIndex(cat, i)
		if !ok {
			continue
		}
		slots = append(slots, SlotInfo{
			Type:     slotType,
			Count:    ship.SlotCountByType(cat, slotType),
			Used:     ship.SlotUsageByType(slotType),
			Possible: cat.PossibleFromTypes([]string{slotType}),
		})
	}
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleGetHUD(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	hud := s.world.HUD()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, hud)
}

func (s *Server) handleGetPersonnel(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	rep := s.world.Personnel()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, rep)
}

// handleGetFacilityCatalog returns facility templates in catalog order.
// ?types=a,b restricts the list to purchasable templates of those slot types.
func (s *Server) handleGetFacilityCatalog(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat := s.world.Catalog
	names := cat.FacilityNames()
	if types := r.URL.Query().Get("types"); types != "" {
		names = cat.PossibleFromTypes(strings.Split(types, ","))
	}
	defs := make([]game.FacilityDef, 0, len(names))
	for _, name := range names {
		if def, ok := cat.Facility(name); ok {
			defs = append(defs, *def)
		}
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleGetShipCatalog(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cat := s.world.Catalog
	defs := make([]game.ShipDef, 0)
	for _, name := range cat.ShipNames() {
		if def, ok := cat.Ship(name); ok {
			defs = append(defs, *def)
		}
	}
	writeJSON(w, http.StatusOK, defs)
}

// handleShipStaff moves workers between the pool and a ship's crew.
func (s *Server) handleShipStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req StaffRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	overflow, err := s.world.ChangeShipStaff(id, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	ship, _ := s.world.Ship(id)
	writeJSON(w, http.StatusOK, StaffResponse{Overflow: overflow, Ship: ship.Snapshot()})
}

func (s *Server) handleShipRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req RepairRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.RepairShip(id, req.Staff); err != nil {
		writeError(w, err)
		return
	}
	s.respondShip(w, id)
}

func (s *Server) handleShipPark(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.world.ParkShip(id); err != nil {
		writeError(w, err)
		return
	}
	s.respondShip(w, id)
}

func (s *Server) handleShipUnpark(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.UnparkShip(id); err != nil {
		writeError(w, err)
		return
	}
	s.respondShip(w, id)
}

// handleBuildFacility buys a facility and starts construction.
func (s *Server) handleBuildFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req BuildRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.world.BuildFacility(id, req.Name, req.Position, req.Staff)
	if err != nil {
		writeError(w, err)
		return
	}
	snap := f.Snapshot()
	s.publish("facility_built", s.world.ID, snap)
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleSellFacility(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	fid, ok := urlID(w, r, "fid")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.SellFacility(id, fid); err != nil {
		writeError(w, err)
		return
	}
	s.respondShip(w, id)
}

func (s *Server) handleFacilityStaff(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	fid, ok := urlID(w, r, "fid")
	if !ok {
		return
	}
	var req StaffRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	overflow, err := s.world.ChangeFacilityStaff(id, fid, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	ship, _ := s.world.Ship(id)
	writeJSON(w, http.StatusOK, StaffResponse{Overflow: overflow, Ship: ship.Snapshot()})
}

func (s *Server) handleFacilityRepair(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	fid, ok := urlID(w, r, "fid")
	if !ok {
		return
	}
	var req RepairRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.RepairFacility(id, fid, req.Staff); err != nil {
		writeError(w, err)
		return
	}
	s.respondShip(w, id)
}

func (s *Server) handleFacilityDisable(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	fid, ok := urlID(w, r, "fid")
	if !ok {
		return
	}
	var req DisableRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.world.SetFacilityDisabled(id, fid, req.Disabled); err != nil {
		writeError(w, err)
		return
	}
	s.respondShip(w, id)
}

// respondShip writes the ship snapshot and pushes it to clients.
// Caller must hold mu.
func (s *Server) respondShip(w http.ResponseWriter, id uint32) {
	ship, ok := s.world.Ship(id)
	if !ok {
		http.Error(w, "Ship not found", http.StatusNotFound)
		return
	}
	snap := ship.Snapshot()
	s.publish("ship_updated", s.world.ID, snap)
	writeJSON(w, http.StatusOK, snap)
}

// handleSave stores the World in a named slot.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Save store offline", http.StatusServiceUnavailable)
		return
	}
	slot := chi.URLParam(r, "slot")

	s.mu.RLock()
	data, err := game.SaveWorld(s.world)
	info := storage.SaveInfo{Slot: slot, WorldID: s.world.ID, Day: s.world.Clock.Day, Hour: s.world.Clock.Hour}
	s.mu.RUnlock()
	if err != nil {
		writeError(w, err)
		return
	}

	info, err = s.store.Put(r.Context(), info, data)
	if err != nil {
		s.log.WithError(err).WithField("slot", slot).Error("Save failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleLoad replaces the World with a stored slot.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Save store offline", http.StatusServiceUnavailable)
		return
	}
	slot := chi.URLParam(r, "slot")

	rec, err := s.store.Get(r.Context(), slot)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	world, err := game.LoadWorld(s.world.Catalog, rec.Data, s.log)
	if err != nil {
		writeError(w, err)
		return
	}
	s.world = world
	s.log.WithField("slot", slot).Info("World loaded")
	writeJSON(w, http.StatusOK, s.world.Snapshot())
}

// handleDeleteSave empties a save slot.
func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "Save store offline", http.StatusServiceUnavailable)
		return
	}
	slot := chi.URLParam(r, "slot")
	if err := s.store.Delete(r.Context(), slot); err != nil {
		writeError(w, err)
		return
	}
	s.log.WithField("slot", slot).Info("Save deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []storage.SaveInfo{})
		return
	}
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleQuickSave(w http.ResponseWriter, r *http.Request) {
	if err := s.QuickSave(); err != nil {
		s.log.WithError(err).Error("Quick save failed")
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuickLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.QuickLoad(); err != nil {
		writeError(w, err)
		return
	}
	s.mu.RLock()
	snap := s.world.Snapshot()
	s.mu.RUnlock()
	writeJSON(w, http.StatusOK, snap)
}
