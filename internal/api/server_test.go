package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everforgeworks/station-economy/internal/game"
	"github.com/everforgeworks/station-economy/internal/logger"
	"github.com/everforgeworks/station-economy/internal/storage"
)

const apiCatalogYAML = `
balance:
  starting_credits: 1000
  starting_staff: 10
  starting_population: 30
  hour_time: 100
  starting_ships:
    - name: station
      location: home

facilities:
  - name: core
    display_name: Core
    type: core
    unique: true
    build_time: 10
    staff_required: 1
    staff_positions: 2
  - name: reactor
    display_name: Reactor
    type: power
    build_time: 2
    staff_positions: 3
    energy_output: 50
    cost:
      - {name: credits, amount: 300}
  - name: shipyard
    display_name: Shipyard
    type: industrial
    build_time: 50
    cost:
      - {name: credits, amount: 5000}

ships:
  - name: station
    display_name: Station
    hull_max: 500
    crew_positions: 1
    slots:
      - {type: core, count: 1}
      - {type: power, count: 1}
      - {type: industrial, count: 1}
    default_facilities: [core]
`

func quietLogger() logrus.FieldLogger {
	return logger.Discard()
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	cat, err := game.ParseCatalog([]byte(apiCatalogYAML), quietLogger())
	require.NoError(t, err)
	world, err := game.NewGame(cat, quietLogger())
	require.NoError(t, err)

	if opts.Store == nil {
		store, err := storage.Open(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		opts.Store = store
	}
	if opts.SavePath == "" {
		opts.SavePath = filepath.Join(t.TempDir(), "quick.save")
	}
	if opts.Log == nil {
		opts.Log = quietLogger()
	}
	return NewServer(world, opts)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestHealthAndCORS(t *testing.T) {
	h := newTestServer(t, Options{}).Router()

	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(t, h, http.MethodOptions, "/api/ships/1/facilities", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetEndpoints(t *testing.T) {
	h := newTestServer(t, Options{}).Router()

	rec := do(t, h, http.MethodGet, "/api/world", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	world := decodeBody[game.WorldSnapshot](t, rec)
	assert.Len(t, world.Ships, 1)
	assert.Equal(t, 9, world.Staff)

	rec = do(t, h, http.MethodGet, "/api/ships/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ship := decodeBody[game.ShipSnapshot](t, rec)
	assert.Equal(t, "station", ship.Name)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/ships/7", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/ships/x", nil).Code)

	rec = do(t, h, http.MethodGet, "/api/hud", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hud := decodeBody[game.HUDSnapshot](t, rec)
	assert.Equal(t, "1,000", hud.CreditsText)

	rec = do(t, h, http.MethodGet, "/api/personnel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, decodeBody[game.PersonnelReport](t, rec).StaffTotal)

	rec = do(t, h, http.MethodGet, "/api/ships/1/slots", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decodeBody[[]SlotInfo](t, rec)
	require.Len(t, slots, 3)
	assert.Equal(t, SlotInfo{Type: "power", Count: 1, Used: 0, Possible: []string{"reactor"}}, slots[1])

	rec = do(t, h, http.MethodGet, "/api/catalog/facilities?types=power,industrial", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]game.FacilityDef](t, rec), 2)

	rec = do(t, h, http.MethodGet, "/api/catalog/ships", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]game.ShipDef](t, rec), 1)
}

func TestBuildAndSellFacility(t *testing.T) {
	srv := newTestServer(t, Options{})
	h := srv.Router()

	rec := do(t, h, http.MethodPost, "/api/ships/1/facilities", BuildRequest{Name: "reactor", Staff: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	f := decodeBody[game.FacilitySnapshot](t, rec)
	assert.Equal(t, game.MissionBuild, f.Mission)
	assert.Equal(t, uint32(2), f.MissionRemaining)
	assert.Equal(t, 700, srv.world.Credits())
	assert.Equal(t, 7, srv.world.Staff)

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/api/ships/1/facilities/%d", f.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[game.ShipSnapshot](t, rec).Facilities, 1)
	assert.Equal(t, 850, srv.world.Credits())
	assert.Equal(t, 9, srv.world.Staff)
}

func TestActionErrorsMapToStatus(t *testing.T) {
	h := newTestServer(t, Options{}).Router()

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"unknown type", "/api/ships/1/facilities", BuildRequest{Name: "nope"}, http.StatusBadRequest},
		{"unique", "/api/ships/1/facilities", BuildRequest{Name: "core"}, http.StatusForbidden},
		{"too expensive", "/api/ships/1/facilities", BuildRequest{Name: "shipyard"}, http.StatusPaymentRequired},
		{"no ship", "/api/ships/4/facilities", BuildRequest{Name: "reactor"}, http.StatusNotFound},
		{"bad json", "/api/ships/1/staff", "{", http.StatusBadRequest},
		{"no facility", "/api/ships/1/facilities/99/staff", StaffRequest{Delta: 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if s, ok := tt.body.(string); ok {
				req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(s))
				rec = httptest.NewRecorder()
				h.ServeHTTP(rec, req)
			} else {
				rec = do(t, h, http.MethodPost, tt.path, tt.body)
			}
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/ships/1/facilities", BuildRequest{Name: "reactor"}).Code)
	rec := do(t, h, http.MethodPost, "/api/ships/1/facilities", BuildRequest{Name: "reactor"})
	assert.Equal(t, http.StatusConflict, rec.Code, "power slot full")
}

func TestStaffEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})
	h := srv.Router()

	rec := do(t, h, http.MethodPost, "/api/ships/1/staff", StaffRequest{Delta: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[StaffResponse](t, rec)
	assert.Equal(t, 2, resp.Overflow)
	assert.Equal(t, 1, resp.Ship.Crew)
	assert.Equal(t, 8, srv.world.Staff)

	core := srv.world.Ships[0].Facilities[0]
	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/ships/1/facilities/%d/staff", core.ID), StaffRequest{Delta: -3})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[StaffResponse](t, rec)
	assert.Equal(t, -2, resp.Overflow)
	assert.False(t, resp.Ship.Working)
	assert.Equal(t, 9, srv.world.Staff)
}

func TestRepairAndDisable(t *testing.T) {
	srv := newTestServer(t, Options{})
	h := srv.Router()
	core := srv.world.Ships[0].Facilities[0]
	path := fmt.Sprintf("/api/ships/1/facilities/%d", core.ID)

	rec := do(t, h, http.MethodPost, path+"/disable", DisableRequest{Disabled: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[game.ShipSnapshot](t, rec).Facilities[0].Disabled)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, path+"/repair", RepairRequest{Staff: 1}).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, path+"/repair", RepairRequest{Staff: 1}).Code)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/ships/1/repair", RepairRequest{}).Code)
	assert.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/ships/1/repair", RepairRequest{}).Code)
}

func TestParkAndUnpark(t *testing.T) {
	srv := newTestServer(t, Options{})
	h := srv.Router()

	rec := do(t, h, http.MethodPost, "/api/ships/1/park", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, game.ParkingLocation, decodeBody[game.ShipSnapshot](t, rec).Location)

	rec = do(t, h, http.MethodPost, "/api/ships/1/unpark", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[game.ShipSnapshot](t, rec).Location)
	assert.Empty(t, srv.world.Parking.Taken())
}

func TestSaveSlots(t *testing.T) {
	srv := newTestServer(t, Options{})
	h := srv.Router()
	worldID := srv.world.ID

	rec := do(t, h, http.MethodPost, "/api/save/alpha", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	info := decodeBody[storage.SaveInfo](t, rec)
	assert.Equal(t, "alpha", info.Slot)
	assert.Equal(t, worldID, info.WorldID)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/ships/1/facilities", BuildRequest{Name: "reactor"}).Code)
	assert.Equal(t, 700, srv.world.Credits())

	rec = do(t, h, http.MethodPost, "/api/load/alpha", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1000, srv.world.Credits())
	assert.Equal(t, worldID, srv.world.ID)

	rec = do(t, h, http.MethodGet, "/api/saves", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]storage.SaveInfo](t, rec), 1)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/load/beta", nil).Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/save/alpha", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/save/alpha", nil).Code)
	rec = do(t, h, http.MethodGet, "/api/saves", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]storage.SaveInfo](t, rec))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/load/alpha", nil).Code)
}

func TestQuickSaveAndLoad(t *testing.T) {
	srv := newTestServer(t, Options{})
	h := srv.Router()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/quickload", nil).Code)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPost, "/api/quicksave", nil).Code)

	srv.world.Staff = 0
	rec := do(t, h, http.MethodPost, "/api/quickload", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9, decodeBody[game.WorldSnapshot](t, rec).Staff)
}

func TestActionsAreRateLimited(t *testing.T) {
	h := newTestServer(t, Options{ActionRate: 0.001, ActionBurst: 2}).Router()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/ships/1/park", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/ships/1/park", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodPost, "/api/ships/1/park", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/world", nil).Code, "reads are not limited")
}

func TestTickPublishes(t *testing.T) {
	hub := NewHub(quietLogger())
	srv := newTestServer(t, Options{Hub: hub})

	assert.Nil(t, srv.Tick(100))
	assert.Empty(t, hub.Broadcast)

	rep := srv.Tick(101)
	require.NotNil(t, rep)
	require.Len(t, hub.Broadcast, 2)

	var msg Message
	require.NoError(t, json.Unmarshal(<-hub.Broadcast, &msg))
	assert.Equal(t, "hour", msg.Type)
	assert.Equal(t, srv.world.ID, msg.Sender)
	assert.NotEmpty(t, msg.ID)
	require.NoError(t, json.Unmarshal(<-hub.Broadcast, &msg))
	assert.Equal(t, "hud", msg.Type)
}

func TestWebSocketReceivesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(quietLogger())
	go hub.Run(ctx)

	srv := newTestServer(t, Options{Hub: hub})
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration races the dial; publish until the client sees one.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish("ping", "system", map[string]int{"n": 1})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "ping", msg.Type)
}

func TestWebSocketWithoutHub(t *testing.T) {
	h := newTestServer(t, Options{}).Router()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/ws", nil).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", game.ErrNotFound), http.StatusNotFound},
		{storage.ErrSlotNotFound, http.StatusNotFound},
		{fmt.Errorf("read: %w", fs.ErrNotExist), http.StatusNotFound},
		{game.ErrUnknownShipType, http.StatusBadRequest},
		{game.ErrInsufficientResource, http.StatusPaymentRequired},
		{game.ErrNotPurchasable, http.StatusForbidden},
		{game.ErrSingleton, http.StatusConflict},
		{game.ErrMissionActive, http.StatusConflict},
		{game.ErrMalformedConfig, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
