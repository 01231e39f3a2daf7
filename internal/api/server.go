/*
Package api
File: server.go
Description:
    The Server owns the running World and everything that touches it from
    outside the simulation: the HTTP router, the heartbeat entry point, the
    save store and the WebSocket hub.

    Thread Safety: every access to the World goes through mu. Readers take
    the read lock; the heartbeat and every action take the write lock.
*/

package api

import (
	"errors"
	"io/fs"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/everforgeworks/station-economy/internal/game"
	"github.com/everforgeworks/station-economy/internal/storage"
)

// Options are the Server's optional collaborators. Zero values disable them.
type Options struct {
	Store       *storage.SaveStore // slot saves; nil disables /api/save and /api/load
	Hub         *Hub               // event push; nil disables broadcasting
	SavePath    string             // quick-save file
	ActionRate  float64            // action requests per second per client; <= 0 is unlimited
	ActionBurst int
	Log         logrus.FieldLogger
}

// Server serves one World.
type Server struct {
	mu    sync.RWMutex
	world *game.World

	store    *storage.SaveStore
	hub      *Hub
	savePath string
	limiters *ipLimiters
	log      logrus.FieldLogger
}

// NewServer wraps world.
func NewServer(world *game.World, opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	limit := rate.Limit(opts.ActionRate)
	if opts.ActionRate <= 0 {
		limit = rate.Inf
	}
	burst := opts.ActionBurst
	if burst <= 0 {
		burst = 1
	}
	return &Server{
		world:    world,
		store:    opts.Store,
		hub:      opts.Hub,
		savePath: opts.SavePath,
		limiters: newIPLimiters(limit, burst),
		log:      log.WithField("component", "api"),
	}
}

// Tick is called by the heartbeat with a real-time millisecond counter.
// When an hour elapses the report and a fresh HUD are broadcast.
func (s *Server) Tick(now uint64) *game.HourReport {
	s.mu.Lock()
	rep := s.world.RunUpdates(now)
	var hud game.HUDSnapshot
	worldID := s.world.ID
	if rep != nil {
		hud = s.world.HUD()
	}
	s.mu.Unlock()

	if rep == nil {
		return nil
	}
	s.publish("hour", worldID, rep)
	if rep.Accounts != nil {
		s.publish("accounts", worldID, rep.Accounts)
	}
	s.publish("hud", worldID, hud)
	return rep
}

// ReloadCatalog swaps the World's catalog (SIGHUP hot reload).
func (s *Server) ReloadCatalog(cat *game.Catalog) {
	s.mu.Lock()
	s.world.SetCatalog(cat)
	s.mu.Unlock()
	s.log.Info("Catalog reloaded")
}

// QuickSave writes the World to the quick-save file.
func (s *Server) QuickSave() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return game.SaveWorldFile(s.world, s.savePath)
}

// QuickLoad replaces the World with the quick-save file's contents.
func (s *Server) QuickLoad() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := game.LoadWorldFile(s.world.Catalog, s.savePath, s.log)
	if err != nil {
		return err
	}
	s.world = w
	return nil
}

func (s *Server) publish(msgType, sender string, payload any) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(msgType, sender, payload)
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Information Endpoints
		r.Get("/world", s.handleGetWorld)
		r.Get("/ships", s.handleGetShips)
		r.Get("/ships/{id}", s.handleGetShip)
		r.Get("/ships/{id}/slots", s.handleGetSlots)
		r.Get("/hud", s.handleGetHUD)
		r.Get("/personnel", s.handleGetPersonnel)
		r.Get("/catalog/facilities", s.handleGetFacilityCatalog)
		r.Get("/catalog/ships", s.handleGetShipCatalog)
		r.Get("/saves", s.handleListSaves)

		// Action Endpoints
		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Post("/ships/{id}/staff", s.handleShipStaff)
			r.Post("/ships/{id}/repair", s.handleShipRepair)
			r.Post("/ships/{id}/park", s.handleShipPark)
			r.Post("/ships/{id}/unpark", s.handleShipUnpark)
			r.Post("/ships/{id}/facilities", s.handleBuildFacility)
			r.Delete("/ships/{id}/facilities/{fid}", s.handleSellFacility)
			r.Post("/ships/{id}/facilities/{fid}/staff", s.handleFacilityStaff)
			r.Post("/ships/{id}/facilities/{fid}/repair", s.handleFacilityRepair)
			r.Post("/ships/{id}/facilities/{fid}/disable", s.handleFacilityDisable)
			r.Post("/save/{slot}", s.handleSave)
			r.Delete("/save/{slot}", s.handleDeleteSave)
			r.Post("/load/{slot}", s.handleLoad)
			r.Post("/quicksave", s.handleQuickSave)
			r.Post("/quickload", s.handleQuickLoad)
		})
	})

	// Real-Time WebSocket Endpoint
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		if s.hub == nil {
			http.Error(w, "Real-time hub offline", http.StatusServiceUnavailable)
			return
		}
		ServeWs(s.hub, w, r)
	})

	return r
}

// corsMiddleware lets browser clients on other origins call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ipLimiters hands out one token bucket per client address.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiters(limit rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.limiters.get(ip).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound), errors.Is(err, storage.ErrSlotNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnknownFacilityType), errors.Is(err, game.ErrUnknownShipType):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrInsufficientResource):
		return http.StatusPaymentRequired
	case errors.Is(err, game.ErrNotPurchasable):
		return http.StatusForbidden
	case errors.Is(err, game.ErrSlotFull), errors.Is(err, game.ErrSingleton), errors.Is(err, game.ErrMissionActive):
		return http.StatusConflict
	case errors.Is(err, game.ErrMalformedConfig):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
