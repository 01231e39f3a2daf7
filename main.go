/*
Package main
File: main.go
Description: Server entry point. Loads the definition catalog, restores or
starts a world, runs the real-time WebSocket hub and the heartbeat that
drives the station economy, and serves the HTTP API.
*/

package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/everforgeworks/station-economy/internal/api"
	"github.com/everforgeworks/station-economy/internal/config"
	"github.com/everforgeworks/station-economy/internal/game"
	"github.com/everforgeworks/station-economy/internal/logger"
	"github.com/everforgeworks/station-economy/internal/storage"
)

func main() {
	logger.Init()
	log := logger.Log

	// 1. Server settings
	cfgPath := os.Getenv("STATION_CONFIG")
	if cfgPath == "" {
		cfgPath = "server.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Config Fail: %v", err)
	}

	// 2. Load the definition catalog from YAML
	cat, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Catalog Fail: %v", err)
	}

	// 3. Resume the quick save, or start a new game
	world, err := game.LoadWorldFile(cat, cfg.SavePath, log)
	switch {
	case err == nil:
		log.WithField("world", world.ID).Info("Resumed quick save")
	case errors.Is(err, fs.ErrNotExist):
		world, err = game.NewGame(cat, log)
		if err != nil {
			log.Fatalf("New Game Fail: %v", err)
		}
	default:
		log.Fatalf("Quick Save Fail: %v", err)
	}

	// 4. Save slots
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Save Store Fail: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Initialize and start the Real-Time WebSocket Hub
	hub := api.NewHub(log)
	go hub.Run(ctx)

	srv := api.NewServer(world, api.Options{
		Store:       store,
		Hub:         hub,
		SavePath:    cfg.SavePath,
		ActionRate:  cfg.ActionRate,
		ActionBurst: cfg.ActionBurst,
		Log:         log,
	})

	// 6. THE ECONOMY HEARTBEAT
	// Polls the clock; the world advances an hour whenever one is due.
	go func() {
		start := time.Now()
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if rep := srv.Tick(uint64(time.Since(start).Milliseconds())); rep != nil {
					log.WithFields(logrus.Fields{
						"day":     rep.Day,
						"hour":    rep.Hour,
						"removed": len(rep.Removed),
					}).Debug("Hour advanced")
				}
			}
		}
	}()

	// 7. Hot-reload logic: SIGHUP refreshes the catalog without a restart
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGHUP)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigChan:
				log.Info("SIGNAL: Reloading catalog...")
				newCat, err := loadCatalog(cfg)
				if err != nil {
					log.WithError(err).Error("Catalog reload failed, keeping the old one")
					continue
				}
				srv.ReloadCatalog(newCat)
			}
		}
	}()

	// 8. Start the Server
	httpServer := &http.Server{Addr: cfg.Port, Handler: srv.Router()}
	go func() {
		log.Infof("STATION ECONOMY Server live on %s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// 9. Quick save on the way out
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("Shutting down...")

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP shutdown")
	}
	cancel()

	if err := srv.QuickSave(); err != nil {
		log.WithError(err).Error("Quick save failed")
	} else {
		log.WithField("path", cfg.SavePath).Info("Quick saved")
	}
}

func loadCatalog(cfg config.Config) (*game.Catalog, error) {
	cat, err := game.LoadCatalog(cfg.CatalogPath, logger.Log)
	if err != nil {
		return nil, err
	}
	if cfg.HourTime > 0 {
		cat.Balance.HourTime = cfg.HourTime
	}
	return cat, nil
}
