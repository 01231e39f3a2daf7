/*
Package config
File: config.go
Description:
    Server settings. Values start from Default(), are overlaid by an
    optional YAML file, and finally by STATION_* environment variables.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything main needs to start the server.
type Config struct {
	Port         string        `yaml:"port"`          // e.g. ":8081"
	CatalogPath  string        `yaml:"catalog_path"`  // definition catalog YAML
	SavePath     string        `yaml:"save_path"`     // quick-save file
	DBPath       string        `yaml:"db_path"`       // SQLite save slots
	HourTime     uint32        `yaml:"hour_time"`     // ms per simulated hour; 0 keeps the catalog's value
	TickInterval time.Duration `yaml:"tick_interval"` // how often the heartbeat polls the clock
	ActionRate   float64       `yaml:"action_rate"`   // action requests per second per client
	ActionBurst  int           `yaml:"action_burst"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:         ":8081",
		CatalogPath:  "catalog.yaml",
		SavePath:     "saves/quick.save",
		DBPath:       "saves/station.db",
		TickInterval: 100 * time.Millisecond,
		ActionRate:   5,
		ActionBurst:  10,
	}
}

// Load builds the config from defaults, the YAML file at path (skipped if
// it does not exist) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	// 1. Read the YAML file
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// 2. Environment overrides
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	// 3. Sanity checks
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.ActionBurst < 0 {
		return fmt.Errorf("action_burst must not be negative, got %d", c.ActionBurst)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("STATION_PORT"); ok {
		if _, err := strconv.Atoi(v); err == nil {
			v = ":" + v
		}
		c.Port = v
	}
	if v, ok := lookup("STATION_CATALOG"); ok {
		c.CatalogPath = v
	}
	if v, ok := lookup("STATION_SAVE"); ok {
		c.SavePath = v
	}
	if v, ok := lookup("STATION_DB"); ok {
		c.DBPath = v
	}
	if v, ok := lookup("STATION_HOUR_TIME"); ok {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return fmt.Errorf("STATION_HOUR_TIME: %w", err)
		}
		c.HourTime = uint32(n)
	}
	if v, ok := lookup("STATION_TICK"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STATION_TICK: %w", err)
		}
		c.TickInterval = d
	}
	if v, ok := lookup("STATION_ACTION_RATE"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STATION_ACTION_RATE: %w", err)
		}
		c.ActionRate = r
	}
	return nil
}
