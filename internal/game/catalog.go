/*
Package game
File: catalog.go
Description:
    Loads the Definition Catalog from YAML. The catalog is built once at
    startup and never mutated afterwards, so concurrent readers need no lock.

    Loading is best-effort: a template missing required fields is logged and
    defaulted rather than rejected. Only an unreadable document is an error.
*/

package game

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Catalog is the read-only, name-keyed template table.
type Catalog struct {
	Balance Balance

	facilities    map[string]*FacilityDef
	facilityOrder []string
	ships         map[string]*ShipDef
	shipOrder     []string
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string, log logrus.FieldLogger) (*Catalog, error) {
	// 1. Read the YAML file
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseCatalog(f, log)
}

// ParseCatalog builds a catalog from a YAML document.
func ParseCatalog(data []byte, log logrus.FieldLogger) (*Catalog, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	// 1. Unmarshal into the CatalogDoc struct
	var doc CatalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %v: %w", err, ErrMalformedConfig)
	}

	c := &Catalog{
		Balance:    doc.BalanceConfig,
		facilities: make(map[string]*FacilityDef),
		ships:      make(map[string]*ShipDef),
	}

	// 2. Index facility templates, defaulting what is missing
	for i := range doc.Facilities {
		def := doc.Facilities[i]
		if def.Name == "" {
			log.WithField("index", i).Warn("catalog: facility without a name skipped")
			continue
		}
		if _, dup := c.facilities[def.Name]; dup {
			log.WithField("facility", def.Name).Warn("catalog: duplicate facility, keeping first")
			continue
		}
		if def.DisplayName == "" {
			log.WithField("facility", def.Name).Warn("catalog: facility missing display_name")
			def.DisplayName = def.Name
		}
		if def.StaffPositions < def.StaffRequired {
			log.WithFields(logrus.Fields{
				"facility":        def.Name,
				"staff_required":  def.StaffRequired,
				"staff_positions": def.StaffPositions,
			}).Warn("catalog: staff_positions below staff_required, raising")
			def.StaffPositions = def.StaffRequired
		}
		c.facilities[def.Name] = &def
		c.facilityOrder = append(c.facilityOrder, def.Name)
	}

	// 3. Index ship templates
	for i := range doc.Ships {
		def := doc.Ships[i]
		if def.Name == "" {
			log.WithField("index", i).Warn("catalog: ship without a name skipped")
			continue
		}
		if _, dup := c.ships[def.Name]; dup {
			log.WithField("ship", def.Name).Warn("catalog: duplicate ship, keeping first")
			continue
		}
		if def.DisplayName == "" {
			def.DisplayName = def.Name
		}
		if def.HullMax <= 0 {
			log.WithField("ship", def.Name).Warn("catalog: ship missing hull_max")
		}
		for _, fname := range def.Defaults {
			if _, ok := c.facilities[fname]; !ok {
				log.WithFields(logrus.Fields{"ship": def.Name, "facility": fname}).
					Warn("catalog: default facility not defined")
			}
		}
		c.ships[def.Name] = &def
		c.shipOrder = append(c.shipOrder, def.Name)
	}

	// 4. Defaults if YAML is missing configuration
	if c.Balance.HourTime == 0 {
		c.Balance.HourTime = 1000
	}

	return c, nil
}
