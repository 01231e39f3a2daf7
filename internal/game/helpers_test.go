package game

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
balance:
  starting_credits: 1000
  starting_staff: 20
  starting_population: 50
  hour_time: 100
  parking:
    start: {x: 0, y: 0, z: 0}
    delta: {x: 10, y: 20, z: 0}
  starting_ships:
    - name: station
      location: home
      position: {x: 1, y: 2, z: 3}

facilities:
  - name: core
    display_name: Core
    type: core
    unique: true
    officer: true
    build_time: 10
    staff_required: 1
    staff_positions: 2
    housing: 5
  - name: reactor
    display_name: Reactor
    type: power
    build_time: 3
    repair_time: 2
    staff_positions: 2
    energy_output: 100
    operating_cost: 50
    cost:
      - {name: credits, amount: 300}
  - name: lab
    display_name: Lab
    type: industrial
    build_time: 4
    staff_positions: 2
    energy_draw: 60
    provides:
      - {name: research, amount: 1}
  - name: mill
    display_name: Mill
    type: industrial
    build_time: 2
    work_time: 5
    staff_required: 2
    staff_positions: 4
    energy_draw: 10
    storage: 50
    upkeep:
      - {name: ore, amount: 2}
    provides:
      - {name: steel, amount: 1}
    cost:
      - {name: credits, amount: 200}
  - name: shop
    display_name: Shop
    type: commercial
    singleton: true
    build_time: 1
    income: 100
    operating_cost: 30
    cost:
      - {name: credits, amount: 100}

ships:
  - name: station
    display_name: Station
    hull_max: 1000
    housing: 10
    storage_capacity: 100
    crew_positions: 2
    repair_time: 3
    slots:
      - {type: core, count: 1}
      - {type: power, count: 2}
      - {type: industrial, count: 3}
      - {type: commercial, count: 1}
    default_facilities: [core]
  - name: hauler
    display_name: Hauler
    hull_max: 100
    crew_positions: 2
    crew_required: 1
    slots:
      - {type: power, count: 1}
      - {type: industrial, count: 2}
`

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := ParseCatalog([]byte(testCatalogYAML), quietLogger())
	require.NoError(t, err)
	return cat
}

func testGame(t *testing.T) *World {
	t.Helper()
	w, err := NewGame(testCatalog(t), quietLogger())
	require.NoError(t, err)
	return w
}

// emptyHauler is a hauler with no facilities and no crew requirement met.
func emptyHauler(t *testing.T, cat *Catalog) *Ship {
	t.Helper()
	s, err := NewShipByName(cat, "hauler", 1, false)
	require.NoError(t, err)
	return s
}
