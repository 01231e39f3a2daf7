package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHUD(t *testing.T) {
	w := testGame(t)
	station := w.Ships[0]

	hud := w.HUD()
	assert.Equal(t, "01/01/2280", hud.Date)
	assert.Equal(t, 1000.0, hud.Hull)
	assert.Equal(t, 1000, hud.Credits)
	assert.Equal(t, "1,000", hud.CreditsText)
	assert.Zero(t, hud.EnergySupply)

	_, err := station.GiveFacility(w.Catalog, "reactor")
	require.NoError(t, err)
	_, err = station.GiveFacility(w.Catalog, "lab")
	require.NoError(t, err)
	assert.Equal(t, 40, w.HUD().EnergySupply)

	_, err = station.GiveFacility(w.Catalog, "lab")
	require.NoError(t, err)
	assert.Equal(t, -20, w.HUD().EnergySupply, "deficit shows negative")
}

func TestHUDWithoutStation(t *testing.T) {
	w := NewWorld(testCatalog(t), quietLogger())
	hud := w.HUD()
	assert.Zero(t, hud.HullMax)
	assert.Equal(t, "0", hud.CreditsText)
}

func TestPersonnel(t *testing.T) {
	w := testGame(t)
	_, err := w.ChangeShipStaff(1, 2)
	require.NoError(t, err)

	rep := w.Personnel()
	assert.Equal(t, PersonnelReport{
		Population: 50,
		Housing:    15,
		StaffTotal: 20,
		Unassigned: 17,
		Assigned:   3,
	}, rep)
}

func TestSnapshotsAreCopies(t *testing.T) {
	w := testGame(t)
	station := w.Ships[0]
	station.Cargo = NewResourceList(ResourceEntry{Name: "ore", Amount: 4})
	f, err := w.BuildFacility(1, "mill", Vector2{X: 2, Y: 3}, 0)
	require.NoError(t, err)

	snap := w.Snapshot()
	require.Len(t, snap.Ships, 1)
	ship := snap.Ships[0]
	require.Len(t, ship.Facilities, 2)
	assert.Equal(t, "01/01/2280 00:00 Day: 0", snap.Date)
	assert.Equal(t, []ResourceEntry{{Name: Credits, Amount: 800}}, snap.Resources)

	mill := ship.Facilities[1]
	assert.Equal(t, f.ID, mill.ID)
	assert.Equal(t, MissionBuild, mill.Mission)
	assert.Equal(t, uint32(2), mill.MissionRemaining)
	assert.Equal(t, []ResourceEntry{{Name: "ore", Amount: 2}}, mill.Upkeep)

	ship.Cargo[0].Amount = 99
	mill.Upkeep[0].Amount = 99
	assert.Equal(t, 4, station.Cargo.Get("ore"))
	assert.Equal(t, 2, f.Upkeep.Get("ore"))
}
