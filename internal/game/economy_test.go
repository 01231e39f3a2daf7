package game

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameSeedsWorld(t *testing.T) {
	w := testGame(t)

	require.Len(t, w.Ships, 1)
	station := w.Ships[0]
	assert.Equal(t, uint32(1), station.ID)
	assert.Equal(t, "home", station.Location)
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, station.Position)
	assert.Equal(t, 1000, w.Credits())
	assert.Equal(t, 50, w.Population)
	assert.Equal(t, 19, w.Staff, "one worker went to the core")
	assert.True(t, station.Working)
	assert.NotEmpty(t, w.ID)
}

func TestRunUpdatesGatesOnHourTime(t *testing.T) {
	w := testGame(t)

	assert.Nil(t, w.RunUpdates(100), "exactly one hour is not yet past")
	rep := w.RunUpdates(101)
	require.NotNil(t, rep)
	assert.Equal(t, uint32(1), rep.Hour)

	assert.Nil(t, w.RunUpdates(150))
	assert.Nil(t, w.RunUpdates(201))
	rep = w.RunUpdates(202)
	require.NotNil(t, rep)
	assert.Equal(t, uint32(2), rep.Hour)
}

func TestDayRollsOverAndSettlesAccounts(t *testing.T) {
	w := testGame(t)
	station := w.Ships[0]
	_, err := station.GiveFacility(w.Catalog, "shop")
	require.NoError(t, err)

	for i := 1; i < HoursPerDay; i++ {
		rep := w.AdvanceHour(uint64(i))
		require.Nil(t, rep.Accounts, "hour %d", i)
	}
	rep := w.AdvanceHour(HoursPerDay)
	require.NotNil(t, rep.Accounts)
	assert.Equal(t, uint32(1), rep.Day)
	assert.Equal(t, uint32(0), rep.Hour)
	assert.Equal(t, DailyAccounts{Day: 1, Income: 100, Expenses: 30, Paid: 30}, *rep.Accounts)
	assert.Equal(t, 1070, w.Credits())
}

func TestSettleAccountsNeverOverdraws(t *testing.T) {
	log, hook := test.NewNullLogger()
	w := NewWorld(testCatalog(t), log)
	s, err := w.SpawnShip("hauler", false)
	require.NoError(t, err)
	_, err = s.GiveFacility(w.Catalog, "reactor")
	require.NoError(t, err)
	w.Resources.Add(Credits, 20)

	acc := w.SettleAccounts()
	assert.Equal(t, 50, acc.Expenses)
	assert.Equal(t, 20, acc.Paid)
	assert.Equal(t, 30, acc.Shortfall)
	assert.Equal(t, 0, w.Credits())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestSettleAccountsSkipsIdleFacilities(t *testing.T) {
	w := testGame(t)
	station := w.Ships[0]
	shop, err := station.GiveFacility(w.Catalog, "shop")
	require.NoError(t, err)
	shop.SetDisabled(true)

	acc := w.SettleAccounts()
	assert.Zero(t, acc.Income)
	assert.Zero(t, acc.Expenses)
	assert.Equal(t, 1000, w.Credits())
}

func TestDestroyedShipsAreRemoved(t *testing.T) {
	w := testGame(t)
	hauler, err := w.SpawnShip("hauler", false)
	require.NoError(t, err)
	_, err = w.ParkShip(hauler.ID)
	require.NoError(t, err)
	_, err = hauler.GiveFacility(w.Catalog, "reactor")
	require.NoError(t, err)
	lab, err := hauler.GiveFacility(w.Catalog, "lab")
	require.NoError(t, err)
	cargo := hauler.Cargo

	hauler.DamageHull(1000)
	rep := w.AdvanceHour(1)

	assert.Equal(t, []uint32{hauler.ID}, rep.Removed)
	require.Len(t, rep.Ships, 1, "a wrecked ship is not ticked")
	assert.Equal(t, uint32(1), rep.Ships[0].ShipID)
	assert.Zero(t, cargo.Get("research"), "nothing produced")
	assert.Zero(t, lab.LastProduction)
	require.Len(t, w.Ships, 1)
	assert.Equal(t, uint32(1), w.Ships[0].ID)
	assert.Empty(t, w.Parking.Taken(), "parking spot freed")
	assert.Nil(t, hauler.Cargo, "released")

	next, err := w.SpawnShip("hauler", false)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), next.ID, "ship ids are not reused")
}

func TestMissionStaffReturnsToPool(t *testing.T) {
	w := testGame(t)
	f, err := w.BuildFacility(1, "mill", Vector2{}, 3)
	require.NoError(t, err)
	assert.Equal(t, 16, w.Staff)

	rep := w.AdvanceHour(1)
	assert.Zero(t, rep.StaffReturned)
	rep = w.AdvanceHour(2)
	assert.Equal(t, 3, rep.StaffReturned)
	assert.Equal(t, 19, w.Staff)
	assert.False(t, f.UnderConstruction())
	assert.False(t, f.Working, "built but unstaffed")
}
