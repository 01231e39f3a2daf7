package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLot() *ParkingLot {
	return NewParkingLot(ParkingDef{
		Start: Vector3{X: 5},
		Delta: Vector3{X: 10, Y: 20},
	})
}

func TestParkingFillsColumnsFirst(t *testing.T) {
	p := testLot()
	assert.Equal(t, Vector3{X: 5}, p.NextSpot())
	assert.Equal(t, Vector3{X: 5, Y: 20}, p.NextSpot())

	for i := 2; i < ParkingWidth; i++ {
		p.NextSpot()
	}
	assert.Equal(t, Vector3{X: 15}, p.NextSpot(), "second row")
}

func TestParkingClaimAndVacate(t *testing.T) {
	p := testLot()
	spot := Vector3{X: 5, Y: 40}
	assert.Equal(t, spot, p.Claim(spot))
	assert.Equal(t, Vector3{X: 5}, p.Claim(spot), "taken spot falls back to the first free one")

	p.Vacate(spot)
	p.Vacate(Vector3{X: 999})
	assert.Equal(t, []Vector3{{X: 5}}, p.Taken())
	assert.Equal(t, Vector3{X: 5, Y: 20}, p.NextSpot())
}

func TestParkingFull(t *testing.T) {
	p := testLot()
	for i := 0; i < ParkingWidth*ParkingDepth; i++ {
		require.NotEqual(t, NoSpot, p.NextSpot(), "spot %d", i)
	}
	assert.Equal(t, NoSpot, p.NextSpot())
	assert.Len(t, p.Taken(), ParkingWidth*ParkingDepth)
}
