/*
Package game
File: parking.go
Description:
    The parking lot outside the station: a fixed grid of spots laid out from
    a start position and a per-row/per-column delta. Ships claim a spot when
    they arrive and vacate it when they leave.
*/

package game

const (
	ParkingWidth = 10
	ParkingDepth = 10

	// ParkingLocation is the Location of a ship holding a parking spot.
	ParkingLocation = "parking"
)

// NoSpot is returned when the lot is full.
var NoSpot = Vector3{X: -1, Y: -1, Z: -1}

// ParkingLot tracks which grid spots are taken.
type ParkingLot struct {
	Layout ParkingDef
	taken  []Vector3
}

// NewParkingLot creates an empty lot.
func NewParkingLot(layout ParkingDef) *ParkingLot {
	return &ParkingLot{Layout: layout}
}

func (p *ParkingLot) find(spot Vector3) int {
	for i, v := range p.taken {
		if v == spot {
			return i
		}
	}
	return -1
}

// Claim takes spot if it is free, otherwise the next free grid spot.
func (p *ParkingLot) Claim(spot Vector3) Vector3 {
	if p.find(spot) < 0 {
		p.taken = append(p.taken, spot)
		return spot
	}
	return p.NextSpot()
}

// NextSpot claims the first free grid spot, scanning rows along X and
// columns along Y. It returns NoSpot when the grid is full.
func (p *ParkingLot) NextSpot() Vector3 {
	for j := 0; j < ParkingDepth; j++ {
		spot := p.Layout.Start
		spot.X += p.Layout.Delta.X * float64(j)
		for i := 0; i < ParkingWidth; i++ {
			spot.Y = p.Layout.Start.Y + p.Layout.Delta.Y*float64(i)
			if p.find(spot) < 0 {
				p.taken = append(p.taken, spot)
				return spot
			}
		}
	}
	return NoSpot
}

// Vacate frees spot. Unknown spots are ignored.
func (p *ParkingLot) Vacate(spot Vector3) {
	if i := p.find(spot); i >= 0 {
		p.taken = append(p.taken[:i], p.taken[i+1:]...)
	}
}

// Taken returns a copy of the claimed spots in claim order.
func (p *ParkingLot) Taken() []Vector3 {
	return append([]Vector3{}, p.taken...)
}

// Approach is where ships line up before parking.
func (p *ParkingLot) Approach() Vector3 { return p.Layout.Approach }

// Egress is where ships head after leaving the lot.
func (p *ParkingLot) Egress() Vector3 { return p.Layout.Egress }
