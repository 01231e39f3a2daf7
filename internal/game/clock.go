/*
Package game
File: clock.go
Description:
    The simulated calendar. One hour passes every HourTime real
    milliseconds; 24 hours make a day, 30 days a month and 360 days a year.
    Day 0 is 01/01/2280.
*/

package game

import "fmt"

const (
	HoursPerDay  = 24
	DaysPerMonth = 30
	DaysPerYear  = 360
	EpochYear    = 2280
)

// Clock tracks simulated time against a real-time millisecond counter.
type Clock struct {
	Day      uint32
	Hour     uint32
	HourTime uint32 // real milliseconds per simulated hour
	LastHour uint64 // real time of the last advance
}

// Due reports whether a simulated hour has elapsed by now.
func (c *Clock) Due(now uint64) bool {
	return now > c.LastHour+uint64(c.HourTime)
}

// Advance moves forward one hour and reports whether a new day began.
func (c *Clock) Advance(now uint64) bool {
	c.LastHour = now
	c.Hour++
	if c.Hour < HoursPerDay {
		return false
	}
	c.Hour = 0
	c.Day++
	return true
}

// Stamp is a monotonic cycle number (hours since day 0), used for LastProduction.
func (c *Clock) Stamp() uint32 {
	return c.Day*HoursPerDay + c.Hour
}

// FormatDate renders a day number as DD/MM/YYYY.
func FormatDate(day uint32) string {
	return fmt.Sprintf("%02d/%02d/%04d",
		(day%DaysPerYear)%DaysPerMonth+1,
		(day%DaysPerYear)/DaysPerMonth+1,
		EpochYear+day/DaysPerYear)
}

// FormatDateTime renders DD/MM/YYYY HH:00 Day: N.
func FormatDateTime(day, hour uint32) string {
	return fmt.Sprintf("%s %02d:00 Day: %d", FormatDate(day), hour, day)
}

func (c *Clock) String() string {
	return FormatDateTime(c.Day, c.Hour)
}
