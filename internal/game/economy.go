/*
Package game
File: economy.go
Description:
    Handles the economic heartbeat of the world.
    This includes:
    1. Gating simulated hours against real time (RunUpdates).
    2. Removing ships that were destroyed before the hour began.
    3. Ticking every ship in list order and collecting the results.
    4. Removing ships the tick destroyed and returning released mission staff.
    5. Settling daily accounts (income and operating costs) at midnight.
*/

package game

import "github.com/sirupsen/logrus"

// HourReport is everything that happened during one simulated hour.
type HourReport struct {
	Day           uint32         `json:"day"`
	Hour          uint32         `json:"hour"`
	Ships         []TickReport   `json:"ships"`
	Removed       []uint32       `json:"removed,omitempty"`
	StaffReturned int            `json:"staff_returned"`
	Accounts      *DailyAccounts `json:"accounts,omitempty"`
}

// DailyAccounts is the result of settling one day.
type DailyAccounts struct {
	Day       uint32 `json:"day"`
	Income    int    `json:"income"`
	Expenses  int    `json:"expenses"`
	Paid      int    `json:"paid"`
	Shortfall int    `json:"shortfall"`
}

// RunUpdates is the main heartbeat function called by the server loop.
// now is a real-time millisecond counter. At most one hour is advanced per
// call; nil is returned when no hour was due.
func (w *World) RunUpdates(now uint64) *HourReport {
	if !w.Clock.Due(now) {
		return nil
	}
	return w.AdvanceHour(now)
}

// AdvanceHour runs one simulated hour unconditionally.
func (w *World) AdvanceHour(now uint64) *HourReport {
	newDay := w.Clock.Advance(now)
	stamp := w.Clock.Stamp()
	rep := &HourReport{Day: w.Clock.Day, Hour: w.Clock.Hour}

	// 1. Ships wrecked since the last hour leave before they can work
	for _, s := range append([]*Ship(nil), w.Ships...) {
		if s.Destroyed() {
			w.retireShip(rep, s.ID)
		}
	}

	// 2. Tick ships in list order
	var destroyed []uint32
	for _, s := range w.Ships {
		tick := s.RunEconomicTick(stamp)
		for _, out := range tick.Completed {
			rep.StaffReturned += out.StaffReleased
			w.log.WithFields(logrus.Fields{
				"ship":    s.ID,
				"mission": out.Kind,
				"target":  out.TargetID,
			}).Debug("Mission complete")
		}
		if tick.Destroyed {
			destroyed = append(destroyed, s.ID)
		}
		rep.Ships = append(rep.Ships, tick)
	}
	w.Staff += rep.StaffReturned

	// 3. Remove ships the tick destroyed
	for _, id := range destroyed {
		w.retireShip(rep, id)
	}

	// 4. Midnight: settle the books
	if newDay {
		rep.Accounts = w.SettleAccounts()
	}
	return rep
}

// retireShip removes a destroyed ship and records it in rep.
func (w *World) retireShip(rep *HourReport, id uint32) {
	s, ok := w.removeShip(id)
	if !ok {
		return
	}
	rep.Removed = append(rep.Removed, id)
	w.log.WithFields(logrus.Fields{
		"ship": id,
		"name": s.Name,
	}).Warn("Ship destroyed")
}

// SettleAccounts credits the income and debits the operating cost of every
// facility that is currently producing. The debit never takes the treasury
// below zero; whatever cannot be paid is reported as a shortfall.
func (w *World) SettleAccounts() *DailyAccounts {
	acc := &DailyAccounts{Day: w.Clock.Day}
	for _, s := range w.Ships {
		if s.Disabled {
			continue
		}
		for _, f := range s.Facilities {
			if !f.Working || f.Inactive || f.Disabled {
				continue
			}
			acc.Income += f.Income
			acc.Expenses += f.OperatingCost
		}
	}

	w.Resources.Add(Credits, acc.Income)
	acc.Paid = min(acc.Expenses, w.Credits())
	if acc.Paid > 0 {
		_ = w.Resources.Remove(Credits, acc.Paid)
	}
	acc.Shortfall = acc.Expenses - acc.Paid

	entry := w.log.WithFields(logrus.Fields{
		"day":      acc.Day,
		"income":   acc.Income,
		"expenses": acc.Expenses,
	})
	if acc.Shortfall > 0 {
		entry.WithField("shortfall", acc.Shortfall).Warn("Treasury could not cover operating costs")
	} else {
		entry.Info("Daily accounts settled")
	}
	return acc
}
