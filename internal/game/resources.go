/*
Package game
File: resources.go
Description:
    The resource ledger. A ResourceList is an ordered set of named quantities
    (commodities, credits). The same type is used for a ship's cargo hold,
    the player treasury, and a facility's upkeep/production recipes.
*/

package game

import "fmt"

// ResourceEntry is a single named quantity.
type ResourceEntry struct {
	Name   string `json:"name" yaml:"name"`
	Amount int    `json:"amount" yaml:"amount"`
}

// ResourceList keeps insertion order so the UI can list holdings stably.
type ResourceList struct {
	Entries []ResourceEntry
}

// NewResourceList builds a list from entries, combining duplicates.
func NewResourceList(entries ...ResourceEntry) *ResourceList {
	l := &ResourceList{}
	for _, e := range entries {
		l.Add(e.Name, e.Amount)
	}
	return l
}

func (l *ResourceList) find(name string) int {
	for i := range l.Entries {
		if l.Entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Add increases an entry, inserting it at the end if absent.
// Non-positive amounts are ignored.
func (l *ResourceList) Add(name string, amount int) {
	if l == nil || amount <= 0 {
		return
	}
	if idx := l.find(name); idx >= 0 {
		l.Entries[idx].Amount += amount
		return
	}
	l.Entries = append(l.Entries, ResourceEntry{Name: name, Amount: amount})
}

// Remove decreases an entry. Nothing is removed if the holding is too small.
func (l *ResourceList) Remove(name string, amount int) error {
	if l == nil || amount <= 0 {
		return nil
	}
	idx := l.find(name)
	if idx < 0 || l.Entries[idx].Amount < amount {
		return fmt.Errorf("%s: need %d, have %d: %w", name, amount, l.Get(name), ErrInsufficientResource)
	}
	l.Entries[idx].Amount -= amount
	return nil
}

// Get returns the amount held, 0 if absent.
func (l *ResourceList) Get(name string) int {
	if l == nil {
		return 0
	}
	if idx := l.find(name); idx >= 0 {
		return l.Entries[idx].Amount
	}
	return 0
}

// Merge adds every entry of src into l.
func (l *ResourceList) Merge(src *ResourceList) {
	if l == nil || src == nil {
		return
	}
	for _, e := range src.Entries {
		l.Add(e.Name, e.Amount)
	}
}

// Has reports whether every entry of req is covered by l.
func (l *ResourceList) Has(req *ResourceList) bool {
	if req == nil {
		return true
	}
	for _, e := range req.Entries {
		if e.Amount > 0 && l.Get(e.Name) < e.Amount {
			return false
		}
	}
	return true
}

// Consume removes every entry of req, or nothing at all if any is short.
func (l *ResourceList) Consume(req *ResourceList) error {
	if !l.Has(req) {
		return fmt.Errorf("consume: %w", ErrInsufficientResource)
	}
	if req == nil {
		return nil
	}
	for _, e := range req.Entries {
		if err := l.Remove(e.Name, e.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent copy.
func (l *ResourceList) Clone() *ResourceList {
	if l == nil {
		return &ResourceList{}
	}
	out := &ResourceList{Entries: make([]ResourceEntry, len(l.Entries))}
	copy(out.Entries, l.Entries)
	return out
}

// Names returns entry names in insertion order.
func (l *ResourceList) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		names = append(names, e.Name)
	}
	return names
}

// Len is the number of entries, including drained ones.
func (l *ResourceList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Entries)
}
