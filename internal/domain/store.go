package domain

import (
	"fmt"
	"time"
)

// StoreKey identifies a catalogued outlet by brand code and store number, e.g. {"l", 5}.
type StoreKey struct {
	Brand  string
	Number int
}

func (k StoreKey) String() string {
	return fmt.Sprintf("%s%d", k.Brand, k.Number)
}

// Represents one retail outlet from the static catalog.
type Store struct {
	Key       StoreKey
	BrandName string
	Address   string
	Location  Location
	Hours     Hours
}

// Title is the human-readable name shown in itineraries.
func (s Store) Title() string {
	if s.Address == "" {
		return fmt.Sprintf("%s %d", s.BrandName, s.Key.Number)
	}
	return fmt.Sprintf("%s %d - %s", s.BrandName, s.Key.Number, s.Address)
}

// Stop converts the store into a routable stop labelled with its title.
func (s Store) Stop() Stop {
	return Stop{Label: s.Title(), Location: s.Location}
}

// OpenAt reports whether the store is open at t, evaluated in loc.
func (s Store) OpenAt(t time.Time, loc *time.Location) bool {
	if loc != nil {
		t = t.In(loc)
	}
	return IsOpenAt(s.Hours.For(t.Weekday()), t)
}
