// Package report holds the pure trip-collection transforms: filtering
// and summary aggregation. Nothing here touches a store or produces
// output; both engines take slices and return values.
package report

import "fleetlog/internal/core"

// Filter is a set of optional predicates over trips. The zero value of
// each field means "no constraint"; active predicates are ANDed.
type Filter struct {
	// Inclusive date bounds in YYYY-MM-DD form. Lexicographic
	// comparison on that layout is chronological.
	StartDate string
	EndDate   string

	DriverID  int
	VehicleID int

	Category core.Category
}

// IsZero reports whether no predicate is active.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Apply returns the trips satisfying every active predicate, preserving
// input order. An empty filter returns a copy of the input.
func (f Filter) Apply(trips []core.Trip) []core.Trip {
	out := make([]core.Trip, 0, len(trips))
	for _, t := range trips {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f Filter) matches(t core.Trip) bool {
	if f.StartDate != "" && t.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && t.Date > f.EndDate {
		return false
	}
	if f.DriverID != 0 && t.DriverID != f.DriverID {
		return false
	}
	if f.VehicleID != 0 && t.VehicleID != f.VehicleID {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}
