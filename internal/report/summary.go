package report

import "fleetlog/internal/core"

// Summary aggregates a trip collection, partitioned by category.
// Distances are raw float sums; rounding is the caller's concern.
type Summary struct {
	TotalTrips       int     `json:"totalTrips"`
	TotalDistance    float64 `json:"totalDistance"`
	BusinessTrips    int     `json:"businessTrips"`
	PrivateTrips     int     `json:"privateTrips"`
	BusinessDistance float64 `json:"businessDistance"`
	PrivateDistance  float64 `json:"privateDistance"`
}

// Summarize computes the summary over the given trips, typically a
// pre-filtered collection.
func Summarize(trips []core.Trip) Summary {
	var s Summary
	s.TotalTrips = len(trips)
	for _, t := range trips {
		s.TotalDistance += t.Distance
		switch t.Category {
		case core.Business:
			s.BusinessTrips++
			s.BusinessDistance += t.Distance
		case core.Private:
			s.PrivateTrips++
			s.PrivateDistance += t.Distance
		}
	}
	return s
}
