package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetlog/internal/core"
)

func sampleTrips() []core.Trip {
	return []core.Trip{
		{Meta: core.Meta{ID: 1}, DriverID: 1, VehicleID: 1, Date: "2024-03-01", Distance: 42.5, Category: core.Business},
		{Meta: core.Meta{ID: 2}, DriverID: 2, VehicleID: 2, Date: "2024-03-02", Distance: 61.0, Category: core.Business},
		{Meta: core.Meta{ID: 3}, DriverID: 1, VehicleID: 1, Date: "2024-03-03", Distance: 42.5, Category: core.Private},
		{Meta: core.Meta{ID: 4}, DriverID: 3, VehicleID: 3, Date: "2024-03-05", Distance: 24.8, Category: core.Business},
		{Meta: core.Meta{ID: 5}, DriverID: 2, VehicleID: 2, Date: "2024-03-08", Distance: 61.0, Category: core.Private},
	}
}

func TestFilterEmptyIsIdentity(t *testing.T) {
	trips := sampleTrips()
	got := Filter{}.Apply(trips)
	assert.Equal(t, trips, got)
	assert.True(t, Filter{}.IsZero())
}

func TestFilterDateRange(t *testing.T) {
	got := Filter{StartDate: "2024-03-02", EndDate: "2024-03-05"}.Apply(sampleTrips())
	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 3, 4}, ids(got))
}

func TestFilterDateBoundsAreInclusive(t *testing.T) {
	got := Filter{StartDate: "2024-03-01", EndDate: "2024-03-01"}.Apply(sampleTrips())
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilterByDriverVehicleCategory(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"driver", Filter{DriverID: 1}, []int{1, 3}},
		{"vehicle", Filter{VehicleID: 2}, []int{2, 5}},
		{"category", Filter{Category: core.Private}, []int{3, 5}},
		{"combined", Filter{DriverID: 2, Category: core.Business}, []int{2}},
		{"no match", Filter{DriverID: 1, Category: core.Business, StartDate: "2024-03-02"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(sampleTrips())))
		})
	}
}

// Every result is a subsequence of the input: order preserved, every
// element satisfying all active predicates.
func TestFilterProducesOrderedSubsequence(t *testing.T) {
	trips := sampleTrips()
	filters := []Filter{
		{},
		{StartDate: "2024-03-02"},
		{EndDate: "2024-03-03"},
		{DriverID: 2},
		{Category: core.Business},
		{StartDate: "2024-03-01", EndDate: "2024-03-08", VehicleID: 1, Category: core.Private},
	}
	for _, f := range filters {
		got := f.Apply(trips)
		i := 0
		for _, tr := range got {
			for i < len(trips) && trips[i].ID != tr.ID {
				i++
			}
			require.Less(t, i, len(trips), "result %d not a subsequence under %+v", tr.ID, f)
			i++
		}
	}
}

func ids(trips []core.Trip) []int {
	out := make([]int, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.ID)
	}
	return out
}
