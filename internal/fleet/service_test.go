package fleet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fleetlog/internal/core"
	"fleetlog/internal/log"
	"fleetlog/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	drivers := store.New("driver",
		func(d *core.Driver) *core.Meta { return &d.Meta },
		store.WithRecords([]core.Driver{
			{Meta: core.Meta{ID: 1}, Name: "Alice Johnson", Email: "alice@example.com", LicenseNumber: "D-1001"},
			{Meta: core.Meta{ID: 2}, Name: "Bob Smith", Email: "bob@example.com", LicenseNumber: "D-1002"},
		}))
	vehicles := store.New("vehicle",
		func(v *core.Vehicle) *core.Meta { return &v.Meta },
		store.WithRecords([]core.Vehicle{
			{Meta: core.Meta{ID: 1}, Make: "Toyota", Model: "Corolla", Year: 2021, LicensePlate: "AB-123-C"},
			{Meta: core.Meta{ID: 2}, Make: "Ford", Model: "Transit", Year: 2019, LicensePlate: "XY-987-Z"},
		}))
	trips := store.New("trip",
		func(tr *core.Trip) *core.Meta { return &tr.Meta },
		store.WithClone[core.Trip](core.Trip.Clone),
		store.WithRecords([]core.Trip{
			{
				Meta:     core.Meta{ID: 1},
				DriverID: 1, VehicleID: 1,
				Date: "2024-03-01", Time: "08:15",
				StartLocation: "Office", EndLocation: "Airport",
				Distance: 42.5, Category: core.Business,
			},
		}))
	logger := log.New("fleet", slog.NewTextHandler(io.Discard, nil))
	return NewService(drivers, vehicles, trips, logger)
}

func TestDeleteDriverBlockedByTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.DeleteDriver(ctx, 1)
	if !errors.Is(err, ErrReferentialIntegrity) {
		t.Fatalf("DeleteDriver(1) error = %v, want ErrReferentialIntegrity", err)
	}
	if _, err := svc.GetDriver(ctx, 1); err != nil {
		t.Fatalf("driver 1 should survive a blocked delete: %v", err)
	}
}

func TestDeleteDriverUnreferenced(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteDriver(ctx, 2); err != nil {
		t.Fatalf("DeleteDriver(2) = %v", err)
	}
	if _, err := svc.GetDriver(ctx, 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("deleted driver still readable, err = %v", err)
	}
	if got := len(svc.ListDrivers(ctx)); got != 1 {
		t.Fatalf("ListDrivers after delete = %d records, want 1", got)
	}
}

func TestDeleteVehicleBlockedByTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteVehicle(ctx, 1); !errors.Is(err, ErrReferentialIntegrity) {
		t.Fatalf("DeleteVehicle(1) error = %v, want ErrReferentialIntegrity", err)
	}
	if err := svc.DeleteVehicle(ctx, 2); err != nil {
		t.Fatalf("DeleteVehicle(2) = %v", err)
	}
}

func TestDeleteUnblocksAfterTripRemoval(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.DeleteTrip(ctx, 1); err != nil {
		t.Fatalf("DeleteTrip(1) = %v", err)
	}
	if err := svc.DeleteDriver(ctx, 1); err != nil {
		t.Fatalf("DeleteDriver(1) after trip removal = %v", err)
	}
	if err := svc.DeleteVehicle(ctx, 1); err != nil {
		t.Fatalf("DeleteVehicle(1) after trip removal = %v", err)
	}
}

func TestCreateTripRejectsUnknownReferences(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	base := core.Trip{
		DriverID: 1, VehicleID: 1,
		Date: "2024-03-10", Time: "10:30",
		StartLocation: "A", EndLocation: "B",
		Distance: 10, Category: core.Business,
	}

	bad := base
	bad.DriverID = 99
	if _, err := svc.CreateTrip(ctx, bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateTrip with unknown driver: err = %v, want ErrValidation", err)
	}

	bad = base
	bad.VehicleID = 99
	if _, err := svc.CreateTrip(ctx, bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("CreateTrip with unknown vehicle: err = %v, want ErrValidation", err)
	}

	created, err := svc.CreateTrip(ctx, base)
	if err != nil {
		t.Fatalf("CreateTrip valid: %v", err)
	}
	if created.ID != 2 {
		t.Fatalf("created trip id = %d, want 2", created.ID)
	}
}

func TestUpdateTripRejectsUnknownReferences(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	badDriver := 99
	if _, err := svc.UpdateTrip(ctx, 1, core.TripPatch{DriverID: &badDriver}); !errors.Is(err, ErrValidation) {
		t.Fatalf("UpdateTrip unknown driver: err = %v, want ErrValidation", err)
	}
	before, _ := svc.GetTrip(ctx, 1)
	if before.DriverID != 1 {
		t.Fatalf("failed update must not persist, driver_id = %d", before.DriverID)
	}

	okDriver := 2
	updated, err := svc.UpdateTrip(ctx, 1, core.TripPatch{DriverID: &okDriver})
	if err != nil {
		t.Fatalf("UpdateTrip: %v", err)
	}
	if updated.DriverID != 2 {
		t.Fatalf("updated driver_id = %d, want 2", updated.DriverID)
	}
}

func TestUpdateTripRederivesDistanceFromMergedOdometers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start, end := 100.0, 150.0
	created, err := svc.CreateTrip(ctx, core.Trip{
		DriverID: 1, VehicleID: 1,
		Date: "2024-03-10", Time: "10:30",
		StartLocation: "A", EndLocation: "B",
		StartOdometer: &start, EndOdometer: &end,
		Distance: 50, Category: core.Business,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	// Patching one reading recomputes from both merged readings.
	newEnd := 300.0
	updated, err := svc.UpdateTrip(ctx, created.ID, core.TripPatch{EndOdometer: &newEnd})
	if err != nil {
		t.Fatalf("UpdateTrip: %v", err)
	}
	if updated.Distance != 200 {
		t.Fatalf("distance = %v, want 200 (re-derived from 100..300)", updated.Distance)
	}
	if *updated.StartOdometer != 100 || *updated.EndOdometer != 300 {
		t.Fatalf("odometers = %v..%v, want 100..300", *updated.StartOdometer, *updated.EndOdometer)
	}

	// An explicit distance in the patch wins over derivation.
	newStart := 200.0
	explicit := 75.0
	updated, err = svc.UpdateTrip(ctx, created.ID, core.TripPatch{StartOdometer: &newStart, Distance: &explicit})
	if err != nil {
		t.Fatalf("UpdateTrip explicit distance: %v", err)
	}
	if updated.Distance != 75 {
		t.Fatalf("distance = %v, want explicit 75", updated.Distance)
	}

	// A patch not touching the odometers leaves the distance alone.
	note := "detour"
	updated, err = svc.UpdateTrip(ctx, created.ID, core.TripPatch{Notes: &note})
	if err != nil {
		t.Fatalf("UpdateTrip notes: %v", err)
	}
	if updated.Distance != 75 {
		t.Fatalf("distance = %v, want unchanged 75", updated.Distance)
	}
}

func TestUpdateTripRejectsOutOfOrderOdometerPatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	start, end := 100.0, 150.0
	created, err := svc.CreateTrip(ctx, core.Trip{
		DriverID: 1, VehicleID: 1,
		Date: "2024-03-10", Time: "10:30",
		StartLocation: "A", EndLocation: "B",
		StartOdometer: &start, EndOdometer: &end,
		Distance: 50, Category: core.Business,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}

	badEnd := 50.0
	if _, err := svc.UpdateTrip(ctx, created.ID, core.TripPatch{EndOdometer: &badEnd}); !errors.Is(err, ErrValidation) {
		t.Fatalf("out-of-order odometer patch: err = %v, want ErrValidation", err)
	}
	got, _ := svc.GetTrip(ctx, created.ID)
	if got.Distance != 50 || *got.EndOdometer != 150 {
		t.Fatalf("failed update must not persist: %+v", got)
	}
}

func TestCreateDriverValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateDriver(ctx, core.Driver{Name: "", Email: "x@y.z"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty name: err = %v, want ErrValidation", err)
	}
	if _, err := svc.CreateDriver(ctx, core.Driver{Name: "Carol", Email: "not-an-email"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad email: err = %v, want ErrValidation", err)
	}

	created, err := svc.CreateDriver(ctx, core.Driver{Name: "Carol Diaz", Email: "carol@example.com", LicenseNumber: "D-1003"})
	if err != nil {
		t.Fatalf("CreateDriver: %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("created driver id = %d, want 3", created.ID)
	}
}

func TestCreateVehicleNormalizes(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateVehicle(context.Background(), core.Vehicle{
		Make: "Opel", Model: "Vivaro", Year: 2022,
		LicensePlate: "cd-456-e", VIN: "w0l0xcf0812345678",
	})
	if err != nil {
		t.Fatalf("CreateVehicle: %v", err)
	}
	if created.LicensePlate != "CD-456-E" {
		t.Fatalf("plate = %q, want uppercased", created.LicensePlate)
	}
	if created.VIN != "W0L0XCF0812345678" {
		t.Fatalf("vin = %q, want uppercased", created.VIN)
	}
}

func TestLoadAll(t *testing.T) {
	svc := newTestService(t)

	snap, err := svc.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(snap.Trips) != 1 || len(snap.Drivers) != 2 || len(snap.Vehicles) != 2 {
		t.Fatalf("snapshot sizes = %d/%d/%d, want 1/2/2",
			len(snap.Trips), len(snap.Drivers), len(snap.Vehicles))
	}
}

func TestBuildOverview(t *testing.T) {
	svc := newTestService(t)
	svc.WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	})
	ctx := context.Background()

	// Second trip this month plus one outside it.
	for _, tr := range []core.Trip{
		{DriverID: 2, VehicleID: 2, Date: "2024-03-20", Time: "17:40", StartLocation: "Depot", EndLocation: "Home", Distance: 7.5, Category: core.Private},
		{DriverID: 1, VehicleID: 1, Date: "2024-02-28", Time: "09:00", StartLocation: "A", EndLocation: "B", Distance: 100, Category: core.Business},
	} {
		if _, err := svc.CreateTrip(ctx, tr); err != nil {
			t.Fatalf("CreateTrip(%s): %v", tr.Date, err)
		}
	}

	ov, err := svc.BuildOverview(ctx)
	if err != nil {
		t.Fatalf("BuildOverview: %v", err)
	}
	if ov.Month != "March 2024" {
		t.Fatalf("month = %q, want %q", ov.Month, "March 2024")
	}
	if ov.TripsThisMonth != 2 {
		t.Fatalf("trips this month = %d, want 2", ov.TripsThisMonth)
	}
	if ov.TotalDistance != 50 {
		t.Fatalf("total distance = %v, want 50", ov.TotalDistance)
	}
	if ov.BusinessDistance != 42.5 || ov.PrivateDistance != 7.5 {
		t.Fatalf("distance split = %v/%v, want 42.5/7.5", ov.BusinessDistance, ov.PrivateDistance)
	}
	if ov.ActiveVehicles != 2 {
		t.Fatalf("active vehicles = %d, want 2", ov.ActiveVehicles)
	}
	if len(ov.RecentTrips) != 3 {
		t.Fatalf("recent trips = %d, want 3", len(ov.RecentTrips))
	}
	if ov.RecentTrips[0].Date != "2024-03-20" || ov.RecentTrips[2].Date != "2024-02-28" {
		t.Fatalf("recent trips not newest-first: %s .. %s",
			ov.RecentTrips[0].Date, ov.RecentTrips[2].Date)
	}
}

func TestRecentTripsCappedAtFive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for day := 10; day < 17; day++ {
		_, err := svc.CreateTrip(ctx, core.Trip{
			DriverID: 1, VehicleID: 1,
			Date: time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
			Time:          "09:00",
			StartLocation: "A", EndLocation: "B",
			Distance: 5, Category: core.Business,
		})
		if err != nil {
			t.Fatalf("CreateTrip day %d: %v", day, err)
		}
	}

	ov, err := svc.BuildOverview(ctx)
	if err != nil {
		t.Fatalf("BuildOverview: %v", err)
	}
	if len(ov.RecentTrips) != 5 {
		t.Fatalf("recent trips = %d, want 5", len(ov.RecentTrips))
	}
}
