// Package fleet is the application service over the three record
// stores: it validates records on the way in, guards referential
// integrity on deletes and assembles the dashboard overview.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fleetlog/internal/core"
	"fleetlog/internal/log"
	"fleetlog/internal/report"
	"fleetlog/internal/store"
)

var (
	// ErrReferentialIntegrity blocks deleting a driver or vehicle that
	// trips still reference.
	ErrReferentialIntegrity = errors.New("record is referenced by existing trips")

	// ErrValidation marks errors the caller should treat as bad input
	// rather than a failed operation.
	ErrValidation = errors.New("validation failed")
)

type Service struct {
	drivers  *store.Store[core.Driver]
	vehicles *store.Store[core.Vehicle]
	trips    *store.Store[core.Trip]
	now      func() time.Time
	logger   *log.Logger
}

func NewService(drivers *store.Store[core.Driver], vehicles *store.Store[core.Vehicle], trips *store.Store[core.Trip], logger *log.Logger) *Service {
	return &Service{
		drivers:  drivers,
		vehicles: vehicles,
		trips:    trips,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the overview clock, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Snapshot is one consistent-enough read of all three collections.
type Snapshot struct {
	Trips    []core.Trip
	Drivers  []core.Driver
	Vehicles []core.Vehicle
}

// LoadAll fetches all three collections concurrently, the way every
// dashboard page loads its data.
func (s *Service) LoadAll(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Trips = s.trips.List(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Drivers = s.drivers.List(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Vehicles = s.vehicles.List(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load collections: %w", err)
	}
	return snap, nil
}

// Drivers

func (s *Service) ListDrivers(ctx context.Context) []core.Driver {
	return s.drivers.List(ctx)
}

func (s *Service) GetDriver(ctx context.Context, id int) (core.Driver, error) {
	return s.drivers.Get(ctx, id)
}

func (s *Service) CreateDriver(ctx context.Context, d core.Driver) (core.Driver, error) {
	if err := d.Validate(); err != nil {
		return core.Driver{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	created := s.drivers.Create(ctx, d)
	s.logger.InfoContext(ctx, "Driver created", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) UpdateDriver(ctx context.Context, id int, p core.DriverPatch) (core.Driver, error) {
	return s.drivers.Update(ctx, id, func(d core.Driver) (core.Driver, error) {
		next := p.Apply(d)
		if err := next.Validate(); err != nil {
			return core.Driver{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return next, nil
	})
}

// DeleteDriver refuses to delete a driver any trip references. The
// check and the delete are two store calls with nothing spanning them;
// fine for the single-user tool this is.
func (s *Service) DeleteDriver(ctx context.Context, id int) error {
	for _, t := range s.trips.List(ctx) {
		if t.DriverID == id {
			return fmt.Errorf("driver %d: %w", id, ErrReferentialIntegrity)
		}
	}
	if err := s.drivers.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Driver deleted", "id", id)
	return nil
}

// Vehicles

func (s *Service) ListVehicles(ctx context.Context) []core.Vehicle {
	return s.vehicles.List(ctx)
}

func (s *Service) GetVehicle(ctx context.Context, id int) (core.Vehicle, error) {
	return s.vehicles.Get(ctx, id)
}

func (s *Service) CreateVehicle(ctx context.Context, v core.Vehicle) (core.Vehicle, error) {
	v = v.Normalize()
	if err := v.Validate(); err != nil {
		return core.Vehicle{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	created := s.vehicles.Create(ctx, v)
	s.logger.InfoContext(ctx, "Vehicle created", "id", created.ID, "make", created.Make, "model", created.Model)
	return created, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, id int, p core.VehiclePatch) (core.Vehicle, error) {
	return s.vehicles.Update(ctx, id, func(v core.Vehicle) (core.Vehicle, error) {
		next := p.Apply(v).Normalize()
		if err := next.Validate(); err != nil {
			return core.Vehicle{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return next, nil
	})
}

// DeleteVehicle mirrors DeleteDriver for vehicle references.
func (s *Service) DeleteVehicle(ctx context.Context, id int) error {
	for _, t := range s.trips.List(ctx) {
		if t.VehicleID == id {
			return fmt.Errorf("vehicle %d: %w", id, ErrReferentialIntegrity)
		}
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Vehicle deleted", "id", id)
	return nil
}

// Trips

func (s *Service) ListTrips(ctx context.Context) []core.Trip {
	return s.trips.List(ctx)
}

func (s *Service) GetTrip(ctx context.Context, id int) (core.Trip, error) {
	return s.trips.Get(ctx, id)
}

func (s *Service) CreateTrip(ctx context.Context, t core.Trip) (core.Trip, error) {
	if err := t.Validate(); err != nil {
		return core.Trip{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.checkTripRefs(ctx, t); err != nil {
		return core.Trip{}, err
	}
	created := s.trips.Create(ctx, t)
	s.logger.InfoContext(ctx, "Trip created",
		"id", created.ID,
		"driver_id", created.DriverID,
		"vehicle_id", created.VehicleID,
		"distance_km", created.Distance,
		"category", created.Category)
	return created, nil
}

func (s *Service) UpdateTrip(ctx context.Context, id int, p core.TripPatch) (core.Trip, error) {
	if p.DriverID != nil {
		if _, err := s.drivers.Get(ctx, *p.DriverID); err != nil {
			return core.Trip{}, fmt.Errorf("%w: unknown driver %d", ErrValidation, *p.DriverID)
		}
	}
	if p.VehicleID != nil {
		if _, err := s.vehicles.Get(ctx, *p.VehicleID); err != nil {
			return core.Trip{}, fmt.Errorf("%w: unknown vehicle %d", ErrValidation, *p.VehicleID)
		}
	}
	return s.trips.Update(ctx, id, func(t core.Trip) (core.Trip, error) {
		next := p.Apply(t)
		// An odometer edit re-derives the distance from the merged
		// readings unless the patch set one explicitly, matching the
		// entry form's auto-calculation.
		if p.Distance == nil && (p.StartOdometer != nil || p.EndOdometer != nil) {
			if d, ok := core.DeriveDistance(next.StartOdometer, next.EndOdometer); ok {
				next.Distance = d
			}
		}
		if err := next.Validate(); err != nil {
			return core.Trip{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		return next, nil
	})
}

func (s *Service) DeleteTrip(ctx context.Context, id int) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Trip deleted", "id", id)
	return nil
}

func (s *Service) checkTripRefs(ctx context.Context, t core.Trip) error {
	if _, err := s.drivers.Get(ctx, t.DriverID); err != nil {
		return fmt.Errorf("%w: unknown driver %d", ErrValidation, t.DriverID)
	}
	if _, err := s.vehicles.Get(ctx, t.VehicleID); err != nil {
		return fmt.Errorf("%w: unknown vehicle %d", ErrValidation, t.VehicleID)
	}
	return nil
}

// Overview is the dashboard stat block: the current month's trips plus
// the most recent trips overall.
type Overview struct {
	Month            string         `json:"month"`
	TripsThisMonth   int            `json:"tripsThisMonth"`
	TotalDistance    float64        `json:"totalDistance"`
	BusinessDistance float64        `json:"businessDistance"`
	PrivateDistance  float64        `json:"privateDistance"`
	ActiveVehicles   int            `json:"activeVehicles"`
	RecentTrips      []core.Trip    `json:"recentTrips"`
	Summary          report.Summary `json:"summary"`
}

// BuildOverview computes the dashboard stats over a full snapshot.
func (s *Service) BuildOverview(ctx context.Context) (Overview, error) {
	snap, err := s.LoadAll(ctx)
	if err != nil {
		return Overview{}, err
	}

	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
	monthEnd := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Format("2006-01-02")

	monthTrips := report.Filter{StartDate: monthStart, EndDate: monthEnd}.Apply(snap.Trips)
	sum := report.Summarize(monthTrips)

	recent := append([]core.Trip(nil), snap.Trips...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date+" "+recent[i].Time > recent[j].Date+" "+recent[j].Time
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return Overview{
		Month:            now.Format("January 2006"),
		TripsThisMonth:   sum.TotalTrips,
		TotalDistance:    sum.TotalDistance,
		BusinessDistance: sum.BusinessDistance,
		PrivateDistance:  sum.PrivateDistance,
		ActiveVehicles:   len(snap.Vehicles),
		RecentTrips:      recent,
		Summary:          sum,
	}, nil
}
