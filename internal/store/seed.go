package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fleetlog/internal/core"
)

// Seed fixtures are plain JSON arrays of records, one file per entity,
// matching the wire shape of the types in core. A missing file is not
// an error; the built-in sample set is used instead, so a fresh checkout
// starts with something to look at.

func readSeed[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return out, nil
}

func SeedDrivers(dir string) ([]core.Driver, error) {
	drivers, err := readSeed[core.Driver](filepath.Join(dir, "drivers.json"))
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		drivers = defaultDrivers()
	}
	return drivers, nil
}

func SeedVehicles(dir string) ([]core.Vehicle, error) {
	vehicles, err := readSeed[core.Vehicle](filepath.Join(dir, "vehicles.json"))
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		vehicles = defaultVehicles()
	}
	return vehicles, nil
}

func SeedTrips(dir string) ([]core.Trip, error) {
	trips, err := readSeed[core.Trip](filepath.Join(dir, "trips.json"))
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		trips = defaultTrips()
	}
	return trips, nil
}

func defaultDrivers() []core.Driver {
	return []core.Driver{
		{Meta: core.Meta{ID: 1}, Name: "Alice Johnson", Email: "alice.johnson@example.com", LicenseNumber: "D1234567"},
		{Meta: core.Meta{ID: 2}, Name: "Bob Smith", Email: "bob.smith@example.com", LicenseNumber: "D7654321"},
	}
}

func defaultVehicles() []core.Vehicle {
	return []core.Vehicle{
		{Meta: core.Meta{ID: 1}, Make: "Toyota", Model: "Corolla", Year: 2021, LicensePlate: "AB-123-C", VIN: "JTDBR32E720054321"},
		{Meta: core.Meta{ID: 2}, Make: "Ford", Model: "Transit", Year: 2019, LicensePlate: "XY-987-Z", VIN: "WF0XXXTTGXKY12345"},
	}
}

func defaultTrips() []core.Trip {
	return []core.Trip{
		{
			Meta: core.Meta{ID: 1}, DriverID: 1, VehicleID: 1,
			Date: "2024-03-01", Time: "08:30",
			StartLocation: "Amsterdam", EndLocation: "Utrecht",
			Distance: 42.5, Category: core.Business,
		},
		{
			Meta: core.Meta{ID: 2}, DriverID: 2, VehicleID: 2,
			Date: "2024-03-02", Time: "13:15",
			StartLocation: "Utrecht", EndLocation: "Rotterdam",
			Distance: 61.0, Category: core.Business, Notes: "Client visit",
		},
		{
			Meta: core.Meta{ID: 3}, DriverID: 1, VehicleID: 1,
			Date: "2024-03-03", Time: "18:45",
			StartLocation: "Utrecht", EndLocation: "Amsterdam",
			Distance: 42.5, Category: core.Private,
		},
	}
}
