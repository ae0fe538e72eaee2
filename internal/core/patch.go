package core

// Patches carry the fields an update may change. A nil field leaves the
// base value untouched; patch values win otherwise. Identity and audit
// fields are not patchable, the store owns them.

type DriverPatch struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	LicenseNumber *string `json:"license_number"`
}

func (p DriverPatch) Apply(d Driver) Driver {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Email != nil {
		d.Email = *p.Email
	}
	if p.LicenseNumber != nil {
		d.LicenseNumber = *p.LicenseNumber
	}
	return d
}

type VehiclePatch struct {
	Make         *string `json:"make"`
	Model        *string `json:"model"`
	Year         *int    `json:"year"`
	LicensePlate *string `json:"license_plate"`
	VIN          *string `json:"vin"`
}

func (p VehiclePatch) Apply(v Vehicle) Vehicle {
	if p.Make != nil {
		v.Make = *p.Make
	}
	if p.Model != nil {
		v.Model = *p.Model
	}
	if p.Year != nil {
		v.Year = *p.Year
	}
	if p.LicensePlate != nil {
		v.LicensePlate = *p.LicensePlate
	}
	if p.VIN != nil {
		v.VIN = *p.VIN
	}
	return v
}

type TripPatch struct {
	DriverID      *int      `json:"driver_id"`
	VehicleID     *int      `json:"vehicle_id"`
	Date          *string   `json:"date"`
	Time          *string   `json:"time"`
	StartLocation *string   `json:"start_location"`
	EndLocation   *string   `json:"end_location"`
	StartOdometer *float64  `json:"start_odometer"`
	EndOdometer   *float64  `json:"end_odometer"`
	Distance      *float64  `json:"distance"`
	Category      *Category `json:"category"`
	Notes         *string   `json:"notes"`
}

func (p TripPatch) Apply(t Trip) Trip {
	if p.DriverID != nil {
		t.DriverID = *p.DriverID
	}
	if p.VehicleID != nil {
		t.VehicleID = *p.VehicleID
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Time != nil {
		t.Time = *p.Time
	}
	if p.StartLocation != nil {
		t.StartLocation = *p.StartLocation
	}
	if p.EndLocation != nil {
		t.EndLocation = *p.EndLocation
	}
	if p.StartOdometer != nil {
		v := *p.StartOdometer
		t.StartOdometer = &v
	}
	if p.EndOdometer != nil {
		v := *p.EndOdometer
		t.EndOdometer = &v
	}
	if p.Distance != nil {
		t.Distance = *p.Distance
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}
