package core

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	Business Category = "business"
	Private  Category = "private"
)

type (
	// Category classifies a trip for mileage reporting.
	Category string

	// Meta carries the identity and audit fields shared by every record.
	// The store owns all three fields; they are never set by callers.
	Meta struct {
		ID        int       `json:"Id"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	Driver struct {
		Meta
		Name          string `json:"name"`
		Email         string `json:"email"`
		LicenseNumber string `json:"license_number"`
	}

	Vehicle struct {
		Meta
		Make         string `json:"make"`
		Model        string `json:"model"`
		Year         int    `json:"year"`
		LicensePlate string `json:"license_plate"`
		VIN          string `json:"vin"`
	}

	Trip struct {
		Meta
		DriverID      int      `json:"driver_id"`
		VehicleID     int      `json:"vehicle_id"`
		Date          string   `json:"date"`
		Time          string   `json:"time"`
		StartLocation string   `json:"start_location"`
		EndLocation   string   `json:"end_location"`
		StartOdometer *float64 `json:"start_odometer"`
		EndOdometer   *float64 `json:"end_odometer"`
		Distance      float64  `json:"distance"`
		Category      Category `json:"category"`
		Notes         string   `json:"notes,omitempty"`
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyLicenseNumber = errors.New("empty license number")
	ErrEmptyMake          = errors.New("empty make")
	ErrEmptyModel         = errors.New("empty model")
	ErrInvalidYear        = errors.New("invalid year")
	ErrEmptyLicensePlate  = errors.New("empty license plate")
	ErrInvalidVIN         = errors.New("invalid vin")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidTime        = errors.New("invalid time")
	ErrEmptyLocation      = errors.New("empty location")
	ErrInvalidDistance    = errors.New("distance must be greater than 0")
	ErrInvalidOdometer    = errors.New("odometer reading must not be negative")
	ErrOdometerOrder      = errors.New("end odometer must be greater than start odometer")
	ErrInvalidCategory    = errors.New("invalid category")
)

// Same shape the entry form accepts: something@something.something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

func (c Category) Validate() error {
	switch c {
	case Business, Private:
		return nil
	default:
		return ErrInvalidCategory
	}
}

// ParseCategory validates an incoming category string at the boundary.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (d Driver) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if !emailPattern.MatchString(d.Email) {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(d.LicenseNumber) == "" {
		return ErrEmptyLicenseNumber
	}
	return nil
}

func (v Vehicle) Validate() error {
	if strings.TrimSpace(v.Make) == "" {
		return ErrEmptyMake
	}
	if strings.TrimSpace(v.Model) == "" {
		return ErrEmptyModel
	}
	if v.Year < 1900 || v.Year > time.Now().Year()+1 {
		return ErrInvalidYear
	}
	if strings.TrimSpace(v.LicensePlate) == "" {
		return ErrEmptyLicensePlate
	}
	if vin := strings.TrimSpace(v.VIN); vin == "" || len(vin) > 17 {
		return ErrInvalidVIN
	}
	return nil
}

// Normalize upper-cases the plate and VIN before the vehicle is stored.
func (v Vehicle) Normalize() Vehicle {
	v.LicensePlate = strings.ToUpper(strings.TrimSpace(v.LicensePlate))
	v.VIN = strings.ToUpper(strings.TrimSpace(v.VIN))
	return v
}

func (t Trip) Validate() error {
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse("15:04", t.Time); err != nil {
		return ErrInvalidTime
	}
	if strings.TrimSpace(t.StartLocation) == "" || strings.TrimSpace(t.EndLocation) == "" {
		return ErrEmptyLocation
	}
	for _, o := range []*float64{t.StartOdometer, t.EndOdometer} {
		if o != nil && *o < 0 {
			return ErrInvalidOdometer
		}
	}
	if t.StartOdometer != nil && t.EndOdometer != nil && *t.EndOdometer <= *t.StartOdometer {
		return ErrOdometerOrder
	}
	if t.Distance <= 0 {
		return ErrInvalidDistance
	}
	return t.Category.Validate()
}

// Clone returns a copy that shares no pointers with the receiver. Plain
// value copies are enough for Driver and Vehicle; trips carry optional
// odometer readings behind pointers.
func (t Trip) Clone() Trip {
	if t.StartOdometer != nil {
		v := *t.StartOdometer
		t.StartOdometer = &v
	}
	if t.EndOdometer != nil {
		v := *t.EndOdometer
		t.EndOdometer = &v
	}
	return t
}

// DeriveDistance computes the trip distance from a pair of odometer
// readings, rounded to one decimal as the entry form does. The second
// return is false when either reading is absent or they are out of order.
func DeriveDistance(start, end *float64) (float64, bool) {
	if start == nil || end == nil || *end <= *start {
		return 0, false
	}
	return math.Round((*end-*start)*10) / 10, true
}
