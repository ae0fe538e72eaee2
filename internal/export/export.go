// Package export turns an already-filtered trip collection plus its
// summary into a downloadable report. It never filters or re-aggregates;
// it only resolves references to display strings and lays out rows.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fleetlog/internal/core"
	"fleetlog/internal/report"
)

// Format selects the output artifact type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts the wire names for the two formats. "spreadsheet"
// is an alias kept for the original report form.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "spreadsheet":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) Ext() string {
	return string(f)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Header is the fixed report column layout. Order is a compatibility
// contract; downstream spreadsheets key on it.
func Header() []string {
	return []string{
		"Date",
		"Time",
		"Driver",
		"Vehicle",
		"License Plate",
		"Start Location",
		"End Location",
		"Distance (km)",
		"Category",
		"Notes",
	}
}

// BuildRows produces the full report: header, one row per trip in input
// order, then a blank row, a SUMMARY marker and the six summary rows.
// Dangling driver or vehicle references resolve to "Unknown" (name,
// vehicle) or an empty plate; they never fail the export.
func BuildRows(trips []core.Trip, drivers []core.Driver, vehicles []core.Vehicle, sum report.Summary) [][]string {
	byDriver := make(map[int]core.Driver, len(drivers))
	for _, d := range drivers {
		byDriver[d.ID] = d
	}
	byVehicle := make(map[int]core.Vehicle, len(vehicles))
	for _, v := range vehicles {
		byVehicle[v.ID] = v
	}

	rows := make([][]string, 0, len(trips)+9)
	rows = append(rows, Header())
	for _, t := range trips {
		driverName := "Unknown"
		if d, ok := byDriver[t.DriverID]; ok {
			driverName = d.Name
		}
		vehicleName := "Unknown"
		plate := ""
		if v, ok := byVehicle[t.VehicleID]; ok {
			if name := strings.TrimSpace(v.Make + " " + v.Model); name != "" {
				vehicleName = name
			}
			plate = v.LicensePlate
		}
		rows = append(rows, []string{
			t.Date,
			t.Time,
			driverName,
			vehicleName,
			plate,
			t.StartLocation,
			t.EndLocation,
			formatDistance(t.Distance),
			string(t.Category),
			t.Notes,
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"SUMMARY"},
		[]string{"Total Trips", strconv.Itoa(sum.TotalTrips)},
		[]string{"Total Distance (km)", formatFixed(sum.TotalDistance)},
		[]string{"Business Trips", strconv.Itoa(sum.BusinessTrips)},
		[]string{"Business Distance (km)", formatFixed(sum.BusinessDistance)},
		[]string{"Private Trips", strconv.Itoa(sum.PrivateTrips)},
		[]string{"Private Distance (km)", formatFixed(sum.PrivateDistance)},
	)
	return rows
}

// Filename derives the artifact name from the active date range, or from
// the given day when no range is set.
func Filename(f Format, startDate, endDate string, today time.Time) string {
	if startDate != "" && endDate != "" {
		return fmt.Sprintf("mileage-report-%s-to-%s.%s", startDate, endDate, f.Ext())
	}
	return fmt.Sprintf("mileage-report-%s.%s", today.Format("2006-01-02"), f.Ext())
}

// formatDistance renders a distance the way the trips were entered:
// shortest representation, no padded zeros.
func formatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64)
}

func formatFixed(km float64) string {
	return strconv.FormatFloat(km, 'f', 2, 64)
}
