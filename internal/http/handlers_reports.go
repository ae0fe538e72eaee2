package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fleetlog/internal/export"
	"fleetlog/internal/report"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.fleet.BuildOverview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.parseFilter(w, r)
	if !ok {
		return
	}
	trips := filter.Apply(s.fleet.ListTrips(r.Context()))
	s.writeJSON(w, http.StatusOK, report.Summarize(trips))
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.error(w, r, http.StatusBadRequest, "bad_request", s.i18n.T("messages.invalidInput"), err)
		return
	}
	filter, ok := s.parseFilter(w, r)
	if !ok {
		return
	}

	snap, err := s.fleet.LoadAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trips := filter.Apply(snap.Trips)
	if len(trips) == 0 {
		s.error(w, r, http.StatusUnprocessableEntity, "empty_export", s.i18n.T("reports.noTrips"), nil)
		return
	}

	rows := export.BuildRows(trips, snap.Drivers, snap.Vehicles, report.Summarize(trips))

	// Serialize into a buffer first so a failure aborts cleanly instead
	// of leaving a half-written download.
	var buf bytes.Buffer
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(&buf, rows)
	default:
		err = export.WriteCSV(&buf, rows)
	}
	if err != nil {
		s.error(w, r, http.StatusInternalServerError, "export_failed", s.i18n.T("reports.exportError"), err)
		return
	}

	filename := export.Filename(format, filter.StartDate, filter.EndDate, time.Now())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
