package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"fleetlog/internal/core"
	"fleetlog/internal/fleet"
	"fleetlog/internal/report"
	"fleetlog/internal/store"
)

// errorBody is the uniform error payload: a stable machine code plus a
// localized human message.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	body := errorBody{Error: code, Message: message}
	if err != nil {
		body.Detail = err.Error()
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err, "code", code, "status", status, "url", r.URL.Path)
	}
	s.writeJSON(w, status, body)
}

// writeError maps service errors onto the response taxonomy. Integrity
// conflicts are not handled here; the delete handlers map those with
// their per-entity messages.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.error(w, r, http.StatusNotFound, "not_found", s.i18n.T("messages.notFound"), err)
	case errors.Is(err, fleet.ErrValidation):
		s.error(w, r, http.StatusUnprocessableEntity, "invalid_input", s.i18n.T("messages.invalidInput"), err)
	default:
		s.error(w, r, http.StatusInternalServerError, "internal", s.i18n.T("messages.loadError"), err)
	}
}

// pathID parses the {id} wildcard; bad ids read as "no such record".
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		s.error(w, r, http.StatusNotFound, "not_found", s.i18n.T("messages.notFound"), nil)
		return 0, false
	}
	return id, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.error(w, r, http.StatusBadRequest, "bad_request", s.i18n.T("messages.invalidInput"), err)
		return false
	}
	return true
}

// parseFilter reads the optional trip filter from query parameters.
// Empty parameters leave the matching predicate inactive.
func (s *Server) parseFilter(w http.ResponseWriter, r *http.Request) (report.Filter, bool) {
	q := r.URL.Query()
	f := report.Filter{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
	if v := q.Get("driverId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			s.error(w, r, http.StatusBadRequest, "bad_request", s.i18n.T("messages.invalidInput"), err)
			return report.Filter{}, false
		}
		f.DriverID = id
	}
	if v := q.Get("vehicleId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			s.error(w, r, http.StatusBadRequest, "bad_request", s.i18n.T("messages.invalidInput"), err)
			return report.Filter{}, false
		}
		f.VehicleID = id
	}
	if v := q.Get("category"); v != "" {
		c, err := core.ParseCategory(v)
		if err != nil {
			s.error(w, r, http.StatusBadRequest, "bad_request", s.i18n.T("messages.invalidInput"), err)
			return report.Filter{}, false
		}
		f.Category = c
	}
	return f, true
}
