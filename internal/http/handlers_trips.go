package http

import (
	"net/http"
	"time"

	"fleetlog/internal/core"
)

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	filter, ok := s.parseFilter(w, r)
	if !ok {
		return
	}
	trips := s.fleet.ListTrips(r.Context())
	if !filter.IsZero() {
		trips = filter.Apply(trips)
	}
	s.writeJSON(w, http.StatusOK, trips)
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.fleet.GetTrip(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trip)
}

func (s *Server) handleCreateTrip(w http.ResponseWriter, r *http.Request) {
	var trip core.Trip
	if !s.decode(w, r, &trip) {
		return
	}
	applyTripDefaults(&trip, time.Now())

	created, err := s.fleet.CreateTrip(r.Context(), trip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch core.TripPatch
	if !s.decode(w, r, &patch) {
		return
	}
	updated, err := s.fleet.UpdateTrip(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.fleet.DeleteTrip(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// applyTripDefaults fills what the entry form prefills for a new trip:
// today's date, the current time, the business category, and a distance
// derived from odometer readings when none was given.
func applyTripDefaults(t *core.Trip, now time.Time) {
	if t.Date == "" {
		t.Date = now.Format("2006-01-02")
	}
	if t.Time == "" {
		t.Time = now.Format("15:04")
	}
	if t.Category == "" {
		t.Category = core.Business
	}
	if t.Distance == 0 {
		if d, ok := core.DeriveDistance(t.StartOdometer, t.EndOdometer); ok {
			t.Distance = d
		}
	}
}
