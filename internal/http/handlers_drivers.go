package http

import (
	"errors"
	"net/http"

	"fleetlog/internal/core"
	"fleetlog/internal/fleet"
)

func (s *Server) handleListDrivers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.fleet.ListDrivers(r.Context()))
}

func (s *Server) handleGetDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	driver, err := s.fleet.GetDriver(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, driver)
}

func (s *Server) handleCreateDriver(w http.ResponseWriter, r *http.Request) {
	var driver core.Driver
	if !s.decode(w, r, &driver) {
		return
	}
	created, err := s.fleet.CreateDriver(r.Context(), driver)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch core.DriverPatch
	if !s.decode(w, r, &patch) {
		return
	}
	updated, err := s.fleet.UpdateDriver(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.fleet.DeleteDriver(r.Context(), id); err != nil {
		if errors.Is(err, fleet.ErrReferentialIntegrity) {
			s.error(w, r, http.StatusConflict, "referential_integrity",
				s.i18n.T("messages.cannotDeleteDriver"), err)
			return
		}
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
