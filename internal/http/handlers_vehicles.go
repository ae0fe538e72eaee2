package http

import (
	"errors"
	"net/http"

	"fleetlog/internal/core"
	"fleetlog/internal/fleet"
)

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.fleet.ListVehicles(r.Context()))
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	vehicle, err := s.fleet.GetVehicle(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, vehicle)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle core.Vehicle
	if !s.decode(w, r, &vehicle) {
		return
	}
	created, err := s.fleet.CreateVehicle(r.Context(), vehicle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch core.VehiclePatch
	if !s.decode(w, r, &patch) {
		return
	}
	updated, err := s.fleet.UpdateVehicle(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.fleet.DeleteVehicle(r.Context(), id); err != nil {
		if errors.Is(err, fleet.ErrReferentialIntegrity) {
			s.error(w, r, http.StatusConflict, "referential_integrity",
				s.i18n.T("messages.cannotDeleteVehicle"), err)
			return
		}
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
