package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
)

func (s *Server) AssignHierarchy(w http.ResponseWriter, r *http.Request) {
	var request AssignHierarchyRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ParentID == 0 || request.ChildID == 0 {
		http.Error(w, "parent_id and child_id are required", http.StatusBadRequest)
		return
	}

	role := entities.Role(request.Role)
	if !domain.IsRelationshipRole(role) {
		http.Error(w, "Invalid role: "+request.Role, http.StatusBadRequest)
		return
	}

	edge, err := s.hierarchyService.Assign(r.Context(), request.ParentID, request.ChildID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHierarchyCycle):
			http.Error(w, rejectionCycle, http.StatusConflict)
		case errors.Is(err, domain.ErrIncoherentRole):
			http.Error(w, rejectionIncoherentRole, http.StatusUnprocessableEntity)
		case errors.Is(err, domain.ErrMemberNotFound):
			http.Error(w, rejectionMemberNotFound, http.StatusNotFound)
		default:
			s.logger.Error("Failed to assign hierarchy", "error", err, "parent_id", request.ParentID, "child_id", request.ChildID)
			http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(MapEdgeToResponse(edge)); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}
