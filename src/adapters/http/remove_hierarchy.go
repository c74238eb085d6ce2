package http

import (
	"net/http"
	"strconv"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
)

func (s *Server) RemoveHierarchy(w http.ResponseWriter, r *http.Request) {
	childIDStr := r.PathValue("childId")
	childID, err := strconv.ParseInt(childIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid child id format", http.StatusBadRequest)
		return
	}

	// Sem role na query: reset administrativo, todas as arestas do filho
	role := entities.Role(r.URL.Query().Get("role"))
	if role != "" && !domain.IsRelationshipRole(role) {
		http.Error(w, "Invalid role: "+string(role), http.StatusBadRequest)
		return
	}

	if err := s.hierarchyService.Remove(r.Context(), childID, role); err != nil {
		s.logger.Error("Failed to remove hierarchy", "error", err, "child_id", childID, "role", role)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
