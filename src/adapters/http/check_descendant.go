package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"discipulado/src/domain"
)

// CheckDescendant é o gate de autorização exposto para os módulos irmãos:
// "A pode gerenciar o recurso de B" reduz a B ser descendente de A.
func (s *Server) CheckDescendant(w http.ResponseWriter, r *http.Request) {
	ancestorID, err := strconv.ParseInt(r.PathValue("ancestorId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid ancestor id format", http.StatusBadRequest)
		return
	}

	targetID, err := strconv.ParseInt(r.PathValue("targetId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid target id format", http.StatusBadRequest)
		return
	}

	isDescendant, err := s.hierarchyService.IsDescendant(r.Context(), ancestorID, targetID)
	if err != nil {
		s.logger.Error("Failed to check descendant", "error", err, "ancestor_id", ancestorID, "target_id", targetID)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(CheckDescendantResponse{IsDescendant: isDescendant}); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}
