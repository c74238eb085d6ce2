package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"discipulado/src/domain"
)

func (s *Server) GetNetwork(w http.ResponseWriter, r *http.Request) {
	rootIDStr := r.PathValue("id")
	rootID, err := strconv.ParseInt(rootIDStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid member id format", http.StatusBadRequest)
		return
	}

	// Janela de presenças incluídas por nó, em meses a partir de hoje
	months := 1
	if monthsStr := r.URL.Query().Get("months"); monthsStr != "" {
		months, err = strconv.Atoi(monthsStr)
		if err != nil || months < 1 {
			http.Error(w, "Invalid months format", http.StatusBadRequest)
			return
		}
	}

	if months > 12 {
		http.Error(w, "months cannot exceed 12", http.StatusBadRequest)
		return
	}

	now := time.Now()
	attendanceSince := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)

	tree, err := s.networkService.BuildNetwork(r.Context(), rootID, attendanceSince)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			http.Error(w, rejectionMemberNotFound, http.StatusNotFound)
			return
		}

		s.logger.Error("Failed to build network", "error", err, "root_id", rootID)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(MapNetworkToResponse(tree)); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}
