package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
)

func (s *Server) IngestAttendance(w http.ResponseWriter, r *http.Request) {
	var request IngestAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(request.Records) == 0 {
		http.Error(w, "records is required and cannot be empty", http.StatusBadRequest)
		return
	}

	records := make([]entities.AttendanceRecord, 0, len(request.Records))
	for _, dto := range request.Records {
		referenceDate, err := time.Parse("2006-01-02", dto.ReferenceDate)
		if err != nil {
			http.Error(w, "Invalid reference_date format. Use 'YYYY-MM-DD'", http.StatusBadRequest)
			return
		}

		records = append(records, entities.AttendanceRecord{
			MemberID:       dto.MemberID,
			Key:            entities.AttendanceKey(dto.Key),
			Value:          dto.Value,
			IdempotencyKey: dto.IdempotencyKey,
			ReferenceDate:  referenceDate,
		})
	}

	if err := s.attendanceService.IngestRecords(r.Context(), records); err != nil {
		s.logger.Error("Failed to ingest attendance records", "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	fmt.Fprintln(w, `{"status": "attendance batch accepted for processing"}`)
}
