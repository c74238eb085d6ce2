package attendance

import (
	"context"
	"fmt"

	"discipulado/src/domain/entities"
	"discipulado/src/repositories"
)

type AttendanceService struct {
	attendanceRepository *repositories.AttendanceRepository
}

func NewAttendanceService(attendanceRepository *repositories.AttendanceRepository) *AttendanceService {
	return &AttendanceService{attendanceRepository: attendanceRepository}
}

// IngestRecords grava um lote de presenças (célula, culto, seminário...).
func (s *AttendanceService) IngestRecords(ctx context.Context, records []entities.AttendanceRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("ingest request must contain at least one record")
	}

	for _, record := range records {
		if record.MemberID == 0 || record.Key == "" || record.ReferenceDate.IsZero() {
			return fmt.Errorf("ingest record must carry member_id, key and reference_date")
		}
	}

	return s.attendanceRepository.UpsertBatch(ctx, records)
}
