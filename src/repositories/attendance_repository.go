package repositories

import (
	"context"
	"fmt"
	"time"

	"discipulado/src/domain/entities"
	"discipulado/src/infra/postgres"
)

type AttendanceRepository struct {
	db postgres.Querier
}

func NewAttendanceRepository(db postgres.Querier) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// UpsertBatch grava presenças de forma idempotente: o par
// (member_id, key, reference_date) já registrado é sobrescrito.
func (r *AttendanceRepository) UpsertBatch(ctx context.Context, records []entities.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO attendance_records (member_id, key, value, idempotency_key, reference_date, reference_month)
		VALUES ($1, $2, $3, $4, $5, DATE_TRUNC('month', $5::timestamptz))
		ON CONFLICT (member_id, key, reference_date) DO UPDATE SET
			value = excluded.value,
			updated_at = NOW()`

	for _, record := range records {
		idempotencyKey := record.IdempotencyKey

		_, err := r.db.Exec(ctx, query,
			record.MemberID,
			record.Key,
			record.Value,
			postgres.NewNullString(&idempotencyKey),
			record.ReferenceDate,
		)
		if err != nil {
			return fmt.Errorf("AttendanceRepository.UpsertBatch - upsert failed for member %d: %w", record.MemberID, err)
		}
	}

	return nil
}

func (r *AttendanceRepository) FindByMemberIDsSince(ctx context.Context, memberIDs []int64, since time.Time) ([]entities.AttendanceRecord, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT member_id, key, value, reference_date, created_at, updated_at
		FROM attendance_records
		WHERE member_id = ANY($1) AND reference_date >= $2`

	rows, err := r.db.Query(ctx, query, memberIDs, since)
	if err != nil {
		return nil, fmt.Errorf("AttendanceRepository.FindByMemberIDsSince - query failed: %w", err)
	}
	defer rows.Close()

	var records []entities.AttendanceRecord
	for rows.Next() {
		var record entities.AttendanceRecord
		if err := rows.Scan(&record.MemberID, &record.Key, &record.Value, &record.ReferenceDate, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("AttendanceRepository.FindByMemberIDsSince - failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
