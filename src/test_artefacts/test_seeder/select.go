package test_seeder

import (
	"context"

	"discipulado/src/domain/entities"
)

// SelectEdgesByChildID retrieves all edges pointing at the given child
func (ts TestSeeder) SelectEdgesByChildID(ctx context.Context, childID int64) ([]entities.HierarchyEdge, error) {
	query := `SELECT id, parent_id, child_id, role, created_at, updated_at
			  FROM hierarchy_edges WHERE child_id = $1 ORDER BY id`

	rows, err := ts.pool.Query(ctx, query, childID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []entities.HierarchyEdge
	for rows.Next() {
		var edge entities.HierarchyEdge
		err := rows.Scan(
			&edge.ID,
			&edge.ParentID,
			&edge.ChildID,
			&edge.Role,
			&edge.CreatedAt,
			&edge.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}

	return edges, rows.Err()
}

// SelectAttendanceByMemberID retrieves all attendance records for a member
func (ts TestSeeder) SelectAttendanceByMemberID(ctx context.Context, memberID int64) ([]entities.AttendanceRecord, error) {
	query := `SELECT member_id, key, value, idempotency_key, reference_date, created_at, updated_at
			  FROM attendance_records WHERE member_id = $1 ORDER BY reference_date`

	rows, err := ts.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entities.AttendanceRecord
	for rows.Next() {
		var record entities.AttendanceRecord
		err := rows.Scan(
			&record.MemberID,
			&record.Key,
			&record.Value,
			&record.IdempotencyKey,
			&record.ReferenceDate,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
