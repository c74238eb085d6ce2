package test_seeder

import (
	"context"
	"fmt"

	"discipulado/src/domain/entities"
)

// InsertMember inserts a member into the database for testing
func (ts TestSeeder) InsertMember(ctx context.Context, member *entities.Member) {
	roles := make([]string, len(member.Roles))
	for i, role := range member.Roles {
		roles[i] = string(role)
	}

	query := `
		INSERT INTO members (reference, name, roles, profile, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := ts.pool.QueryRow(ctx, query,
		member.Reference,
		member.Name,
		roles,
		member.Profile,
		member.CreatedAt,
		member.UpdatedAt,
	).Scan(&member.ID)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertMember failed: %v", err))
	}
}

// InsertEdge inserts a hierarchy edge into the database for testing
func (ts TestSeeder) InsertEdge(ctx context.Context, edge *entities.HierarchyEdge) {
	query := `
		INSERT INTO hierarchy_edges (parent_id, child_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := ts.pool.QueryRow(ctx, query,
		edge.ParentID,
		edge.ChildID,
		string(edge.Role),
		edge.CreatedAt,
		edge.UpdatedAt,
	).Scan(&edge.ID)

	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertEdge failed: %v", err))
	}
}

// InsertAttendanceRecord inserts an attendance record into the database for testing
func (ts TestSeeder) InsertAttendanceRecord(ctx context.Context, record entities.AttendanceRecord) {
	query := `
		INSERT INTO attendance_records (member_id, key, value, idempotency_key, reference_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := ts.pool.Exec(ctx, query,
		record.MemberID,
		string(record.Key),
		record.Value,
		record.IdempotencyKey,
		record.ReferenceDate,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		panic(fmt.Sprintf("Seeder.InsertAttendanceRecord failed: %v", err))
	}
}
