package repositories

import (
	"context"
	"fmt"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
	"discipulado/src/infra/postgres"

	"github.com/jackc/pgx/v5"
)

const edgeColumns = "id, parent_id, child_id, role, created_at, updated_at"

// HierarchyEdgeRepository é o único dono da persistência de arestas.
// Toda mutação passa pelo HierarchyService; nenhum outro componente
// escreve arestas diretamente.
type HierarchyEdgeRepository struct {
	db postgres.Querier
}

func NewHierarchyEdgeRepository(db postgres.Querier) *HierarchyEdgeRepository {
	return &HierarchyEdgeRepository{db: db}
}

// WithTx devolve uma cópia do repositório amarrada à transação do chamador.
func (r *HierarchyEdgeRepository) WithTx(tx pgx.Tx) *HierarchyEdgeRepository {
	return &HierarchyEdgeRepository{db: tx}
}

func (r *HierarchyEdgeRepository) FindByChild(ctx context.Context, childID int64) ([]entities.HierarchyEdge, error) {
	return r.FindByChildren(ctx, []int64{childID})
}

func (r *HierarchyEdgeRepository) FindByChildren(ctx context.Context, childIDs []int64) ([]entities.HierarchyEdge, error) {
	if len(childIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM hierarchy_edges WHERE child_id = ANY($1)", edgeColumns)

	rows, err := r.db.Query(ctx, query, childIDs)
	if err != nil {
		return nil, fmt.Errorf("HierarchyEdgeRepository.FindByChildren - query failed: %w", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

func (r *HierarchyEdgeRepository) FindByParent(ctx context.Context, parentID int64) ([]entities.HierarchyEdge, error) {
	return r.FindByParents(ctx, []int64{parentID})
}

func (r *HierarchyEdgeRepository) FindByParents(ctx context.Context, parentIDs []int64) ([]entities.HierarchyEdge, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM hierarchy_edges WHERE parent_id = ANY($1)", edgeColumns)

	rows, err := r.db.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("HierarchyEdgeRepository.FindByParents - query failed: %w", err)
	}
	defer rows.Close()

	return scanEdges(rows)
}

// Insert falha com domain.ErrEdgeConflict se já existe aresta para o mesmo
// (child, role). Quem reatribui precisa deletar antes, na mesma transação.
func (r *HierarchyEdgeRepository) Insert(ctx context.Context, parentID, childID int64, role entities.Role) (entities.HierarchyEdge, error) {
	query := fmt.Sprintf(`
		INSERT INTO hierarchy_edges (parent_id, child_id, role)
		VALUES ($1, $2, $3)
		RETURNING %s`, edgeColumns)

	var edge entities.HierarchyEdge
	err := r.db.QueryRow(ctx, query, parentID, childID, role).Scan(
		&edge.ID,
		&edge.ParentID,
		&edge.ChildID,
		&edge.Role,
		&edge.CreatedAt,
		&edge.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return entities.HierarchyEdge{}, fmt.Errorf("HierarchyEdgeRepository.Insert - (%d, %s): %w", childID, role, domain.ErrEdgeConflict)
		}
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyEdgeRepository.Insert - insert failed: %w", err)
	}

	return edge, nil
}

func (r *HierarchyEdgeRepository) DeleteByChildAndRole(ctx context.Context, childID int64, role entities.Role) error {
	_, err := r.db.Exec(ctx, "DELETE FROM hierarchy_edges WHERE child_id = $1 AND role = $2", childID, role)
	if err != nil {
		return fmt.Errorf("HierarchyEdgeRepository.DeleteByChildAndRole - delete failed: %w", err)
	}
	return nil
}

// DeleteAllByChild remove o membro da rede inteira (reset administrativo).
// Os descendentes do filho não são tocados.
func (r *HierarchyEdgeRepository) DeleteAllByChild(ctx context.Context, childID int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM hierarchy_edges WHERE child_id = $1", childID)
	if err != nil {
		return fmt.Errorf("HierarchyEdgeRepository.DeleteAllByChild - delete failed: %w", err)
	}
	return nil
}

func scanEdges(rows pgx.Rows) ([]entities.HierarchyEdge, error) {
	var edges []entities.HierarchyEdge

	for rows.Next() {
		var edge entities.HierarchyEdge
		if err := rows.Scan(&edge.ID, &edge.ParentID, &edge.ChildID, &edge.Role, &edge.CreatedAt, &edge.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hierarchy edge: %w", err)
		}
		edges = append(edges, edge)
	}

	return edges, rows.Err()
}
