package repositories

import (
	"context"
	"fmt"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
	"discipulado/src/infra/postgres"

	"github.com/jackc/pgx/v5"
)

// MemberRepository só lê membros: o cadastro é dono do módulo de gestão de
// membros, fora deste serviço.
type MemberRepository struct {
	db postgres.Querier
}

func NewMemberRepository(db postgres.Querier) *MemberRepository {
	return &MemberRepository{db: db}
}

// WithTx devolve uma cópia do repositório amarrada à transação do chamador.
func (r *MemberRepository) WithTx(tx pgx.Tx) *MemberRepository {
	return &MemberRepository{db: tx}
}

func (r *MemberRepository) FindByID(ctx context.Context, memberID int64) (domain.MemberNode, error) {
	nodes, err := r.FindByIDs(ctx, []int64{memberID})
	if err != nil {
		return domain.MemberNode{}, err
	}

	if len(nodes) == 0 {
		return domain.MemberNode{}, fmt.Errorf("MemberRepository.FindByID - member %d: %w", memberID, domain.ErrMemberNotFound)
	}

	return nodes[0], nil
}

// FindByIDs carrega em lote os membros com papéis, nome, perfil e as listas
// completas de arestas de entrada e saída de cada um.
func (r *MemberRepository) FindByIDs(ctx context.Context, memberIDs []int64) ([]domain.MemberNode, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	memberQuery := `
		SELECT id, reference, name, roles, profile, created_at, updated_at
		FROM members
		WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, memberQuery, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("MemberRepository.FindByIDs - member query failed: %w", err)
	}
	defer rows.Close()

	var nodes []domain.MemberNode
	byID := make(map[int64]int)

	for rows.Next() {
		var node domain.MemberNode
		var roles []string

		if err := rows.Scan(&node.ID, &node.Reference, &node.Name, &roles, &node.Profile, &node.CreatedAt, &node.UpdatedAt); err != nil {
			return nil, fmt.Errorf("MemberRepository.FindByIDs - failed to scan member: %w", err)
		}

		node.Roles = make([]entities.Role, len(roles))
		for i, role := range roles {
			node.Roles[i] = entities.Role(role)
		}

		byID[node.ID] = len(nodes)
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MemberRepository.FindByIDs - error iterating member rows: %w", err)
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	loadedIDs := make([]int64, len(nodes))
	for i, node := range nodes {
		loadedIDs[i] = node.ID
	}

	edgeQuery := fmt.Sprintf(`
		SELECT %s FROM hierarchy_edges
		WHERE child_id = ANY($1) OR parent_id = ANY($1)`, edgeColumns)

	edgeRows, err := r.db.Query(ctx, edgeQuery, loadedIDs)
	if err != nil {
		return nil, fmt.Errorf("MemberRepository.FindByIDs - edge query failed: %w", err)
	}
	defer edgeRows.Close()

	edges, err := scanEdges(edgeRows)
	if err != nil {
		return nil, fmt.Errorf("MemberRepository.FindByIDs - %w", err)
	}

	for _, edge := range edges {
		if idx, ok := byID[edge.ChildID]; ok {
			nodes[idx].ParentEdges = append(nodes[idx].ParentEdges, edge)
		}
		if idx, ok := byID[edge.ParentID]; ok {
			nodes[idx].ChildEdges = append(nodes[idx].ChildEdges, edge)
		}
	}

	return nodes, nil
}

// FindIDsByReferences resolve references externas (UUID) para ids internos.
// References desconhecidas simplesmente não aparecem no mapa.
func (r *MemberRepository) FindIDsByReferences(ctx context.Context, references []string) (map[string]int64, error) {
	if len(references) == 0 {
		return map[string]int64{}, nil
	}

	query := "SELECT id, reference FROM members WHERE reference = ANY($1)"

	rows, err := r.db.Query(ctx, query, references)
	if err != nil {
		return nil, fmt.Errorf("MemberRepository.FindIDsByReferences - query failed: %w", err)
	}
	defer rows.Close()

	idsByReference := make(map[string]int64, len(references))
	for rows.Next() {
		var id int64
		var reference string
		if err := rows.Scan(&id, &reference); err != nil {
			return nil, fmt.Errorf("MemberRepository.FindIDsByReferences - failed to scan row: %w", err)
		}
		idsByReference[reference] = id
	}

	return idsByReference, rows.Err()
}
