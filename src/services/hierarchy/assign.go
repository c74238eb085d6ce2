package hierarchy

import (
	"context"
	"fmt"
	"time"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
	"discipulado/src/services/events"
)

// Assign atribui parent como líder de child no papel dado, substituindo a
// aresta anterior daquele papel se houver (reatribuição sobrescreve, não
// exige unassign explícito). Os quatro passos — checagem de ciclo,
// substituição, coerência de papéis e insert — rodam numa única transação:
// se qualquer passo falhar depois do delete de substituição, o delete
// também é desfeito.
func (s *HierarchyService) Assign(ctx context.Context, parentID, childID int64, role entities.Role) (entities.HierarchyEdge, error) {
	tx, err := s.writePool.Begin(ctx)
	if err != nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txEdges := s.edgeRepository.WithTx(tx)
	txMembers := s.memberRepository.WithTx(tx)

	// 1. Ciclo
	cycles, err := s.wouldCreateCycle(ctx, txEdges, parentID, childID)
	if err != nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - %w", err)
	}
	if cycles {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - edge %d->%d: %w", parentID, childID, domain.ErrHierarchyCycle)
	}

	// 2. Um líder por papel: remove a aresta anterior do mesmo (child, role)
	if err := txEdges.DeleteByChildAndRole(ctx, childID, role); err != nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - %w", err)
	}

	// 3. Coerência de papéis, sobre o papel primário de cada parte
	nodes, err := txMembers.FindByIDs(ctx, []int64{parentID, childID})
	if err != nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - %w", err)
	}

	var parent, child *domain.MemberNode
	for i := range nodes {
		switch nodes[i].ID {
		case parentID:
			parent = &nodes[i]
		case childID:
			child = &nodes[i]
		}
	}
	if parent == nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - parent %d: %w", parentID, domain.ErrMemberNotFound)
	}
	if child == nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - child %d: %w", childID, domain.ErrMemberNotFound)
	}

	if !domain.IsCoherent(domain.PrimaryRole(parent.Roles), domain.PrimaryRole(child.Roles)) {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - %d over %d: %w", parentID, childID, domain.ErrIncoherentRole)
	}

	// 4. Commit
	edge, err := txEdges.Insert(ctx, parentID, childID, role)
	if err != nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return entities.HierarchyEdge{}, fmt.Errorf("HierarchyService.Assign - failed to commit transaction: %w", err)
	}

	s.afterMutation([]int64{parentID, childID}, []events.HierarchyEvent{{
		EventType:  events.EventHierarchyAssigned,
		ParentID:   parentID,
		ChildID:    childID,
		Role:       role,
		OccurredAt: time.Now().UTC(),
	}})

	return edge, nil
}
