package hierarchy

import (
	"context"
	"fmt"
	"time"

	"discipulado/src/domain/entities"
	"discipulado/src/services/events"
)

// Remove desfaz a aresta do filho no papel dado. Com papel vazio é o reset
// administrativo: todas as arestas do filho caem. Remover um líder nunca
// cascateia para os descendentes do filho — eles só ficam sem aquele ramo
// até serem reatribuídos.
func (s *HierarchyService) Remove(ctx context.Context, childID int64, role entities.Role) error {
	if role == "" {
		if err := s.edgeRepository.DeleteAllByChild(ctx, childID); err != nil {
			return fmt.Errorf("HierarchyService.Remove - %w", err)
		}
	} else {
		if err := s.edgeRepository.DeleteByChildAndRole(ctx, childID, role); err != nil {
			return fmt.Errorf("HierarchyService.Remove - %w", err)
		}
	}

	s.afterMutation([]int64{childID}, []events.HierarchyEvent{{
		EventType:  events.EventHierarchyRemoved,
		ChildID:    childID,
		Role:       role,
		OccurredAt: time.Now().UTC(),
	}})

	return nil
}
