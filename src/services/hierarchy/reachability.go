package hierarchy

import (
	"context"
	"fmt"

	"discipulado/src/domain/entities"
	"discipulado/src/repositories"
)

// Limite defensivo das travessias. O conjunto de visitados já garante
// terminação; o limite só protege contra componentes anômalos gigantes.
const maxTraversalNodes = 100_000

// wouldCreateCycle responde se a aresta candidata parent→child fecharia um
// ciclo. Autoatribuição é sempre ciclo; fora isso, a aresta só fecha ciclo
// se o filho já for ancestral do pai proposto (o filho viraria descendente
// de si mesmo). A caminhada sobe de pai em pai, sobre todos os papéis, com
// conjunto de visitados: ela precisa terminar mesmo que o grafo existente
// já esteja corrompido com um ciclo.
func (s *HierarchyService) wouldCreateCycle(ctx context.Context, edgeRepository *repositories.HierarchyEdgeRepository, parentID, childID int64) (bool, error) {
	if parentID == childID {
		return true, nil
	}

	found, err := walkReachable(ctx, parentID, childID, func(ctx context.Context, frontier []int64) ([]entities.HierarchyEdge, error) {
		return edgeRepository.FindByChildren(ctx, frontier)
	}, func(edge entities.HierarchyEdge) int64 {
		return edge.ParentID
	})
	if err != nil {
		return false, fmt.Errorf("HierarchyService.wouldCreateCycle - ancestor walk failed: %w", err)
	}

	return found, nil
}

// IsDescendant responde se target é alcançável descendo a partir de
// ancestor, sobre todos os papéis. É o gate de autorização: "A pode ver o
// recurso de B" reduz a IsDescendant(A, B). Reflexivo por definição.
// Sobre dados anômalos (ciclo proibido) termina e responde false em vez de
// entrar em loop.
func (s *HierarchyService) IsDescendant(ctx context.Context, ancestorID, targetID int64) (bool, error) {
	if ancestorID == targetID {
		return true, nil
	}

	found, err := walkReachable(ctx, ancestorID, targetID, func(ctx context.Context, frontier []int64) ([]entities.HierarchyEdge, error) {
		return s.edgeRepository.FindByParents(ctx, frontier)
	}, func(edge entities.HierarchyEdge) int64 {
		return edge.ChildID
	})
	if err != nil {
		return false, fmt.Errorf("HierarchyService.IsDescendant - descendant walk failed: %w", err)
	}

	return found, nil
}

// walkReachable é a busca em largura comum às duas direções: expande a
// fronteira com as consultas de adjacência em lote e para assim que
// encontra targetID ou esgota o alcançável.
func walkReachable(
	ctx context.Context,
	startID int64,
	targetID int64,
	expand func(context.Context, []int64) ([]entities.HierarchyEdge, error),
	next func(entities.HierarchyEdge) int64,
) (bool, error) {
	visited := map[int64]struct{}{startID: {}}
	frontier := []int64{startID}

	for len(frontier) > 0 {
		edges, err := expand(ctx, frontier)
		if err != nil {
			return false, err
		}

		frontier = frontier[:0]
		for _, edge := range edges {
			id := next(edge)
			if id == targetID {
				return true, nil
			}
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			frontier = append(frontier, id)
		}

		if len(visited) > maxTraversalNodes {
			return false, fmt.Errorf("traversal from %d exceeds %d nodes", startID, maxTraversalNodes)
		}
	}

	return false, nil
}
