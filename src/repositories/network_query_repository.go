package repositories

import (
	"context"
	"fmt"
	"time"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
)

// Limite defensivo para a expansão: uma rede real tem milhares de membros,
// não centenas de milhares. Acima disso tratamos como dado anômalo.
const maxNetworkNodes = 100_000

// NetworkQueryRepository materializa o conjunto alcançável a partir de uma
// raiz. A fonte original usava uma CTE recursiva; aqui a travessia é uma
// busca em largura iterativa sobre consultas de adjacência, com conjunto de
// visitados, para manter o mesmo resultado em qualquer storage e terminar
// mesmo se o invariante de aciclicidade tiver sido violado externamente.
type NetworkQueryRepository struct {
	edgeRepository       *HierarchyEdgeRepository
	memberRepository     *MemberRepository
	attendanceRepository *AttendanceRepository
}

func NewNetworkQueryRepository(
	edgeRepository *HierarchyEdgeRepository,
	memberRepository *MemberRepository,
	attendanceRepository *AttendanceRepository,
) *NetworkQueryRepository {
	return &NetworkQueryRepository{
		edgeRepository:       edgeRepository,
		memberRepository:     memberRepository,
		attendanceRepository: attendanceRepository,
	}
}

func (r *NetworkQueryRepository) QueryNetwork(
	ctx context.Context,
	rootID int64,
	attendanceSince time.Time,
) ([]domain.MemberNode, []entities.AttendanceRecord, error) {
	visited := map[int64]struct{}{rootID: {}}
	ids := []int64{rootID}
	frontier := []int64{rootID}

	for len(frontier) > 0 {
		edges, err := r.edgeRepository.FindByParents(ctx, frontier)
		if err != nil {
			return nil, nil, fmt.Errorf("NetworkQueryRepository.QueryNetwork - descendant expansion failed: %w", err)
		}

		frontier = frontier[:0]
		for _, edge := range edges {
			if _, seen := visited[edge.ChildID]; seen {
				continue
			}
			visited[edge.ChildID] = struct{}{}
			ids = append(ids, edge.ChildID)
			frontier = append(frontier, edge.ChildID)
		}

		if len(ids) > maxNetworkNodes {
			return nil, nil, fmt.Errorf("NetworkQueryRepository.QueryNetwork - network rooted at %d exceeds %d nodes", rootID, maxNetworkNodes)
		}
	}

	nodes, err := r.memberRepository.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("NetworkQueryRepository.QueryNetwork - failed to load members: %w", err)
	}

	rootLoaded := false
	for _, node := range nodes {
		if node.ID == rootID {
			rootLoaded = true
			break
		}
	}
	if !rootLoaded {
		return nil, nil, fmt.Errorf("NetworkQueryRepository.QueryNetwork - root member %d: %w", rootID, domain.ErrMemberNotFound)
	}

	attendance, err := r.attendanceRepository.FindByMemberIDsSince(ctx, ids, attendanceSince)
	if err != nil {
		return nil, nil, fmt.Errorf("NetworkQueryRepository.QueryNetwork - failed to load attendance: %w", err)
	}

	return nodes, attendance, nil
}
