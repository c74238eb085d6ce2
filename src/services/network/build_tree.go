package network

import (
	"fmt"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
)

// BuildNetworkTree monta a árvore de apresentação a partir do conjunto
// carregado. Um membro pode ser estruturalmente alcançável por mais de uma
// aresta (ex: aresta LIDER_DOCE direta e aresta LIDER_CELULA cujo líder é
// do mesmo doze); na árvore ele aparece sob exatamente uma: a de papel
// mais específico entre as arestas cujo pai também está no conjunto.
// Empates mantêm a primeira encontrada. Membros administrativos ficam fora
// da árvore, e um ciclo vindo de dado corrompido é tolerado: a montagem
// termina e a aresta de retorno é omitida.
func BuildNetworkTree(rootID int64, nodes []domain.MemberNode, attendance []entities.AttendanceRecord) (*domain.NetworkNode, error) {
	attendanceByMember := make(map[int64][]entities.AttendanceRecord)
	for _, record := range attendance {
		attendanceByMember[record.MemberID] = append(attendanceByMember[record.MemberID], record)
	}

	loaded := make(map[int64]*domain.MemberNode, len(nodes))
	for i := range nodes {
		if nodes[i].ID != rootID && domain.IsAdministrative(nodes[i].Member) {
			continue
		}
		loaded[nodes[i].ID] = &nodes[i]
	}

	if _, ok := loaded[rootID]; !ok {
		return nil, fmt.Errorf("root member %d could not be found after assembly: %w", rootID, domain.ErrMemberNotFound)
	}

	// Criar todos os nós de apresentação, com os líderes imediatos
	// resolvidos por papel de aresta
	allNodes := make(map[int64]*domain.NetworkNode, len(loaded))
	for id, memberNode := range loaded {
		allNodes[id] = &domain.NetworkNode{
			Member:     memberNode.Member,
			Leaders:    resolveLeaders(memberNode, loaded),
			Attendance: attendanceByMember[id],
			Disciples:  make([]*domain.NetworkNode, 0),
		}
	}

	// Escolher o pai de exibição de cada nó pela especificidade
	childrenOf := make(map[int64][]int64)
	for i := range nodes {
		node := &nodes[i]
		if node.ID == rootID {
			continue
		}
		if _, ok := allNodes[node.ID]; !ok {
			continue
		}

		displayParent, ok := pickDisplayParent(node, loaded)
		if !ok {
			continue
		}

		childrenOf[displayParent] = append(childrenOf[displayParent], node.ID)
	}

	// Montagem recursiva a partir da raiz, com conjunto de visitados
	visited := make(map[int64]struct{}, len(allNodes))
	return attachChildren(rootID, allNodes, childrenOf, visited), nil
}

// pickDisplayParent escolhe, entre as arestas de pai cujo líder está no
// conjunto carregado, a de maior ranking de especificidade.
func pickDisplayParent(node *domain.MemberNode, loaded map[int64]*domain.MemberNode) (int64, bool) {
	bestRank := -1
	var bestParent int64
	found := false

	for _, edge := range node.ParentEdges {
		if _, inSet := loaded[edge.ParentID]; !inSet {
			continue
		}
		if rank := domain.SpecificityRank(edge.Role); rank > bestRank {
			bestRank = rank
			bestParent = edge.ParentID
			found = true
		}
	}

	return bestParent, found
}

// resolveLeaders resolve os líderes imediatos por papel. Cada papel é
// independente: um membro pode ter pastor, líder de doze e líder de célula
// ao mesmo tempo. O nome só é preenchido quando o líder está no conjunto
// carregado.
func resolveLeaders(node *domain.MemberNode, loaded map[int64]*domain.MemberNode) domain.Leaders {
	var leaders domain.Leaders

	for _, edge := range node.ParentEdges {
		ref := &domain.LeaderRef{ID: edge.ParentID}
		if parent, ok := loaded[edge.ParentID]; ok {
			ref.Name = parent.Name
		}

		switch edge.Role {
		case entities.RolePastor:
			leaders.Pastor = ref
		case entities.RoleLiderDoce:
			leaders.LiderDoce = ref
		case entities.RoleLiderCelula:
			leaders.LiderCelula = ref
		}
	}

	return leaders
}

func attachChildren(id int64, allNodes map[int64]*domain.NetworkNode, childrenOf map[int64][]int64, visited map[int64]struct{}) *domain.NetworkNode {
	visited[id] = struct{}{}
	node := allNodes[id]

	for _, childID := range childrenOf[id] {
		if _, seen := visited[childID]; seen {
			continue
		}
		node.Disciples = append(node.Disciples, attachChildren(childID, allNodes, childrenOf, visited))
	}

	return node
}
