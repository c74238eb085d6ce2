package http

import (
	"encoding/json"
	"time"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
)

// Mensagens de rejeição exibíveis, uma por tipo de erro de validação.
// Nenhum estado interno vaza para o cliente.
const (
	rejectionCycle          = "jerarquía inválida: se detectó un ciclo"
	rejectionIncoherentRole = "jerarquía inválida: los roles de las partes no son compatibles"
	rejectionMemberNotFound = "miembro no encontrado"
)

type AssignHierarchyRequest struct {
	ParentID int64  `json:"parent_id"`
	ChildID  int64  `json:"child_id"`
	Role     string `json:"role"`
}

type HierarchyEdgeDTO struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	ChildID   int64     `json:"child_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type CheckDescendantResponse struct {
	IsDescendant bool `json:"is_descendant"`
}

type IngestAttendanceRequest struct {
	Records []AttendanceRecordDTO `json:"records"`
}

type AttendanceRecordDTO struct {
	MemberID       int64           `json:"member_id"`
	Key            string          `json:"key"`
	Value          json.RawMessage `json:"value"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	ReferenceDate  string          `json:"reference_date"`
}

type NetworkNodeDTO struct {
	ID        int64           `json:"id"`
	Reference string          `json:"reference"`
	Name      string          `json:"name"`
	Roles     []string        `json:"roles"`
	Profile   json.RawMessage `json:"profile,omitempty"`

	Leaders    LeadersDTO                      `json:"leaders"`
	Attendance map[string][]*AttendanceItemDTO `json:"attendance,omitempty"`
	Disciples  []*NetworkNodeDTO               `json:"disciples"`
}

type LeadersDTO struct {
	Pastor      *LeaderRefDTO `json:"pastor,omitempty"`
	LiderDoce   *LeaderRefDTO `json:"lider_doce,omitempty"`
	LiderCelula *LeaderRefDTO `json:"lider_celula,omitempty"`
}

type LeaderRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

type AttendanceItemDTO struct {
	Value         json.RawMessage `json:"value"`
	ReferenceDate time.Time       `json:"reference_date"`
}

func MapNetworkToResponse(node *domain.NetworkNode) *NetworkNodeDTO {
	if node == nil {
		return nil
	}

	// Agrega as presenças por tipo de reunião
	var attendanceByKey map[string][]*AttendanceItemDTO
	if len(node.Attendance) > 0 {
		attendanceByKey = make(map[string][]*AttendanceItemDTO)

		for _, record := range node.Attendance {
			attendanceByKey[string(record.Key)] = append(attendanceByKey[string(record.Key)], &AttendanceItemDTO{
				Value:         record.Value,
				ReferenceDate: record.ReferenceDate,
			})
		}
	}

	roles := make([]string, len(node.Roles))
	for i, role := range node.Roles {
		roles[i] = string(role)
	}

	nodeDTO := &NetworkNodeDTO{
		ID:         node.ID,
		Reference:  node.Reference,
		Name:       node.Name,
		Roles:      roles,
		Profile:    node.Profile,
		Leaders:    mapLeaders(node.Leaders),
		Attendance: attendanceByKey,
		Disciples:  make([]*NetworkNodeDTO, 0, len(node.Disciples)),
	}

	for _, disciple := range node.Disciples {
		nodeDTO.Disciples = append(nodeDTO.Disciples, MapNetworkToResponse(disciple))
	}

	return nodeDTO
}

func mapLeaders(leaders domain.Leaders) LeadersDTO {
	return LeadersDTO{
		Pastor:      mapLeaderRef(leaders.Pastor),
		LiderDoce:   mapLeaderRef(leaders.LiderDoce),
		LiderCelula: mapLeaderRef(leaders.LiderCelula),
	}
}

func mapLeaderRef(ref *domain.LeaderRef) *LeaderRefDTO {
	if ref == nil {
		return nil
	}
	return &LeaderRefDTO{ID: ref.ID, Name: ref.Name}
}

func MapEdgeToResponse(edge entities.HierarchyEdge) HierarchyEdgeDTO {
	return HierarchyEdgeDTO{
		ID:        edge.ID,
		ParentID:  edge.ParentID,
		ChildID:   edge.ChildID,
		Role:      string(edge.Role),
		CreatedAt: edge.CreatedAt,
	}
}
