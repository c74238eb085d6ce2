package domain

import (
	"errors"

	"discipulado/src/domain/entities"
)

var (
	ErrMemberNotFound = errors.New("member not found")

	// Arestas rejeitadas pela validação de atribuição. Nunca são
	// retentadas: representam violação de regra de negócio, não falha
	// transitória.
	ErrHierarchyCycle = errors.New("hierarchy assignment would create a cycle")
	ErrIncoherentRole = errors.New("hierarchy assignment violates role coherence")

	// Uso direto indevido do edge store: insert sem delete prévio para o
	// mesmo (child, role). Assign trata a substituição internamente e não
	// deve vazar este erro.
	ErrEdgeConflict = errors.New("hierarchy edge already exists for child and role")

	ErrUnavailableServer = errors.New("Oops, something unexpected happened. Please try again later.")
)

// ############################################################
// ############ PROCESSO DE LEITURA DA REDE ###################
// ############################################################

// MemberNode é o registro completo carregado em lote pela materialização:
// o membro mais as suas próprias arestas de entrada (pais) e saída (filhos).
type MemberNode struct {
	entities.Member

	ParentEdges []entities.HierarchyEdge
	ChildEdges  []entities.HierarchyEdge
}

// LeaderRef identifica um líder imediato resolvido por papel de aresta.
type LeaderRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// Leaders agrupa os líderes imediatos de um membro, um por papel. Um membro
// pode ter os três simultaneamente, por atribuição direta ou herdada.
type Leaders struct {
	Pastor      *LeaderRef `json:"pastor,omitempty"`
	LiderDoce   *LeaderRef `json:"lider_doce,omitempty"`
	LiderCelula *LeaderRef `json:"lider_celula,omitempty"`
}

// NetworkNode é a árvore de apresentação montada por requisição e
// descartada após a resposta. Um membro aparece no máximo uma vez na
// árvore inteira, garantido pela regra de especificidade.
type NetworkNode struct {
	entities.Member

	Leaders    Leaders
	Attendance []entities.AttendanceRecord
	Disciples  []*NetworkNode
}

// ############################################################
// ######### PROCESSO DE SINCRONIZAÇÃO (KAFKA) ################
// ############################################################

// Ações aceitas pelos comandos de sincronização vindos dos módulos irmãos
// (graduação de seminário, conversão de visitante, reset administrativo).
const (
	SyncActionAssign = "assign"
	SyncActionRemove = "remove"
)

// HierarchySyncCommand referencia membros pela reference externa (UUID),
// pois os módulos produtores não conhecem os ids internos.
type HierarchySyncCommand struct {
	Action          string        `json:"action"`
	ParentReference string        `json:"parent_reference,omitempty"`
	ChildReference  string        `json:"child_reference"`
	Role            entities.Role `json:"role,omitempty"`
}
