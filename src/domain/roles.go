package domain

import "discipulado/src/domain/entities"

// Ordem de prioridade determinística para resolver o papel primário de um
// membro a partir do seu conjunto de papéis. A fonte original dependia da
// ordem de armazenamento; aqui a ordem é explícita.
var primaryRolePriority = []entities.Role{
	entities.RolePastor,
	entities.RoleLiderDoce,
	entities.RoleLiderCelula,
	entities.RoleDiscipulo,
}

// Ranking de especificidade usado apenas para desduplicação de exibição:
// quando um membro é alcançável por mais de uma aresta, ele aparece sob a
// aresta de papel mais específico.
var specificityRank = map[entities.Role]int{
	entities.RoleLiderCelula: 3,
	entities.RoleLiderDoce:   2,
	entities.RolePastor:      1,
	entities.RoleDiscipulo:   0,
}

// PrimaryRole resolve o papel primário de um conjunto de papéis.
// Membros sem nenhum papel de liderança contam como DISCIPULO.
func PrimaryRole(roles []entities.Role) entities.Role {
	for _, candidate := range primaryRolePriority {
		for _, role := range roles {
			if role == candidate {
				return candidate
			}
		}
	}
	return entities.RoleDiscipulo
}

// SpecificityRank retorna o ranking de exibição do papel de relacionamento.
// Papéis desconhecidos ficam abaixo de qualquer papel conhecido.
func SpecificityRank(role entities.Role) int {
	if rank, ok := specificityRank[role]; ok {
		return rank
	}
	return -1
}

// IsCoherent aplica a única regra semântica de arestas: um membro cujo
// papel primário é DISCIPULO não pode ser registrado como líder de um
// PASTOR ou de um LIDER_DOCE. Todas as outras combinações são permitidas.
func IsCoherent(parentPrimary, childPrimary entities.Role) bool {
	if parentPrimary != entities.RoleDiscipulo {
		return true
	}
	return childPrimary != entities.RolePastor && childPrimary != entities.RoleLiderDoce
}

// IsRelationshipRole valida o papel de uma aresta vindo da borda HTTP/Kafka.
func IsRelationshipRole(role entities.Role) bool {
	_, ok := specificityRank[role]
	return ok
}

// IsAdministrative marca membros fora da árvore (contas de sistema).
func IsAdministrative(member entities.Member) bool {
	return member.HasRole(entities.RoleAdmin)
}
