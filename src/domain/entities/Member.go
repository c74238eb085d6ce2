package entities

import (
	"encoding/json"
	"time"
)

// Papel de capacidade de um membro (o que ele é), distinto do papel de
// relacionamento de uma aresta (o que ele exerce sobre outro membro),
// embora compartilhem os mesmos nomes.
type Role string

const (
	RolePastor      Role = "PASTOR"
	RoleLiderDoce   Role = "LIDER_DOCE"
	RoleLiderCelula Role = "LIDER_CELULA"
	RoleDiscipulo   Role = "DISCIPULO"
	RoleAdmin       Role = "ADMIN"
)

// É o "nó" da rede de discipulado. A identidade é dona do módulo de
// gestão de membros; aqui só lemos id, reference, nome, papéis e perfil.
type Member struct {
	ID        int64    `json:"id"`
	Reference string   `json:"reference"`
	Name      string   `json:"name"`
	Roles     []Role   `json:"roles"`
	// Dados cadastrais livres (contato, endereço...). json.RawMessage
	// permite manter o JSON original sem struct específica.
	Profile   json.RawMessage `json:"profile,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HasRole verifica se o membro carrega o papel de capacidade dado.
func (m Member) HasRole(role Role) bool {
	for _, r := range m.Roles {
		if r == role {
			return true
		}
	}
	return false
}
