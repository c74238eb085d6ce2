package entities

import "time"

// É a "aresta" da hierarquia: a relação tipada pai→filho. Para um mesmo
// filho existe no máximo uma aresta por papel (reforçado por índice único
// no banco); a reatribuição é sempre delete+insert, nunca update.
type HierarchyEdge struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	ChildID   int64     `json:"child_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
