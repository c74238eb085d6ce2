package stubs

import (
	"time"

	"discipulado/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type HierarchyEdgeStub struct {
	edge entities.HierarchyEdge
}

func NewHierarchyEdgeStub() HierarchyEdgeStub {
	now := time.Now().UTC()

	edge := entities.HierarchyEdge{
		ID:        gofakeit.Int64(),
		ParentID:  gofakeit.Int64(),
		ChildID:   gofakeit.Int64(),
		Role:      entities.RoleDiscipulo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return HierarchyEdgeStub{edge: edge}
}

func (es HierarchyEdgeStub) WithParentID(parentID int64) HierarchyEdgeStub {
	es.edge.ParentID = parentID
	return es
}

func (es HierarchyEdgeStub) WithChildID(childID int64) HierarchyEdgeStub {
	es.edge.ChildID = childID
	return es
}

func (es HierarchyEdgeStub) WithRole(role entities.Role) HierarchyEdgeStub {
	es.edge.Role = role
	return es
}

func (es HierarchyEdgeStub) Get() entities.HierarchyEdge {
	return es.edge
}
