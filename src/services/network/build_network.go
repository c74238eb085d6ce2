package network

import (
	"context"
	"fmt"
	"time"

	"discipulado/src/domain"
)

// BuildNetwork materializa a rede de discipulado abaixo de rootID: expande
// o conjunto alcançável, carrega os membros com suas arestas e presenças a
// partir de attendanceSince, e monta a árvore desduplicada.
func (ns *NetworkService) BuildNetwork(ctx context.Context, rootID int64, attendanceSince time.Time) (*domain.NetworkNode, error) {
	nodes, attendance, err := ns.cachedNetworkRepository.QueryNetwork(ctx, rootID, attendanceSince)
	if err != nil {
		return nil, fmt.Errorf("NetworkService.BuildNetwork - failed to query network: %w", err)
	}

	tree, err := BuildNetworkTree(rootID, nodes, attendance)
	if err != nil {
		return nil, fmt.Errorf("NetworkService.BuildNetwork - %w", err)
	}

	return tree, nil
}
