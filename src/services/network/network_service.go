package network

import (
	"discipulado/src/repositories"
)

type NetworkService struct {
	cachedNetworkRepository *repositories.CachedNetworkRepository
}

func NewNetworkService(cachedNetworkRepository *repositories.CachedNetworkRepository) *NetworkService {
	return &NetworkService{cachedNetworkRepository: cachedNetworkRepository}
}
