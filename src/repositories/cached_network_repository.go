package repositories

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"discipulado/src/domain"
	"discipulado/src/domain/entities"
	"discipulado/src/infra/redis"
)

type CachedNetworkRepository struct {
	networkQueryRepository *NetworkQueryRepository
	redisClient            *redis.RedisClient
}

type CacheableNetwork struct {
	Nodes      []domain.MemberNode         `json:"nodes"`
	Attendance []entities.AttendanceRecord `json:"attendance"`
}

func NewCachedNetworkRepository(
	networkQueryRepository *NetworkQueryRepository,
	redisClient *redis.RedisClient,
) *CachedNetworkRepository {
	return &CachedNetworkRepository{
		networkQueryRepository: networkQueryRepository,
		redisClient:            redisClient,
	}
}

func (r *CachedNetworkRepository) QueryNetwork(
	ctx context.Context,
	rootID int64,
	attendanceSince time.Time,
) ([]domain.MemberNode, []entities.AttendanceRecord, error) {
	cacheKey := r.generateCacheKey(rootID, attendanceSince)

	cachedData, found, err := r.getFromCache(ctx, cacheKey)
	if found && err == nil {
		log.Printf("Cache HIT for key: %s", cacheKey)
		return cachedData.Nodes, cachedData.Attendance, nil
	}

	if err != nil {
		// Log erro de cache mas continua com PostgreSQL
		log.Printf("Cache error for key %s: %v", cacheKey, err)
	}

	log.Printf("Cache MISS for key: %s", cacheKey)

	nodes, attendance, err := r.networkQueryRepository.QueryNetwork(ctx, rootID, attendanceSince)
	if err != nil {
		return nil, nil, err
	}

	go func() {
		// Timeout de 30 segundos para operação de cache
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		r.setInCache(ctxWithTimeout, cacheKey, nodes, attendance)
	}()

	return nodes, attendance, nil
}

func (r *CachedNetworkRepository) generateCacheKey(rootID int64, attendanceSince time.Time) string {
	keyData := fmt.Sprintf("network:%d:since:%s", rootID, attendanceSince.Format("2006-01"))

	// Hash para chave mais limpa e consistente
	hash := md5.Sum([]byte(keyData))
	return fmt.Sprintf("discipulado:network:%x", hash)
}

func (r *CachedNetworkRepository) getFromCache(ctx context.Context, cacheKey string) (*CacheableNetwork, bool, error) {
	cachedJSON, found, err := r.redisClient.GetKey(ctx, cacheKey)
	if !found || err != nil {
		return nil, found, err
	}

	var result CacheableNetwork
	if err := json.Unmarshal([]byte(cachedJSON), &result); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached network: %w", err)
	}

	return &result, true, nil
}

func (r *CachedNetworkRepository) setInCache(
	ctx context.Context,
	cacheKey string,
	nodes []domain.MemberNode,
	attendance []entities.AttendanceRecord,
) {
	cacheData := CacheableNetwork{
		Nodes:      nodes,
		Attendance: attendance,
	}

	dataJSON, err := json.Marshal(cacheData)
	if err != nil {
		log.Printf("Failed to marshal cache data for key %s: %v", cacheKey, err)
		return
	}

	// Cada membro presente na árvore registra a chave de cache, para que
	// qualquer reatribuição que o toque invalide todas as árvores que o
	// contêm.
	registryKeys := make([]string, len(nodes))
	for i, node := range nodes {
		registryKeys[i] = fmt.Sprintf("registry:member:%d", node.ID)
	}

	err = r.redisClient.SetWithRegistry(ctx, cacheKey, string(dataJSON), registryKeys)
	if err != nil {
		log.Printf("Failed to set cache with registry for key %s: %v", cacheKey, err)
		return
	}

	log.Printf("Cache SET with registry for key: %s (%d members)", cacheKey, len(nodes))
}

func (r *CachedNetworkRepository) InvalidateByMemberIDs(ctx context.Context, memberIDs []int64) error {
	if len(memberIDs) == 0 {
		return nil
	}

	registryKeys := make([]string, len(memberIDs))
	for i, memberID := range memberIDs {
		registryKeys[i] = fmt.Sprintf("registry:member:%d", memberID)
	}

	registryResults, err := r.redisClient.GetMultipleSetMembers(ctx, registryKeys)
	if err != nil {
		return fmt.Errorf("failed to get registry data: %w", err)
	}

	allKeysToDelete := make(map[string]bool)

	for registryKey, relatedKeys := range registryResults {
		// Adicionar o próprio registry
		allKeysToDelete[registryKey] = true

		// Adicionar todas as chaves relacionadas
		for _, relatedKey := range relatedKeys {
			allKeysToDelete[relatedKey] = true
		}
	}

	keysToDelete := make([]string, 0, len(allKeysToDelete))
	for key := range allKeysToDelete {
		keysToDelete = append(keysToDelete, key)
	}

	if len(keysToDelete) > 0 {
		log.Printf("Invalidating %d cache keys for %d members", len(keysToDelete), len(memberIDs))
		return r.redisClient.InvalidateKeys(ctx, keysToDelete)
	}

	return nil
}
