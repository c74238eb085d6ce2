package hierarchy

import (
	"context"
	"log/slog"

	"discipulado/src/repositories"
	"discipulado/src/services/events"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HierarchyService é o único ponto de entrada de mutação da hierarquia.
type HierarchyService struct {
	logger                  *slog.Logger
	writePool               *pgxpool.Pool
	edgeRepository          *repositories.HierarchyEdgeRepository
	memberRepository        *repositories.MemberRepository
	cachedNetworkRepository *repositories.CachedNetworkRepository
	eventPublisher          *events.DomainEventPublisher
}

// cachedNetworkRepository e eventPublisher podem ser nil (testes, binários
// sem Redis/Kafka); invalidação e eventos viram no-ops.
func NewHierarchyService(
	logger *slog.Logger,
	writePool *pgxpool.Pool,
	edgeRepository *repositories.HierarchyEdgeRepository,
	memberRepository *repositories.MemberRepository,
	cachedNetworkRepository *repositories.CachedNetworkRepository,
	eventPublisher *events.DomainEventPublisher,
) *HierarchyService {
	return &HierarchyService{
		logger:                  logger,
		writePool:               writePool,
		edgeRepository:          edgeRepository,
		memberRepository:        memberRepository,
		cachedNetworkRepository: cachedNetworkRepository,
		eventPublisher:          eventPublisher,
	}
}

// afterMutation invalida as árvores em cache que contêm os membros tocados
// e publica os eventos de domínio, ambos fora do caminho da resposta.
func (s *HierarchyService) afterMutation(memberIDs []int64, hierarchyEvents []events.HierarchyEvent) {
	go func() {
		ctx := context.Background()

		if s.cachedNetworkRepository != nil {
			if err := s.cachedNetworkRepository.InvalidateByMemberIDs(ctx, memberIDs); err != nil {
				s.logger.Error("Failed to invalidate network cache", "error", err, "member_ids", memberIDs)
			}
		}

		if s.eventPublisher != nil {
			if err := s.eventPublisher.PublishHierarchyEvents(ctx, hierarchyEvents); err != nil {
				s.logger.Error("Failed to publish hierarchy events", "error", err)
			}
		}
	}()
}
