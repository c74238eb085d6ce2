package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"discipulado/src/domain/entities"
	"discipulado/src/infra/kafka"
)

const (
	EventHierarchyAssigned = "hierarchy.assigned"
	EventHierarchyRemoved  = "hierarchy.removed"
)

// HierarchyEvent é o evento de domínio emitido após cada mutação bem
// sucedida da hierarquia, consumido pelos módulos irmãos (notificações,
// relatórios de células).
type HierarchyEvent struct {
	EventType  string        `json:"event_type"`
	ParentID   int64         `json:"parent_id,omitempty"`
	ChildID    int64         `json:"child_id"`
	Role       entities.Role `json:"role,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type DomainEventPublisher struct {
	logger      *slog.Logger
	kafkaClient *kafka.KafkaClient
	topic       string
}

func NewDomainEventPublisher(
	logger *slog.Logger,
	kafkaClient *kafka.KafkaClient,
	topic string,
) *DomainEventPublisher {
	return &DomainEventPublisher{
		logger:      logger,
		kafkaClient: kafkaClient,
		topic:       topic,
	}
}

// PublishHierarchyEvents publica um lote de eventos de hierarquia no Kafka.
func (p *DomainEventPublisher) PublishHierarchyEvents(ctx context.Context, hierarchyEvents []HierarchyEvent) error {
	if len(hierarchyEvents) == 0 {
		return nil
	}

	kafkaMessages := make([]kafka.Message, 0, len(hierarchyEvents))

	for _, event := range hierarchyEvents {
		eventBytes, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal hierarchy event",
				"error", err,
				"event_type", event.EventType,
				"child_id", event.ChildID)
			continue
		}

		kafkaMessages = append(kafkaMessages, kafka.Message{
			// Particiona pelo filho: eventos do mesmo membro mantêm ordem.
			Key:     strconv.FormatInt(event.ChildID, 10),
			Value:   eventBytes,
			Headers: p.createEventHeaders(event),
		})
	}

	if err := p.kafkaClient.Producer(kafkaMessages, p.topic); err != nil {
		p.logger.Error("Failed to publish hierarchy events to Kafka",
			"error", err,
			"topic", p.topic,
			"events_count", len(kafkaMessages))
		return fmt.Errorf("failed to publish hierarchy events to topic %s: %w", p.topic, err)
	}

	p.logger.Info("Successfully published hierarchy events",
		"topic", p.topic,
		"events_count", len(kafkaMessages))

	return nil
}

// createEventHeaders monta headers para filtragem por assinantes (SNS-like).
func (p *DomainEventPublisher) createEventHeaders(event HierarchyEvent) map[string]string {
	headers := map[string]string{
		"event_type":     event.EventType,
		"source_service": "discipulado-api",
		"schema_version": "v1",
	}

	if event.Role != "" {
		headers["relation_role"] = string(event.Role)
	}

	return headers
}

// PublishSingleEvent is a convenience method to publish a single event
func (p *DomainEventPublisher) PublishSingleEvent(ctx context.Context, event HierarchyEvent) error {
	return p.PublishHierarchyEvents(ctx, []HierarchyEvent{event})
}
