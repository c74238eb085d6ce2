package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"discipulado/src/domain"
	"discipulado/src/infra/kafka"
	"discipulado/src/repositories"
	"discipulado/src/services/hierarchy"

	"github.com/google/uuid"
)

// HierarchySyncConsumer aplica comandos de atribuição emitidos pelos
// módulos irmãos (graduação de seminário, conversão de visitante). Os
// comandos chegam com references externas; o consumer resolve os ids
// internos antes de chamar o serviço.
type HierarchySyncConsumer struct {
	logger           *slog.Logger
	hierarchyService *hierarchy.HierarchyService
	memberRepository *repositories.MemberRepository
}

func NewHierarchySyncConsumer(
	logger *slog.Logger,
	hierarchyService *hierarchy.HierarchyService,
	memberRepository *repositories.MemberRepository,
) *HierarchySyncConsumer {
	return &HierarchySyncConsumer{
		logger:           logger,
		hierarchyService: hierarchyService,
		memberRepository: memberRepository,
	}
}

func (c *HierarchySyncConsumer) Start(ctx context.Context, kafkaClient *kafka.KafkaClient, topic string) error {
	c.logger.Info("Starting hierarchy sync consumer", "topic", topic)

	handler := func(messages []kafka.Message) error {
		return c.handleMessages(ctx, messages)
	}

	return kafkaClient.Consumer(ctx, handler, topic)
}

func (c *HierarchySyncConsumer) handleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	c.logger.Info("Processing hierarchy sync batch", "count", len(messages))

	commands := make([]domain.HierarchySyncCommand, 0, len(messages))
	references := make(map[string]struct{})

	for _, msg := range messages {
		var command domain.HierarchySyncCommand
		if err := json.Unmarshal(msg.Value, &command); err != nil {
			c.logger.Error("Failed to unmarshal sync command",
				"error", err,
				"key", msg.Key,
				"value", string(msg.Value))
			return fmt.Errorf("failed to unmarshal sync command with key %s: %w", msg.Key, err)
		}

		if err := validateCommand(command); err != nil {
			// Comando malformado não melhora com retry: loga e descarta
			c.logger.Warn("Skipping invalid sync command", "error", err, "key", msg.Key)
			continue
		}

		references[command.ChildReference] = struct{}{}
		if command.ParentReference != "" {
			references[command.ParentReference] = struct{}{}
		}

		commands = append(commands, command)
	}

	if len(commands) == 0 {
		return nil
	}

	referenceList := make([]string, 0, len(references))
	for reference := range references {
		referenceList = append(referenceList, reference)
	}

	idsByReference, err := c.memberRepository.FindIDsByReferences(ctx, referenceList)
	if err != nil {
		return fmt.Errorf("failed to resolve member references: %w", err)
	}

	// Aplica os comandos na ordem de chegada. Violações de regra de
	// negócio (ciclo, papéis incoerentes, membro desconhecido) nunca são
	// retentadas; falha de store devolve o lote inteiro para redelivery.
	for _, command := range commands {
		if err := c.applyCommand(ctx, command, idsByReference); err != nil {
			return err
		}
	}

	c.logger.Info("Successfully processed hierarchy sync batch", "commands", len(commands))

	return nil
}

func (c *HierarchySyncConsumer) applyCommand(ctx context.Context, command domain.HierarchySyncCommand, idsByReference map[string]int64) error {
	childID, ok := idsByReference[command.ChildReference]
	if !ok {
		c.logger.Warn("Skipping sync command for unknown child reference", "child_reference", command.ChildReference)
		return nil
	}

	switch command.Action {
	case domain.SyncActionAssign:
		parentID, ok := idsByReference[command.ParentReference]
		if !ok {
			c.logger.Warn("Skipping sync command for unknown parent reference", "parent_reference", command.ParentReference)
			return nil
		}

		_, err := c.hierarchyService.Assign(ctx, parentID, childID, command.Role)
		if err != nil {
			if isBusinessRuleViolation(err) {
				c.logger.Warn("Sync command rejected by hierarchy rules",
					"error", err,
					"parent_reference", command.ParentReference,
					"child_reference", command.ChildReference,
					"role", command.Role)
				return nil
			}
			return fmt.Errorf("failed to apply assign command: %w", err)
		}

	case domain.SyncActionRemove:
		if err := c.hierarchyService.Remove(ctx, childID, command.Role); err != nil {
			return fmt.Errorf("failed to apply remove command: %w", err)
		}
	}

	return nil
}

func validateCommand(command domain.HierarchySyncCommand) error {
	if command.Action != domain.SyncActionAssign && command.Action != domain.SyncActionRemove {
		return fmt.Errorf("unknown action %q", command.Action)
	}

	if _, err := uuid.Parse(command.ChildReference); err != nil {
		return fmt.Errorf("child_reference is not a valid UUID: %w", err)
	}

	if command.Action == domain.SyncActionAssign {
		if _, err := uuid.Parse(command.ParentReference); err != nil {
			return fmt.Errorf("parent_reference is not a valid UUID: %w", err)
		}
		if !domain.IsRelationshipRole(command.Role) {
			return fmt.Errorf("unknown relationship role %q", command.Role)
		}
	}

	return nil
}

func isBusinessRuleViolation(err error) bool {
	return errors.Is(err, domain.ErrHierarchyCycle) ||
		errors.Is(err, domain.ErrIncoherentRole) ||
		errors.Is(err, domain.ErrMemberNotFound)
}
