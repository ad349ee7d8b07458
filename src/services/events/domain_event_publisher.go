package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/infra/kafka"

	"github.com/google/uuid"
)

// MessageProducer é satisfeito por *kafka.KafkaClient.
type MessageProducer interface {
	Producer(messages []kafka.Message, topic string) error
}

type DomainEventPublisher struct {
	logger   *slog.Logger
	producer MessageProducer
	topic    string
}

// NewDomainEventPublisher aceita producer nil: nesse caso os eventos são
// apenas logados em debug e descartados.
func NewDomainEventPublisher(
	logger *slog.Logger,
	producer MessageProducer,
	topic string,
) *DomainEventPublisher {
	return &DomainEventPublisher{
		logger:   logger,
		producer: producer,
		topic:    topic,
	}
}

// PublishDomainEvents publica um lote de eventos. O id vira a chave da
// mensagem para manter a ordem por entidade.
func (p *DomainEventPublisher) PublishDomainEvents(ctx context.Context, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	if p.producer == nil {
		p.logger.Debug("Event publishing disabled, dropping events", "count", len(events))
		return nil
	}

	kafkaMessages := make([]kafka.Message, 0, len(events))

	for _, event := range events {
		eventBytes, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("Failed to marshal domain event", "error", err, "event_type", event.Type, "id", event.ID)
			continue
		}

		kafkaMessages = append(kafkaMessages, kafka.Message{
			Key:     event.ID,
			Value:   eventBytes,
			Headers: p.createEventHeaders(event),
		})
	}

	if err := p.producer.Producer(kafkaMessages, p.topic); err != nil {
		p.logger.Error("Failed to publish domain events to Kafka",
			"error", err,
			"topic", p.topic,
			"events_count", len(kafkaMessages))
		return fmt.Errorf("failed to publish domain events to topic %s: %w", p.topic, err)
	}

	p.logger.Debug("Published domain events", "topic", p.topic, "events_count", len(kafkaMessages))

	return nil
}

// PublishSingleEvent is a convenience method to publish a single domain event
func (p *DomainEventPublisher) PublishSingleEvent(ctx context.Context, event domain.DomainEvent) error {
	return p.PublishDomainEvents(ctx, []domain.DomainEvent{event})
}

// Headers permitem filtrar por tipo sem desserializar o payload.
func (p *DomainEventPublisher) createEventHeaders(event domain.DomainEvent) map[string]string {
	return map[string]string{
		"event_type":     event.Type,
		"entity_type":    event.Category,
		"source_service": "starwarsproxy",
		"schema_version": "v1",
		"event_id":       uuid.NewString(),
	}
}
