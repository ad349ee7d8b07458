package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"starwarsproxy/src/infra/kafka"

	"go.uber.org/multierr"
)

// InvalidationMessage é o payload do tópico de invalidação. Sem corpo, a
// chave da mensagem é usada como id.
type InvalidationMessage struct {
	ID  string `json:"id"`
	All bool   `json:"all"`
}

// CharacterCacheInvalidator é satisfeito por *character.CharacterService.
type CharacterCacheInvalidator interface {
	EvictCharacter(ctx context.Context, id string) error
	ClearCache(ctx context.Context) error
}

type CacheInvalidationConsumer struct {
	logger      *slog.Logger
	invalidator CharacterCacheInvalidator
}

func NewCacheInvalidationConsumer(
	logger *slog.Logger,
	invalidator CharacterCacheInvalidator,
) *CacheInvalidationConsumer {
	return &CacheInvalidationConsumer{
		logger:      logger,
		invalidator: invalidator,
	}
}

func (c *CacheInvalidationConsumer) Start(ctx context.Context, kafkaClient *kafka.KafkaClient, topic string) error {
	c.logger.Info("Starting cache invalidation consumer", "topic", topic)

	handler := func(messages []kafka.Message) error {
		return c.HandleMessages(ctx, messages)
	}

	return kafkaClient.Consumer(ctx, handler, topic)
}

// HandleMessages aplica o lote. Mensagens malformadas são descartadas; falhas
// do cache devolvem erro para o lote ser reprocessado.
func (c *CacheInvalidationConsumer) HandleMessages(ctx context.Context, messages []kafka.Message) error {
	if len(messages) == 0 {
		return nil
	}

	clearAll := false
	ids := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, msg := range messages {
		var invalidation InvalidationMessage
		if len(msg.Value) > 0 {
			if err := json.Unmarshal(msg.Value, &invalidation); err != nil {
				c.logger.Error("Discarding malformed invalidation message",
					"error", err,
					"key", msg.Key,
					"value", string(msg.Value))
				continue
			}
		}

		if invalidation.All {
			clearAll = true
			continue
		}

		id := invalidation.ID
		if id == "" {
			id = msg.Key
		}
		if id == "" {
			c.logger.Warn("Skipping invalidation message without id", "value", string(msg.Value))
			continue
		}

		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	// Limpar tudo já cobre as evicções individuais.
	if clearAll {
		if err := c.invalidator.ClearCache(ctx); err != nil {
			return fmt.Errorf("CacheInvalidationConsumer - clear all: %w", err)
		}
		c.logger.Info("Character cache cleared by invalidation message", "batch", len(messages))
		return nil
	}

	var errs error
	for _, id := range ids {
		if err := c.invalidator.EvictCharacter(ctx, id); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if errs != nil {
		return fmt.Errorf("CacheInvalidationConsumer - evict: %w", errs)
	}

	c.logger.Debug("Characters evicted", "count", len(ids))
	return nil
}
