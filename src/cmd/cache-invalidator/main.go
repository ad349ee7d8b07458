package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"starwarsproxy/src/adapters/kafka/consumers"
	"starwarsproxy/src/bootstrap"
	"starwarsproxy/src/cache"
	"starwarsproxy/src/helper/env"
	"starwarsproxy/src/infra/kafka"
	"starwarsproxy/src/services/character"

	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting cache invalidator with Uber Fx...")

	bootstrap.LoadEnv()

	app := fx.New(
		// Providers
		fx.Provide(
			bootstrap.NewLogger,
			bootstrap.NewCache,
			newKafkaClient,
			newCharacterService,
			newCacheInvalidationConsumer,
		),

		// Invocations
		fx.Invoke(startConsumer),
	)

	app.Run()
}

func newKafkaClient(logger *slog.Logger) (*kafka.KafkaClient, error) {
	brokers := env.GetStringSlice("KAFKA_BROKERS")
	groupID := env.GetString("KAFKA_CACHE_INVALIDATOR_GROUP_ID", "starwarsproxy-cache-invalidator")
	batchSize := env.GetInt("KAFKA_BATCH_SIZE", 50)

	return kafka.NewKafkaClient(brokers, groupID, batchSize, logger)
}

// Só o cache participa da invalidação; store e upstreams ficam de fora.
func newCharacterService(cacheClient cache.Cache, logger *slog.Logger) *character.CharacterService {
	return character.NewCharacterService(cacheClient, nil, nil, nil, nil, bootstrap.CacheTTL(), logger)
}

func newCacheInvalidationConsumer(
	logger *slog.Logger,
	characterService *character.CharacterService,
) *consumers.CacheInvalidationConsumer {
	return consumers.NewCacheInvalidationConsumer(logger, characterService)
}

func startConsumer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	kafkaClient *kafka.KafkaClient,
	invalidationConsumer *consumers.CacheInvalidationConsumer,
) {
	// O contexto do OnStart expira depois do start; o consumer precisa do seu.
	consumerCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			topic := env.GetString("KAFKA_INVALIDATION_TOPIC", "starwarsproxy.cache-invalidation")

			go func() {
				defer close(done)
				if err := invalidationConsumer.Start(consumerCtx, kafkaClient, topic); err != nil {
					logger.Error("Consumer failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			select {
			case <-done:
			case <-ctx.Done():
			}

			logger.Info("Shutting down Kafka client...")
			if err := kafkaClient.Close(); err != nil {
				logger.Error("Failed to close Kafka client", "error", err)
				return err
			}
			logger.Info("Kafka client shut down gracefully")
			return nil
		},
	})
}
