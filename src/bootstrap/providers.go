package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"starwarsproxy/src/cache"
	"starwarsproxy/src/helper/env"
	"starwarsproxy/src/infra/httpclient"
	"starwarsproxy/src/infra/kafka"
	"starwarsproxy/src/infra/postgres"
	"starwarsproxy/src/infra/redis"
	"starwarsproxy/src/infra/swapi"
	"starwarsproxy/src/infra/tmdb"
	"starwarsproxy/src/repositories"
	"starwarsproxy/src/server"
	"starwarsproxy/src/services/character"
	"starwarsproxy/src/services/events"
	"starwarsproxy/src/services/record"
	"strings"
	"time"

	"go.uber.org/fx"
)

// Module monta o grafo completo da API, sem o transporte.
var Module = fx.Options(
	fx.Provide(
		NewLogger,
		NewCache,
		NewReadWriteClient,
		newRecordRepository,
		newCharacterRepository,
		newHTTPClient,
		newSWAPIClient,
		newTMDBClient,
		NewEventPublisher,
		newCharacterService,
		newRecordService,
		newServer,
	),
)

func CacheTTL() time.Duration {
	return env.GetSeconds("CACHE_TTL_SECONDS", int(cache.DefaultTTL/time.Second))
}

// NewCache escolhe o backend por CACHE_DRIVER (redis, padrão, ou memory).
func NewCache(lc fx.Lifecycle, logger *slog.Logger) (cache.Cache, error) {
	driver := env.GetString("CACHE_DRIVER", "redis")

	switch driver {
	case "memory":
		logger.Info("Using in-memory cache")
		return cache.NewMemory(), nil

	case "redis":
		redisClient := redis.NewRedisClient(
			env.MustGetString("REDIS_HOSTS"),
			env.GetInt("REDIS_POOL_SIZE", 50),
			env.GetString("REDIS_PASSWORD"),
			CacheTTL(),
		)
		if prefix := env.GetString("REDIS_KEY_PREFIX"); prefix != "" {
			redisClient = redisClient.WithPrefix(prefix)
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				// Cache fora do ar não impede o start; as leituras caem para o store.
				if err := redisClient.HealthCheck(ctx); err != nil {
					logger.Warn("Redis not reachable at startup", "error", err)
				}
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return redisClient.Close()
			},
		})

		return redisClient, nil

	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER %q", driver)
	}
}

func NewReadWriteClient(lc fx.Lifecycle, logger *slog.Logger) (*postgres.ReadWriteClient, error) {
	client, err := postgres.NewReadWriteClient(postgres.ConfigFromEnv("", 25))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx); err != nil {
				return err
			}
			if err := client.EnsureSchema(ctx); err != nil {
				return err
			}
			logger.Info("Records schema ready")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			client.Close()
			return nil
		},
	})

	return client, nil
}

func newRecordRepository(client *postgres.ReadWriteClient) *repositories.RecordRepository {
	return repositories.NewRecordRepository(client.Read(), client.Write())
}

func newCharacterRepository(recordRepository *repositories.RecordRepository) *repositories.CharacterRepository {
	return repositories.NewCharacterRepository(recordRepository)
}

func newHTTPClient(logger *slog.Logger) *httpclient.Client {
	return httpclient.NewClient(env.GetSeconds("UPSTREAM_TIMEOUT_SECONDS", 30), logger)
}

func newSWAPIClient(httpClient *httpclient.Client, logger *slog.Logger) *swapi.Client {
	return swapi.NewClient(httpClient, env.GetString("SWAPI_BASE_URL", swapi.DefaultBaseURL), logger)
}

func newTMDBClient(httpClient *httpclient.Client, logger *slog.Logger) *tmdb.Client {
	return tmdb.NewClient(
		httpClient,
		env.GetString("TMDB_BASE_URL", tmdb.DefaultBaseURL),
		env.GetString("TMDB_API_KEY"),
		logger,
	)
}

// NewEventPublisher devolve um publisher desligado quando KAFKA_BROKERS está vazio.
func NewEventPublisher(lc fx.Lifecycle, logger *slog.Logger) (*events.DomainEventPublisher, error) {
	brokers := env.GetStringSlice("KAFKA_BROKERS")
	topic := env.GetString("KAFKA_EVENTS_TOPIC", "starwarsproxy.events")

	if len(brokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, domain events disabled")
		return events.NewDomainEventPublisher(logger, nil, topic), nil
	}

	kafkaClient, err := kafka.NewKafkaClient(brokers, "", env.GetInt("KAFKA_BATCH_SIZE", 50), logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return kafkaClient.Close()
		},
	})

	return events.NewDomainEventPublisher(logger, kafkaClient, topic), nil
}

func newCharacterService(
	cacheClient cache.Cache,
	characterRepository *repositories.CharacterRepository,
	swapiClient *swapi.Client,
	tmdbClient *tmdb.Client,
	publisher *events.DomainEventPublisher,
	logger *slog.Logger,
) *character.CharacterService {
	return character.NewCharacterService(cacheClient, characterRepository, swapiClient, tmdbClient, publisher, CacheTTL(), logger)
}

func newRecordService(
	recordRepository *repositories.RecordRepository,
	publisher *events.DomainEventPublisher,
	logger *slog.Logger,
) *record.RecordService {
	return record.NewRecordService(recordRepository, publisher, logger)
}

func newServer(
	logger *slog.Logger,
	characterService *character.CharacterService,
	recordService *record.RecordService,
) *server.Server {
	// SERVER_ADDR aceita só a porta ("8888") ou host:porta.
	addr := env.GetString("SERVER_ADDR", "8888")
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return server.NewServer(logger, addr, characterService, recordService)
}
