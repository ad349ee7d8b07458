package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"starwarsproxy/src/cache"
)

const scanBatchSize = 100

// RedisClient implementa cache.Cache. Um endereço usa cliente simples,
// vários endereços usam o cliente de cluster.
type RedisClient struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
	prefix     string
}

func NewRedisClient(addrs string, poolSize int, password string, defaultTTL time.Duration) *RedisClient {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    strings.Split(addrs, ","),
		Password: password,

		// Pool settings para alta concorrência
		PoolSize:     poolSize,
		MinIdleConns: 10,

		// Cluster específico
		MaxRedirects: 3,

		// Timeouts otimizados para cache
		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		// Retry
		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return &RedisClient{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

// WithPrefix isola as chaves (ex: "test:") sem mudar as chaves do chamador.
func (rc *RedisClient) WithPrefix(prefix string) *RedisClient {
	return &RedisClient{
		client:     rc.client,
		defaultTTL: rc.defaultTTL,
		prefix:     prefix,
	}
}

func (rc *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	result := rc.client.HGet(ctx, rc.key(key), "data")

	// Cache miss
	if errors.Is(result.Err(), redis.Nil) {
		return nil, cache.ErrCacheMiss
	}
	if result.Err() != nil {
		return nil, fmt.Errorf("RedisClient.Get - %s: %w", key, result.Err())
	}

	return []byte(result.Val()), nil
}

func (rc *RedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = rc.defaultTTL
	}

	fields := map[string]interface{}{
		"data":      string(value),
		"cached_at": time.Now().Unix(),
	}

	pipe := rc.client.TxPipeline()
	pipe.HSet(ctx, rc.key(key), fields)
	pipe.Expire(ctx, rc.key(key), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("RedisClient.Set - %s: %w", key, err)
	}
	return nil
}

func (rc *RedisClient) Delete(ctx context.Context, key string) error {
	if err := rc.client.Del(ctx, rc.key(key)).Err(); err != nil {
		return fmt.Errorf("RedisClient.Delete - %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix usa SCAN (não bloqueia o servidor como KEYS). Em cluster
// cada master é varrido separadamente.
func (rc *RedisClient) DeleteByPrefix(ctx context.Context, prefix string) error {
	pattern := escapeGlob(rc.key(prefix)) + "*"

	if cluster, ok := rc.client.(*redis.ClusterClient); ok {
		return cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return scanAndDelete(ctx, node, pattern)
		})
	}

	return scanAndDelete(ctx, rc.client, pattern)
}

// Health check
func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *RedisClient) Close() error {
	return rc.client.Close()
}

func (rc *RedisClient) key(key string) string {
	return rc.prefix + key
}

// escapeGlob neutraliza os metacaracteres do MATCH para que o prefixo seja
// comparado literalmente.
func escapeGlob(prefix string) string {
	var b strings.Builder
	b.Grow(len(prefix))

	for _, r := range prefix {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}

func scanAndDelete(ctx context.Context, client redis.Cmdable, pattern string) error {
	var cursor uint64

	for {
		batch, next, err := client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys with pattern %s: %w", pattern, err)
		}

		// Um DEL por chave: em cluster as chaves do lote podem cair em slots diferentes.
		if len(batch) > 0 {
			pipe := client.Pipeline()
			for _, key := range batch {
				pipe.Del(ctx, key)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to delete batch for pattern %s: %w", pattern, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

var _ cache.Cache = (*RedisClient)(nil)
