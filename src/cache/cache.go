package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTTL é o TTL usado quando nada for configurado (30 minutos).
const DefaultTTL = 1800 * time.Second

// ErrCacheMiss is returned by Get when the key is absent or expired.
// A stored empty value is a hit, never ErrCacheMiss.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the key-value port used by the orchestrators.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Lookup lê e decodifica a chave. Qualquer falha (backend fora do ar, JSON
// inválido) vira miss com log de warning; o chamador segue para o próximo tier.
func Lookup[T any](ctx context.Context, c Cache, logger *slog.Logger, key string) (T, bool) {
	var value T

	raw, err := c.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return value, false
	}
	if err != nil {
		logger.Warn("Cache get failed, treating as miss", "key", key, "error", err)
		return value, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		logger.Warn("Cache payload malformed, treating as miss", "key", key, "error", err)
		var zero T
		return zero, false
	}

	return value, true
}

// Store serializa e grava a chave. O erro é logado e devolvido apenas para
// quem precisa agregar resultados; nunca deve interromper a operação.
func Store(ctx context.Context, c Cache, logger *slog.Logger, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to marshal cache payload", "key", key, "error", err)
		return fmt.Errorf("cache.Store - failed to marshal %s: %w", key, err)
	}

	if err := c.Set(ctx, key, payload, ttl); err != nil {
		logger.Warn("Cache set failed", "key", key, "error", err)
		return fmt.Errorf("cache.Store - failed to set %s: %w", key, err)
	}

	logger.Debug("Cache SET", "key", key, "ttl", ttl)
	return nil
}
