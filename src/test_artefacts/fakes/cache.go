package fakes

import (
	"context"
	"sync"
	"time"

	"starwarsproxy/src/cache"
)

// Cache embrulha um cache.Memory e registra cada chamada, permitindo
// injetar falhas por operação.
type Cache struct {
	*cache.Memory

	mu        sync.Mutex
	gets      []string
	sets      []string
	deletes   []string
	prefixes  []string
	lastTTL   time.Duration
	GetErr    error
	SetErr    error
	DeleteErr error
}

func NewCache() *Cache {
	return &Cache{Memory: cache.NewMemory()}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	c.gets = append(c.gets, key)
	err := c.GetErr
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return c.Memory.Get(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets = append(c.sets, key)
	c.lastTTL = ttl
	err := c.SetErr
	c.mu.Unlock()

	if err != nil {
		return err
	}
	return c.Memory.Set(ctx, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.deletes = append(c.deletes, key)
	err := c.DeleteErr
	c.mu.Unlock()

	if err != nil {
		return err
	}
	return c.Memory.Delete(ctx, key)
}

func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	c.prefixes = append(c.prefixes, prefix)
	err := c.DeleteErr
	c.mu.Unlock()

	if err != nil {
		return err
	}
	return c.Memory.DeleteByPrefix(ctx, prefix)
}

// Seed grava direto no Memory, sem registrar a chamada.
func (c *Cache) Seed(key string, value []byte) {
	_ = c.Memory.Set(context.Background(), key, value, 0)
}

func (c *Cache) Gets() []string     { return c.snapshot(&c.gets) }
func (c *Cache) Sets() []string     { return c.snapshot(&c.sets) }
func (c *Cache) Deletes() []string  { return c.snapshot(&c.deletes) }
func (c *Cache) Prefixes() []string { return c.snapshot(&c.prefixes) }

func (c *Cache) LastTTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastTTL
}

func (c *Cache) snapshot(calls *[]string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), *calls...)
}
