package character

import (
	"context"
	"fmt"
	"starwarsproxy/src/cache"
	"starwarsproxy/src/domain/entities"
)

// GetCharactersByPage não passa pelo store nem enriquece. Página vazia
// também é cacheada.
func (s *CharacterService) GetCharactersByPage(ctx context.Context, page int) ([]entities.Character, error) {
	key := PageKey(page)

	if cached, found := cache.Lookup[[]entities.Character](ctx, s.cache, s.logger, key); found {
		s.logger.Debug("Cache HIT", "key", key)
		if cached == nil {
			cached = []entities.Character{}
		}
		return cached, nil
	}

	characters, err := s.source.FetchPage(ctx, page)
	if err != nil {
		s.logger.Error("Failed to fetch characters page from upstream", "page", page, "error", err)
		return nil, fmt.Errorf("CharacterService.GetCharactersByPage - page %d: %w", page, err)
	}
	if characters == nil {
		characters = []entities.Character{}
	}

	_ = cache.Store(ctx, s.cache, s.logger, key, characters, s.ttl)

	return characters, nil
}
