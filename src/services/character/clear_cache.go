package character

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
)

// ClearCache remove personagens e páginas. Os dois prefixos são sempre
// tentados; os erros são combinados.
func (s *CharacterService) ClearCache(ctx context.Context) error {
	var errs error

	for _, prefix := range []string{characterKeyPrefix, pageKeyPrefix} {
		if err := s.cache.DeleteByPrefix(ctx, prefix); err != nil {
			s.logger.Error("Failed to clear cache prefix", "prefix", prefix, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("prefix %s: %w", prefix, err))
		}
	}

	if errs != nil {
		return fmt.Errorf("CharacterService.ClearCache - %w", errs)
	}

	s.logger.Info("Character cache cleared")
	return nil
}

// EvictCharacter remove só a entrada de um personagem.
func (s *CharacterService) EvictCharacter(ctx context.Context, id string) error {
	if err := s.cache.Delete(ctx, CharacterKey(id)); err != nil {
		return fmt.Errorf("CharacterService.EvictCharacter - %s: %w", id, err)
	}

	s.logger.Debug("Character evicted from cache", "id", id)
	return nil
}
