package character

import (
	"context"
	"errors"
	"fmt"
	"starwarsproxy/src/cache"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"sync"
	"time"

	"go.uber.org/multierr"
)

// GetCharacter resolve o personagem na ordem cache -> store -> SWAPI.
// Só o caminho upstream enriquece com TMDB; o store já guarda o snapshot
// enriquecido.
func (s *CharacterService) GetCharacter(ctx context.Context, id string) (*entities.Character, error) {
	key := CharacterKey(id)

	if cached, found := cache.Lookup[entities.Character](ctx, s.cache, s.logger, key); found {
		s.logger.Debug("Cache HIT", "key", key)
		return &cached, nil
	}

	stored, found, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("CharacterService.GetCharacter - store lookup for %s: %w", id, err)
	}
	if found {
		s.logger.Debug("Store HIT", "id", id)
		_ = cache.Store(ctx, s.cache, s.logger, key, stored, s.ttl)
		return stored, nil
	}

	fetched, err := s.source.FetchCharacter(ctx, id)
	if errors.Is(err, domain.ErrEntityNotFound) {
		return nil, err
	}
	if err != nil {
		s.logger.Error("Failed to fetch character from upstream", "id", id, "error", err)
		return nil, fmt.Errorf("CharacterService.GetCharacter - upstream fetch for %s: %w", id, err)
	}

	// A SWAPI normaliza o id ("01" -> "1"). O store e o cache canônico usam o
	// id devolvido; a chave pedida vira apenas um alias no cache.
	keys := []string{key}
	if fetched.ID != id {
		canonical, found, err := s.store.FindByID(ctx, fetched.ID)
		if err != nil {
			return nil, fmt.Errorf("CharacterService.GetCharacter - store lookup for %s: %w", fetched.ID, err)
		}
		if found {
			s.logger.Debug("Store HIT under canonical id", "id", id, "canonical_id", fetched.ID)
			_ = cache.Store(ctx, s.cache, s.logger, key, canonical, s.ttl)
			return canonical, nil
		}
		keys = append(keys, CharacterKey(fetched.ID))
	}

	fetched.MovieDetails = s.movies.FetchMovies(ctx, fetched.Films)

	s.writeBack(ctx, keys, *fetched)
	s.publishFetched(ctx, fetched.ID)

	return fetched, nil
}

// writeBack grava store e cache em paralelo e espera os dois terminarem.
// Falhas são logadas, nunca devolvidas ao chamador.
func (s *CharacterService) writeBack(ctx context.Context, keys []string, character entities.Character) {
	// Cliente desconectado não pode abortar a escrita no sistema de registro.
	ctx = context.WithoutCancel(ctx)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		storeErr error
		errs     error
	)

	wg.Add(1 + len(keys))

	go func() {
		defer wg.Done()
		if _, err := s.store.Save(ctx, character); err != nil {
			mu.Lock()
			storeErr = err
			mu.Unlock()
		}
	}()

	for _, key := range keys {
		go func(key string) {
			defer wg.Done()
			if err := cache.Store(ctx, s.cache, s.logger, key, character, s.ttl); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}(key)
	}

	wg.Wait()

	if storeErr != nil {
		s.logger.Error("Failed to persist fetched character", "id", character.ID, "error", storeErr)
	}
	if errs != nil {
		s.logger.Warn("Best-effort cache write-back partially failed", "id", character.ID, "errors", len(multierr.Errors(errs)), "error", errs)
	}
}

// publishFetched roda destacado da requisição: o producer é síncrono e um
// broker lento não pode atrasar a resposta.
func (s *CharacterService) publishFetched(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)

	event := domain.DomainEvent{
		Type:       domain.EventCharacterFetched,
		ID:         id,
		Category:   domain.CategoryCharacter,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		if err := s.publisher.PublishSingleEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish character event", "id", id, "error", err)
		}
	}()
}
