package record

import (
	"context"
	"fmt"
	"sort"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"

	"golang.org/x/sync/errgroup"
)

// GetExternalAPIHistory junta personagens e filmes, mais recentes primeiro.
// Empates mantêm personagens antes de filmes.
func (s *RecordService) GetExternalAPIHistory(ctx context.Context) ([]entities.Record, error) {
	var characters, movies []entities.Record

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		records, err := s.store.FindAll(gctx, domain.CategoryCharacter)
		if err != nil {
			return fmt.Errorf("listing %s: %w", domain.CategoryCharacter, err)
		}
		characters = records
		return nil
	})

	g.Go(func() error {
		records, err := s.store.FindAll(gctx, domain.CategoryMovie)
		if err != nil {
			return fmt.Errorf("listing %s: %w", domain.CategoryMovie, err)
		}
		movies = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("RecordService.GetExternalAPIHistory - %w", err)
	}

	history := make([]entities.Record, 0, len(characters)+len(movies))
	history = append(history, characters...)
	history = append(history, movies...)

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})

	return history, nil
}
