package character

import (
	"context"
	"fmt"
	"log/slog"
	"starwarsproxy/src/cache"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"time"
)

const (
	characterKeyPrefix = "character:"
	pageKeyPrefix      = "characters:page:"
)

// CharacterStore é o sistema de registro dos personagens.
type CharacterStore interface {
	FindByID(ctx context.Context, id string) (*entities.Character, bool, error)
	Save(ctx context.Context, character entities.Character) (*entities.Character, error)
}

// CharacterSource é a API primária (SWAPI).
type CharacterSource interface {
	FetchCharacter(ctx context.Context, id string) (*entities.Character, error)
	FetchPage(ctx context.Context, page int) ([]entities.Character, error)
}

// MovieSource resolve referências de filmes. Nunca falha: referências
// não resolvidas simplesmente ficam fora do resultado.
type MovieSource interface {
	FetchMovies(ctx context.Context, refs []string) []entities.MovieDetails
}

type EventPublisher interface {
	PublishSingleEvent(ctx context.Context, event domain.DomainEvent) error
}

type CharacterService struct {
	cache     cache.Cache
	store     CharacterStore
	source    CharacterSource
	movies    MovieSource
	publisher EventPublisher
	ttl       time.Duration
	logger    *slog.Logger
}

func NewCharacterService(
	cacheClient cache.Cache,
	store CharacterStore,
	source CharacterSource,
	movies MovieSource,
	publisher EventPublisher,
	ttl time.Duration,
	logger *slog.Logger,
) *CharacterService {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	return &CharacterService{
		cache:     cacheClient,
		store:     store,
		source:    source,
		movies:    movies,
		publisher: publisher,
		ttl:       ttl,
		logger:    logger,
	}
}

func CharacterKey(id string) string {
	return characterKeyPrefix + id
}

func PageKey(page int) string {
	return fmt.Sprintf("%s%d", pageKeyPrefix, page)
}
