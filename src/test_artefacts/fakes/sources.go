package fakes

import (
	"context"
	"fmt"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"sync"
)

// CharacterSource simula a SWAPI. Ids ausentes respondem ErrEntityNotFound
// e páginas ausentes respondem vazio.
type CharacterSource struct {
	mu             sync.Mutex
	characters     map[string]entities.Character
	aliases        map[string]string
	pages          map[int][]entities.Character
	characterCalls []string
	pageCalls      []int
	FetchErr       error
}

func NewCharacterSource() *CharacterSource {
	return &CharacterSource{
		characters: map[string]entities.Character{},
		aliases:    map[string]string{},
		pages:      map[int][]entities.Character{},
	}
}

func (s *CharacterSource) SeedCharacter(character entities.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[character.ID] = character
}

// Alias faz requestedID responder com o personagem semeado em canonicalID,
// como a SWAPI faz com "01" e "1".
func (s *CharacterSource) Alias(requestedID string, canonicalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[requestedID] = canonicalID
}

func (s *CharacterSource) SeedPage(page int, characters []entities.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page] = characters
}

func (s *CharacterSource) FetchCharacter(ctx context.Context, id string) (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.characterCalls = append(s.characterCalls, id)
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}

	lookupID := id
	if canonicalID, ok := s.aliases[id]; ok {
		lookupID = canonicalID
	}

	character, ok := s.characters[lookupID]
	if !ok {
		return nil, fmt.Errorf("character %s: %w", id, domain.ErrEntityNotFound)
	}

	// Cópia das listas para o chamador não alterar o seed.
	character.Films = append([]string(nil), character.Films...)
	character.MovieDetails = nil
	return &character, nil
}

func (s *CharacterSource) FetchPage(ctx context.Context, page int) ([]entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pageCalls = append(s.pageCalls, page)
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}

	characters, ok := s.pages[page]
	if !ok {
		return []entities.Character{}, nil
	}
	return append([]entities.Character(nil), characters...), nil
}

func (s *CharacterSource) CharacterCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.characterCalls...)
}

func (s *CharacterSource) PageCalls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pageCalls...)
}

// MovieSource resolve só as referências semeadas, descartando o resto.
type MovieSource struct {
	mu     sync.Mutex
	movies map[string]entities.MovieDetails
	calls  [][]string
}

func NewMovieSource() *MovieSource {
	return &MovieSource{movies: map[string]entities.MovieDetails{}}
}

func (s *MovieSource) Seed(ref string, movie entities.MovieDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movies[ref] = movie
}

func (s *MovieSource) FetchMovies(ctx context.Context, refs []string) []entities.MovieDetails {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, append([]string(nil), refs...))

	movies := make([]entities.MovieDetails, 0, len(refs))
	for _, ref := range refs {
		if movie, ok := s.movies[ref]; ok {
			movies = append(movies, movie)
		}
	}
	return movies
}

func (s *MovieSource) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.calls...)
}

// EventPublisher guarda os eventos publicados.
type EventPublisher struct {
	mu     sync.Mutex
	events []domain.DomainEvent
	Err    error
	// Hold, quando não nil, segura cada publicação até ser fechado (broker lento).
	Hold chan struct{}
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

func (p *EventPublisher) PublishSingleEvent(ctx context.Context, event domain.DomainEvent) error {
	if p.Hold != nil {
		<-p.Hold
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)
	return p.Err
}

func (p *EventPublisher) Events() []domain.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.DomainEvent(nil), p.events...)
}
