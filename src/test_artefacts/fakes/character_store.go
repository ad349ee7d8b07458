package fakes

import (
	"context"
	"starwarsproxy/src/domain/entities"
	"sync"
)

// CharacterStore guarda personagens em memória e conta as chamadas.
type CharacterStore struct {
	mu         sync.Mutex
	characters map[string]entities.Character
	findCalls  []string
	saveCalls  []entities.Character
	FindErr    error
	SaveErr    error
}

func NewCharacterStore() *CharacterStore {
	return &CharacterStore{characters: map[string]entities.Character{}}
}

func (s *CharacterStore) Seed(character entities.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[character.ID] = character
}

func (s *CharacterStore) FindByID(ctx context.Context, id string) (*entities.Character, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.findCalls = append(s.findCalls, id)
	if s.FindErr != nil {
		return nil, false, s.FindErr
	}

	character, ok := s.characters[id]
	if !ok {
		return nil, false, nil
	}
	return &character, true, nil
}

func (s *CharacterStore) Save(ctx context.Context, character entities.Character) (*entities.Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCalls = append(s.saveCalls, character)
	if s.SaveErr != nil {
		return nil, s.SaveErr
	}

	s.characters[character.ID] = character
	return &character, nil
}

func (s *CharacterStore) FindCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.findCalls...)
}

func (s *CharacterStore) SaveCalls() []entities.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Character(nil), s.saveCalls...)
}
