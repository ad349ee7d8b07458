package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
)

// CharacterRepository grava personagens como records do tipo "character".
type CharacterRepository struct {
	recordRepository *RecordRepository
}

func NewCharacterRepository(recordRepository *RecordRepository) *CharacterRepository {
	return &CharacterRepository{recordRepository: recordRepository}
}

func (r *CharacterRepository) FindByID(ctx context.Context, id string) (*entities.Character, bool, error) {
	record, found, err := r.recordRepository.FindByID(ctx, id, domain.CategoryCharacter)
	if err != nil || !found {
		return nil, found, err
	}

	character, err := decodeCharacter(*record)
	if err != nil {
		return nil, false, fmt.Errorf("CharacterRepository.FindByID - %w", err)
	}

	return character, true, nil
}

func (r *CharacterRepository) FindAll(ctx context.Context) ([]entities.Character, error) {
	records, err := r.recordRepository.FindAll(ctx, domain.CategoryCharacter)
	if err != nil {
		return nil, err
	}

	characters := make([]entities.Character, 0, len(records))
	for _, record := range records {
		character, err := decodeCharacter(record)
		if err != nil {
			return nil, fmt.Errorf("CharacterRepository.FindAll - %w", err)
		}
		characters = append(characters, *character)
	}

	return characters, nil
}

func (r *CharacterRepository) Save(ctx context.Context, character entities.Character) (*entities.Character, error) {
	record, err := encodeCharacter(character)
	if err != nil {
		return nil, fmt.Errorf("CharacterRepository.Save - %w", err)
	}

	if _, err := r.recordRepository.Save(ctx, record); err != nil {
		return nil, err
	}

	return &character, nil
}

func (r *CharacterRepository) Update(ctx context.Context, character entities.Character) (*entities.Character, error) {
	record, err := encodeCharacter(character)
	if err != nil {
		return nil, fmt.Errorf("CharacterRepository.Update - %w", err)
	}

	if _, err := r.recordRepository.Update(ctx, record); err != nil {
		return nil, err
	}

	return &character, nil
}

func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	return r.recordRepository.Delete(ctx, id, domain.CategoryCharacter)
}

func encodeCharacter(character entities.Character) (entities.Record, error) {
	data, err := json.Marshal(character)
	if err != nil {
		return entities.Record{}, fmt.Errorf("failed to marshal character %s: %w", character.ID, err)
	}

	return entities.Record{
		ID:   character.ID,
		Type: domain.CategoryCharacter,
		Data: data,
	}, nil
}

func decodeCharacter(record entities.Record) (*entities.Character, error) {
	var character entities.Character
	if err := json.Unmarshal(record.Data, &character); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character %s: %w", record.ID, err)
	}

	// O id da linha é a fonte da verdade.
	character.ID = record.ID
	return &character, nil
}
