package server

import (
	"encoding/json"
	"starwarsproxy/src/domain/entities"
	"time"
)

type CharacterListItemDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DetailURL string `json:"detailUrl"`
}

type CharacterDetailDTO struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Height       string                  `json:"height"`
	Mass         string                  `json:"mass"`
	HairColor    string                  `json:"hairColor"`
	SkinColor    string                  `json:"skinColor"`
	EyeColor     string                  `json:"eyeColor"`
	BirthYear    string                  `json:"birthYear"`
	Gender       string                  `json:"gender"`
	Homeworld    string                  `json:"homeworld"`
	Films        []string                `json:"films"`
	Species      []string                `json:"species"`
	Vehicles     []string                `json:"vehicles"`
	Starships    []string                `json:"starships"`
	Created      string                  `json:"created"`
	Edited       string                  `json:"edited"`
	URL          string                  `json:"url"`
	MovieDetails []entities.MovieDetails `json:"movieDetails"`
}

type SaveDataRequest struct {
	Type string         `json:"type" validate:"required"`
	Data map[string]any `json:"data" validate:"required"`
}

type RecordDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type HealthDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func MapCharacterToListItem(character entities.Character) CharacterListItemDTO {
	return CharacterListItemDTO{
		ID:        character.ID,
		Name:      character.Name,
		DetailURL: "/api/v1/characters/" + character.ID,
	}
}

func MapCharacterToDetail(character *entities.Character) *CharacterDetailDTO {
	if character == nil {
		return nil
	}

	return &CharacterDetailDTO{
		ID:           character.ID,
		Name:         character.Name,
		Height:       character.Height,
		Mass:         character.Mass,
		HairColor:    character.HairColor,
		SkinColor:    character.SkinColor,
		EyeColor:     character.EyeColor,
		BirthYear:    character.BirthYear,
		Gender:       character.Gender,
		Homeworld:    character.Homeworld,
		Films:        orEmpty(character.Films),
		Species:      orEmpty(character.Species),
		Vehicles:     orEmpty(character.Vehicles),
		Starships:    orEmpty(character.Starships),
		Created:      character.Created,
		Edited:       character.Edited,
		URL:          character.URL,
		MovieDetails: orEmpty(character.MovieDetails),
	}
}

func MapRecordToResponse(record entities.Record) RecordDTO {
	return RecordDTO(record)
}

func MapRecordsToResponse(records []entities.Record) []RecordDTO {
	response := make([]RecordDTO, 0, len(records))
	for _, record := range records {
		response = append(response, MapRecordToResponse(record))
	}
	return response
}

func orEmpty[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
