package stubs

import (
	"fmt"
	"starwarsproxy/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type CharacterStub struct {
	character entities.Character
}

func NewCharacterStub() CharacterStub {
	id := fmt.Sprintf("%d", gofakeit.Number(1, 90))

	character := entities.Character{
		ID:        id,
		Name:      gofakeit.Name(),
		Height:    fmt.Sprintf("%d", gofakeit.Number(60, 230)),
		Mass:      fmt.Sprintf("%d", gofakeit.Number(20, 160)),
		HairColor: gofakeit.Color(),
		SkinColor: gofakeit.Color(),
		EyeColor:  gofakeit.Color(),
		BirthYear: fmt.Sprintf("%dBBY", gofakeit.Number(1, 900)),
		Gender:    gofakeit.RandomString([]string{"male", "female", "n/a"}),
		Homeworld: fmt.Sprintf("https://swapi.dev/api/planets/%d/", gofakeit.Number(1, 60)),
		Films:     []string{"https://swapi.dev/api/films/1/"},
		Species:   []string{},
		Vehicles:  []string{},
		Starships: []string{},
		Created:   gofakeit.Date().UTC().Format("2006-01-02T15:04:05.000000Z"),
		Edited:    gofakeit.Date().UTC().Format("2006-01-02T15:04:05.000000Z"),
		URL:       fmt.Sprintf("https://swapi.dev/api/people/%s/", id),
	}

	return CharacterStub{character: character}
}

func (cs CharacterStub) WithID(id string) CharacterStub {
	cs.character.ID = id
	cs.character.URL = fmt.Sprintf("https://swapi.dev/api/people/%s/", id)
	return cs
}

func (cs CharacterStub) WithName(name string) CharacterStub {
	cs.character.Name = name
	return cs
}

func (cs CharacterStub) WithFilms(films ...string) CharacterStub {
	cs.character.Films = films
	return cs
}

func (cs CharacterStub) WithMovieDetails(details ...entities.MovieDetails) CharacterStub {
	cs.character.MovieDetails = details
	return cs
}

func (cs CharacterStub) Get() entities.Character {
	return cs.character
}
