package stubs

import (
	"starwarsproxy/src/domain/entities"

	"github.com/brianvoe/gofakeit/v6"
)

type MovieDetailsStub struct {
	movie entities.MovieDetails
}

func NewMovieDetailsStub() MovieDetailsStub {
	movie := entities.MovieDetails{
		ID:           gofakeit.Number(1, 2000),
		Title:        gofakeit.MovieName(),
		PosterPath:   "https://image.tmdb.org/t/p/w500/" + gofakeit.LetterN(12) + ".jpg",
		BackdropPath: "https://image.tmdb.org/t/p/original/" + gofakeit.LetterN(12) + ".jpg",
		ReleaseDate:  gofakeit.Date().Format("2006-01-02"),
		Overview:     gofakeit.Sentence(12),
	}

	return MovieDetailsStub{movie: movie}
}

func (ms MovieDetailsStub) WithID(id int) MovieDetailsStub {
	ms.movie.ID = id
	return ms
}

func (ms MovieDetailsStub) WithTitle(title string) MovieDetailsStub {
	ms.movie.Title = title
	return ms
}

func (ms MovieDetailsStub) Get() entities.MovieDetails {
	return ms.movie
}
