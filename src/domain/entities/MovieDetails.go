package entities

// Metadados de filme vindos do TMDB. Nunca persistidos sozinhos,
// sempre pendurados em um Character.
type MovieDetails struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	PosterPath   string `json:"posterPath"`
	BackdropPath string `json:"backdropPath"`
	ReleaseDate  string `json:"releaseDate"`
	Overview     string `json:"overview"`
}
