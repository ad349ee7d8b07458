package entities

// É o personagem como devolvido pela SWAPI, já normalizado para camelCase.
// Films, Species, Vehicles e Starships são URLs opacas; nunca são reescritas
// depois que o personagem foi criado.
type Character struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Height    string `json:"height"`
	Mass      string `json:"mass"`
	HairColor string `json:"hairColor"`
	SkinColor string `json:"skinColor"`
	EyeColor  string `json:"eyeColor"`
	BirthYear string `json:"birthYear"`
	Gender    string `json:"gender"`
	Homeworld string `json:"homeworld"`

	Films     []string `json:"films"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	Starships []string `json:"starships"`

	// Proveniência da SWAPI, imutável.
	Created string `json:"created"`
	Edited  string `json:"edited"`
	URL     string `json:"url"`

	// Enriquecimento anexado em tempo de leitura (TMDB).
	MovieDetails []MovieDetails `json:"movieDetails,omitempty"`
}
