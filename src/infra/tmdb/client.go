package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"starwarsproxy/src/domain/entities"
	"starwarsproxy/src/infra/httpclient"
	"strconv"
	"strings"
	"sync"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"

	PosterPrefix   = "https://image.tmdb.org/t/p/w500"
	BackdropPrefix = "https://image.tmdb.org/t/p/original"
)

var swapiFilmPattern = regexp.MustCompile(`^https?://swapi\.dev/api/films/(\d+)/?$`)

// Episódio na SWAPI -> id do filme no TMDB.
var movieMapping = map[int]int{
	1: 11, // Episode IV
	2: 5,  // Episode V
	3: 1,  // Episode VI
	4: 4,  // Episode I
	5: 3,  // Episode II
	6: 2,  // Episode III
}

type movie struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
	ReleaseDate  string `json:"release_date"`
	Overview     string `json:"overview"`
}

// Client é a fonte secundária, usada só para enriquecer personagens.
type Client struct {
	httpClient *httpclient.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func NewClient(httpClient *httpclient.Client, baseURL string, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

// MovieID resolve a URL de filme da SWAPI (http ou https) para o id do TMDB.
func MovieID(swapiURL string) (int, bool) {
	matches := swapiFilmPattern.FindStringSubmatch(swapiURL)
	if len(matches) < 2 {
		return 0, false
	}

	episode, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}

	id, ok := movieMapping[episode]
	return id, ok
}

// FetchMovies resolve cada filme distinto em paralelo. Variantes de URL do
// mesmo filme contam uma vez só (dedupe pelo id do TMDB). Referências sem
// mapeamento ou que falharem são descartadas; o lote nunca falha. A saída
// segue a ordem da primeira ocorrência na entrada.
func (c *Client) FetchMovies(ctx context.Context, refs []string) []entities.MovieDetails {
	type lookup struct {
		ref     string
		movieID int
	}

	distinct := make([]lookup, 0, len(refs))
	seen := make(map[int]struct{}, len(refs))
	for _, ref := range refs {
		movieID, ok := MovieID(ref)
		if !ok {
			c.logger.Debug("No TMDB mapping for film reference", "ref", ref)
			continue
		}
		if _, ok := seen[movieID]; ok {
			continue
		}
		seen[movieID] = struct{}{}
		distinct = append(distinct, lookup{ref: ref, movieID: movieID})
	}

	results := make([]*entities.MovieDetails, len(distinct))

	var wg sync.WaitGroup
	for i, l := range distinct {
		wg.Add(1)
		go func(i int, l lookup) {
			defer wg.Done()
			results[i] = c.fetchMovie(ctx, l.ref, l.movieID)
		}(i, l)
	}
	wg.Wait()

	movies := make([]entities.MovieDetails, 0, len(results))
	for _, result := range results {
		if result != nil {
			movies = append(movies, *result)
		}
	}

	return movies
}

func (c *Client) fetchMovie(ctx context.Context, ref string, movieID int) *entities.MovieDetails {
	url := fmt.Sprintf("%s/movie/%d", c.baseURL, movieID)
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}

	var m movie
	if err := c.httpClient.GetJSON(ctx, url, headers, &m); err != nil {
		c.logger.Warn("Failed to fetch movie details, dropping reference", "ref", ref, "tmdb_id", movieID, "error", err)
		return nil
	}

	return &entities.MovieDetails{
		ID:           m.ID,
		Title:        m.Title,
		PosterPath:   PosterPrefix + m.PosterPath,
		BackdropPath: BackdropPrefix + m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		Overview:     m.Overview,
	}
}
