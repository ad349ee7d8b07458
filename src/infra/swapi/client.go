package swapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"starwarsproxy/src/domain"
	"starwarsproxy/src/domain/entities"
	"starwarsproxy/src/infra/httpclient"
	"strings"
)

const DefaultBaseURL = "https://swapi.dev/api"

var peopleIDPattern = regexp.MustCompile(`/people/(\d+)`)

// Formato snake_case devolvido pela SWAPI.
type person struct {
	Name      string   `json:"name"`
	Height    string   `json:"height"`
	Mass      string   `json:"mass"`
	HairColor string   `json:"hair_color"`
	SkinColor string   `json:"skin_color"`
	EyeColor  string   `json:"eye_color"`
	BirthYear string   `json:"birth_year"`
	Gender    string   `json:"gender"`
	Homeworld string   `json:"homeworld"`
	Films     []string `json:"films"`
	Species   []string `json:"species"`
	Vehicles  []string `json:"vehicles"`
	Starships []string `json:"starships"`
	Created   string   `json:"created"`
	Edited    string   `json:"edited"`
	URL       string   `json:"url"`
}

type peoplePage struct {
	Count   int      `json:"count"`
	Next    *string  `json:"next"`
	Results []person `json:"results"`
}

// Client é a fonte primária de personagens.
type Client struct {
	httpClient *httpclient.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(httpClient *httpclient.Client, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// FetchCharacter devolve domain.ErrEntityNotFound quando a SWAPI responde 404.
func (c *Client) FetchCharacter(ctx context.Context, id string) (*entities.Character, error) {
	url := fmt.Sprintf("%s/people/%s/", c.baseURL, id)

	var p person
	err := c.httpClient.GetJSON(ctx, url, nil, &p)
	if httpclient.HasStatus(err, http.StatusNotFound) {
		return nil, fmt.Errorf("swapi.FetchCharacter - character %s: %w", id, domain.ErrEntityNotFound)
	}
	if err != nil {
		c.logger.Error("Failed to fetch character from SWAPI", "id", id, "error", err)
		return nil, fmt.Errorf("swapi.FetchCharacter - character %s: %w", id, err)
	}

	character := toCharacter(p)
	if character.ID == "" {
		character.ID = id
	}

	return &character, nil
}

// FetchPage devolve a página n (1-indexada). Páginas além da última vêm vazias.
func (c *Client) FetchPage(ctx context.Context, page int) ([]entities.Character, error) {
	url := fmt.Sprintf("%s/people/?page=%d", c.baseURL, page)

	var p peoplePage
	err := c.httpClient.GetJSON(ctx, url, nil, &p)
	if httpclient.HasStatus(err, http.StatusNotFound) {
		return []entities.Character{}, nil
	}
	if err != nil {
		c.logger.Error("Failed to fetch characters page from SWAPI", "page", page, "error", err)
		return nil, fmt.Errorf("swapi.FetchPage - page %d: %w", page, err)
	}

	characters := make([]entities.Character, 0, len(p.Results))
	for _, result := range p.Results {
		characters = append(characters, toCharacter(result))
	}

	return characters, nil
}

func toCharacter(p person) entities.Character {
	return entities.Character{
		ID:        extractID(p.URL),
		Name:      p.Name,
		Height:    p.Height,
		Mass:      p.Mass,
		HairColor: p.HairColor,
		SkinColor: p.SkinColor,
		EyeColor:  p.EyeColor,
		BirthYear: p.BirthYear,
		Gender:    p.Gender,
		Homeworld: p.Homeworld,
		Films:     nonNil(p.Films),
		Species:   nonNil(p.Species),
		Vehicles:  nonNil(p.Vehicles),
		Starships: nonNil(p.Starships),
		Created:   p.Created,
		Edited:    p.Edited,
		URL:       p.URL,
	}
}

func extractID(url string) string {
	matches := peopleIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
