// Package wtp runs the "Who's That Pokémon" guessing game.
package wtp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

type Pokemon struct {
	ID       int
	Name     string
	ImageURL string
}

// DisplayName is the API name with a capitalised first letter, as shown in
// chat.
func (p Pokemon) DisplayName() string {
	if p.Name == "" {
		return ""
	}
	return strings.ToUpper(p.Name[:1]) + p.Name[1:]
}

// Client reads creatures from PokeAPI and caches them by ID.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *lru.Cache
}

func NewClient(baseURL string, cacheSize int, httpClient *http.Client) (*Client, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pokemon cache: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		cache:   cache,
	}, nil
}

type pokemonResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
}

func (c *Client) Pokemon(ctx context.Context, id int) (Pokemon, error) {
	if cached, ok := c.cache.Get(id); ok {
		return cached.(Pokemon), nil
	}

	body, err := c.get(ctx, fmt.Sprintf("%s/pokemon/%d", c.baseURL, id))
	if err != nil {
		return Pokemon{}, err
	}

	var resp pokemonResponse
	if err = json.Unmarshal(body, &resp); err != nil {
		return Pokemon{}, fmt.Errorf("failed to decode pokemon %d: %w", id, err)
	}

	image := resp.Sprites.Other["official-artwork"].FrontDefault
	if image == "" {
		image = resp.Sprites.FrontDefault
	}
	if image == "" {
		return Pokemon{}, fmt.Errorf("pokemon %d has no artwork", id)
	}

	p := Pokemon{ID: resp.ID, Name: resp.Name, ImageURL: image}
	c.cache.Add(id, p)
	slog.Debug("Fetched pokemon",
		slog.String("type", "api"),
		slog.Int("id", id),
		slog.String("pokemon", p.Name))
	return p, nil
}

func (c *Client) Image(ctx context.Context, url string) ([]byte, error) {
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	return body, nil
}
