// Package pokeapi fetches records, species names and id labels from a
// PokeAPI-compatible REST source.
package pokeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/corey/pokesrc/internal/adapters/httpjson"
	"github.com/corey/pokesrc/internal/ports"
)

// LabelLang is the language code preferred for labels.
const LabelLang = "ko"

// Label categories, as used in the resource path.
const (
	Ability = "ability"
	Nature  = "nature"
	Move    = "move"
)

var labelCategories = map[string]bool{Ability: true, Nature: true, Move: true}

// Client implements ports.RecordFetcher, ports.SpeciesFetcher and
// ports.LabelResolver.
type Client struct {
	base string
	http *http.Client
}

// New creates a Client rooted at base (e.g. https://pokeapi.co/api/v2).
// A nil httpClient uses http.DefaultClient.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: strings.TrimRight(base, "/"), http: httpClient}
}

type namedRef struct {
	Name string `json:"name"`
}

type localizedName struct {
	Name     string   `json:"name"`
	Language namedRef `json:"language"`
}

type pokemonJSON struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int      `json:"slot"`
		Type namedRef `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int      `json:"base_stat"`
		Stat     namedRef `json:"stat"`
	} `json:"stats"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
}

type namesJSON struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Names []localizedName `json:"names"`
}

// FetchRecord fetches /pokemon/{key}. Keys are matched lowercased.
func (c *Client) FetchRecord(ctx context.Context, key string) (*ports.Record, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil, fmt.Errorf("fetch record: empty key: %w", ports.ErrMiss)
	}
	p, err := httpjson.Get[pokemonJSON](ctx, c.http, c.url("pokemon", key))
	if err != nil {
		return nil, err
	}

	rec := &ports.Record{
		ID:      p.ID,
		Name:    p.Name,
		Height:  p.Height,
		Weight:  p.Weight,
		Types:   make([]string, len(p.Types)),
		Stats:   make([]ports.BaseStat, len(p.Stats)),
		Artwork: p.Sprites.Other["official-artwork"].FrontDefault,
	}
	if rec.Artwork == "" {
		rec.Artwork = p.Sprites.FrontDefault
	}
	// Slots are 1-based; keep slot order even if the source reorders.
	for i, t := range p.Types {
		idx := t.Slot - 1
		if idx < 0 || idx >= len(rec.Types) || rec.Types[idx] != "" {
			idx = i
		}
		rec.Types[idx] = t.Type.Name
	}
	for i, s := range p.Stats {
		rec.Stats[i] = ports.BaseStat{Name: s.Stat.Name, Value: s.BaseStat}
	}
	return rec, nil
}

// FetchSpecies fetches /pokemon-species/{id}.
func (c *Client) FetchSpecies(ctx context.Context, id int) (*ports.Species, error) {
	s, err := httpjson.Get[namesJSON](ctx, c.http, c.url("pokemon-species", strconv.Itoa(id)))
	if err != nil {
		return nil, err
	}
	return &ports.Species{ID: s.ID, Name: s.Name, Names: byLanguage(s.Names)}, nil
}

// ResolveLabel fetches /{category}/{id} and returns the Korean name,
// falling back to the English resource name and then to the id itself.
func (c *Client) ResolveLabel(ctx context.Context, category, id string) (string, error) {
	if !labelCategories[category] {
		return "", fmt.Errorf("resolve label: unknown category %q", category)
	}
	r, err := httpjson.Get[namesJSON](ctx, c.http, c.url(category, id))
	if err != nil {
		return "", err
	}
	if n := byLanguage(r.Names)[LabelLang]; n != "" {
		return n, nil
	}
	if r.Name != "" {
		return r.Name, nil
	}
	return id, nil
}

func (c *Client) url(resource, id string) string {
	return c.base + "/" + resource + "/" + url.PathEscape(id)
}

// byLanguage keeps the first non-empty name per language.
func byLanguage(names []localizedName) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		name := strings.TrimSpace(n.Name)
		if name == "" {
			continue
		}
		if _, ok := out[n.Language.Name]; !ok {
			out[n.Language.Name] = name
		}
	}
	return out
}
