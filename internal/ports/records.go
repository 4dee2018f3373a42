package ports

import (
	"context"
	"errors"
	"strings"
)

// ErrMiss is returned by fetchers when the upstream source has no entry
// for the requested key (HTTP 404 and friends). Transport failures are
// returned as ordinary wrapped errors.
var ErrMiss = errors.New("upstream miss")

// ErrBadRecord marks upstream data that cannot be used as served, such as
// a record with an unknown type. It is not the caller's fault.
var ErrBadRecord = errors.New("malformed upstream record")

// Record is the creature record as served by the record source.
type Record struct {
	ID      int        `json:"id"`
	Name    string     `json:"name"`   // canonical key
	Height  int        `json:"height"` // decimetres
	Weight  int        `json:"weight"` // hectograms
	Types   []string   `json:"types"`  // slot order
	Stats   []BaseStat `json:"stats"`
	Artwork string     `json:"artwork,omitempty"`
}

// BaseStat is one base stat line ("hp", "attack", "special-attack", ...).
type BaseStat struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HeightMeters converts the record's decimetre height.
func (r *Record) HeightMeters() float64 {
	return float64(r.Height) / 10
}

// WeightKilograms converts the record's hectogram weight.
func (r *Record) WeightKilograms() float64 {
	return float64(r.Weight) / 10
}

// Species carries the localized names of a record.
type Species struct {
	ID    int               `json:"id"`
	Name  string            `json:"name"`
	Names map[string]string `json:"names"` // language code -> name
}

// LocalName returns the name for lang, falling back to the species key.
func (s *Species) LocalName(lang string) string {
	if n := strings.TrimSpace(s.Names[lang]); n != "" {
		return n
	}
	return s.Name
}

// UsageStatRaw is one ranked entry of the usage source: an upstream id,
// a string-encoded percentage, and the previous rank when known.
type UsageStatRaw struct {
	ID       string `json:"id"`
	Val      string `json:"val"`
	Previous *int   `json:"previous,omitempty"`
}

// Teammate is a co-occurring creature in the usage source.
type Teammate struct {
	ID       int `json:"id"`
	Form     int `json:"form"`
	Previous int `json:"previous"`
}

// UsageReport is the raw per-creature payload of the usage source.
// Each category is pre-sorted by descending usage upstream.
type UsageReport struct {
	ID        string         `json:"id"`
	Form      string         `json:"form"`
	Moves     []UsageStatRaw `json:"moves"`
	Abilities []UsageStatRaw `json:"abilities"`
	Natures   []UsageStatRaw `json:"natures"`
	Items     []UsageStatRaw `json:"items"`
	Terastal  []UsageStatRaw `json:"terastal"`
	Teammates []Teammate     `json:"teammates"`
}

// Categories returns the ranked categories keyed by their wire name.
func (u *UsageReport) Categories() map[string][]UsageStatRaw {
	return map[string][]UsageStatRaw{
		"abilities": u.Abilities,
		"natures":   u.Natures,
		"items":     u.Items,
		"moves":     u.Moves,
		"terastal":  u.Terastal,
	}
}

// RecordFetcher looks a record up by canonical key.
// Returns ErrMiss (wrapped) when the source has no such key.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, key string) (*Record, error)
}

// SpeciesFetcher looks up localized names by record id.
type SpeciesFetcher interface {
	FetchSpecies(ctx context.Context, id int) (*Species, error)
}

// UsageFetcher looks up the raw usage report for a record id.
type UsageFetcher interface {
	FetchUsage(ctx context.Context, id int) (*UsageReport, error)
}

// LabelResolver translates an upstream id in a category ("ability",
// "nature", "move") into a display label. Implementations may be network
// backed and keep their own cache.
type LabelResolver interface {
	ResolveLabel(ctx context.Context, category, id string) (string, error)
}

// LabelResolverFunc adapts a function to LabelResolver.
type LabelResolverFunc func(ctx context.Context, category, id string) (string, error)

// ResolveLabel calls f.
func (f LabelResolverFunc) ResolveLabel(ctx context.Context, category, id string) (string, error) {
	return f(ctx, category, id)
}
