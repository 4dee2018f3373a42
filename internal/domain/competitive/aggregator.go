// Package competitive reduces a raw usage-statistics report to the top
// entries per category, with upstream ids translated into display labels.
//
// Upstream order is trusted: the aggregator takes the first N entries of
// each category as served and never re-sorts. Entries whose percentage does
// not parse are dropped and reported, never replaced by zero. Label lookups
// inside a category run concurrently and are joined before the category is
// returned; output order always equals input order.
package competitive

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/corey/pokesrc/internal/ports"
	"golang.org/x/sync/errgroup"
)

// Category names one ranked grouping of the usage report.
type Category string

const (
	Abilities Category = "abilities"
	Natures   Category = "natures"
	Items     Category = "items"
	Moves     Category = "moves"
	Terastal  Category = "terastal"
)

// DefaultLimits are the per-category cut-offs shown on a record card.
var DefaultLimits = map[Category]int{
	Abilities: 2,
	Natures:   2,
	Items:     2,
	Moves:     4,
}

// DefaultConcurrency bounds in-flight label lookups per category.
const DefaultConcurrency = 8

// Display order of categories on a card.
var displayOrder = []Category{Abilities, Natures, Items, Moves, Terastal}

// Ordered returns the categories present in limits in display order.
func Ordered(limits map[Category]int) []Category {
	out := make([]Category, 0, len(limits))
	for _, c := range displayOrder {
		if _, ok := limits[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// FromReport keys the ranked categories of a usage report by Category.
func FromReport(r *ports.UsageReport) map[Category][]ports.UsageStatRaw {
	if r == nil {
		return nil
	}
	out := make(map[Category][]ports.UsageStatRaw, len(displayOrder))
	for name, entries := range r.Categories() {
		out[Category(name)] = entries
	}
	return out
}

// ResolveFunc translates one upstream id into a label.
type ResolveFunc func(ctx context.Context, id string) (string, error)

// ErrMalformedUsage marks an entry whose percentage could not be parsed.
var ErrMalformedUsage = errors.New("malformed usage value")

// RankedStat is one surviving entry.
type RankedStat struct {
	Name     string  `json:"name"`
	ID       string  `json:"id"`
	Usage    float64 `json:"usage"`
	Previous *int    `json:"previous,omitempty"`
}

// Failure records a partial aggregation failure. Parse failures drop the
// entry; resolve failures keep it under its raw id.
type Failure struct {
	Category Category
	ID       string
	Dropped  bool
	Err      error
}

// Summary is the reduced report.
type Summary struct {
	Categories map[Category][]RankedStat
	Failures   []Failure
}

// Get returns the ranked entries for c (nil if the category was not requested).
func (s Summary) Get(c Category) []RankedStat {
	return s.Categories[c]
}

// Placeholder is the label used for a category without a resolver.
func Placeholder(c Category, id string) string {
	if c == Items {
		return "Item " + id
	}
	return fmt.Sprintf("%s %s", strings.TrimSuffix(string(c), "s"), id)
}

// Aggregator holds the per-category limits and resolvers.
// A category present in Limits but missing from Resolvers gets Placeholder labels.
type Aggregator struct {
	Limits      map[Category]int
	Resolvers   map[Category]ResolveFunc
	Concurrency int
}

// New creates an Aggregator. A nil limits map uses a copy of DefaultLimits.
func New(limits map[Category]int, resolvers map[Category]ResolveFunc) *Aggregator {
	if limits == nil {
		limits = maps.Clone(DefaultLimits)
	}
	return &Aggregator{
		Limits:      limits,
		Resolvers:   resolvers,
		Concurrency: DefaultConcurrency,
	}
}

// ParseUsage parses a string-encoded percentage. NaN and infinities are rejected.
func ParseUsage(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedUsage, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedUsage, raw)
	}
	return v, nil
}

type categoryResult struct {
	stats    []RankedStat
	failures []Failure
}

// Summarize reduces raw to the configured categories. It never fails as a
// whole: every problem is local to one entry and ends up in Failures.
// Categories run concurrently with each other; within a category the
// lookups fan out and are joined before the category completes.
func (a *Aggregator) Summarize(ctx context.Context, raw map[Category][]ports.UsageStatRaw) Summary {
	cats := Ordered(a.Limits)
	results := make([]categoryResult, len(cats))

	var g errgroup.Group
	for i, c := range cats {
		g.Go(func() error {
			results[i] = a.summarizeCategory(ctx, c, raw[c])
			return nil
		})
	}
	g.Wait()

	sum := Summary{Categories: make(map[Category][]RankedStat, len(cats))}
	for i, c := range cats {
		sum.Categories[c] = results[i].stats
		sum.Failures = append(sum.Failures, results[i].failures...)
	}
	return sum
}

func (a *Aggregator) summarizeCategory(ctx context.Context, c Category, entries []ports.UsageStatRaw) categoryResult {
	limit := a.Limits[c]
	if limit < 0 {
		limit = 0
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	var res categoryResult
	kept := make([]RankedStat, 0, len(entries))
	for _, e := range entries {
		usage, err := ParseUsage(e.Val)
		if err != nil {
			res.failures = append(res.failures, Failure{Category: c, ID: e.ID, Dropped: true, Err: err})
			continue
		}
		kept = append(kept, RankedStat{ID: e.ID, Usage: usage, Previous: e.Previous})
	}

	resolve := a.Resolvers[c]
	if resolve == nil {
		for i := range kept {
			kept[i].Name = Placeholder(c, kept[i].ID)
		}
		res.stats = kept
		return res
	}

	errs := make([]error, len(kept))
	var g errgroup.Group
	if a.Concurrency > 0 {
		g.SetLimit(a.Concurrency)
	}
	for i := range kept {
		g.Go(func() error {
			name, err := resolve(ctx, kept[i].ID)
			if err != nil || strings.TrimSpace(name) == "" {
				if err == nil {
					err = errors.New("empty label")
				}
				errs[i] = err
				name = kept[i].ID
			}
			kept[i].Name = name
			return nil
		})
	}
	g.Wait()

	for i, err := range errs {
		if err != nil {
			res.failures = append(res.failures, Failure{Category: c, ID: kept[i].ID, Err: err})
		}
	}
	res.stats = kept
	return res
}
