package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corey/pokesrc/internal/adapters/pokeapi"
	"github.com/corey/pokesrc/internal/config"
	"github.com/corey/pokesrc/internal/domain/competitive"
	"github.com/corey/pokesrc/internal/domain/effectiveness"
	"github.com/corey/pokesrc/internal/domain/profile"
	"github.com/corey/pokesrc/internal/domain/typechart"
	"github.com/corey/pokesrc/internal/ports"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// IndexSize returns the number of bundled names.
func (a *App) IndexSize() int {
	return a.Names.Len()
}

// Suggest returns typeahead candidates for query in index order.
// limit <= 0 uses the configured suggest_limit.
func (a *App) Suggest(query string, limit int) []ports.Suggestion {
	if limit <= 0 {
		limit = a.Settings().SuggestLimit
	}
	hits := a.Matcher.MatchN(query, limit)
	out := make([]ports.Suggestion, 0, len(hits))
	for _, name := range hits {
		key, _ := a.Names.KeyFor(name)
		out = append(out, ports.Suggestion{
			Name: name,
			Key:  key,
			Rule: a.Matcher.Explain(query, name).String(),
		})
	}
	return out
}

// Types returns the effectiveness profile of one or two raw type tags.
func (a *App) Types(tags []string) (*ports.TypeReport, error) {
	set, err := effectiveness.NewTypeSet(tags...)
	if err != nil {
		return nil, err
	}
	return &ports.TypeReport{
		Types:   badges(set.Types()),
		Defense: tiers(a.Effect.Defensive(set)),
		Offense: tiers(a.Effect.Offensive(set)),
	}, nil
}

// Lookup resolves query to one record and enriches it into a Card.
// lookup.ErrNotFound is returned as is; upstream trouble with species or
// usage data degrades the card instead of failing it.
func (a *App) Lookup(ctx context.Context, query string) (*ports.Card, error) {
	res, err := a.lookup.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	rec := res.Record

	set, err := effectiveness.NewTypeSet(rec.Types...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s types %v: %v", ports.ErrBadRecord, rec.Name, rec.Types, err)
	}

	settings := a.Settings()
	stats := profile.FromBase(rec.Stats)
	role := profile.Classify(stats, settings.RoleBalanceThreshold)

	card := &ports.Card{
		ID:          rec.ID,
		Key:         rec.Name,
		DisplayName: a.displayName(rec.Name),
		Via:         string(res.Via),
		Types:       badges(set.Types()),
		HeightM:     rec.HeightMeters(),
		WeightKg:    rec.WeightKilograms(),
		Artwork:     rec.Artwork,
		Stats:       statLines(rec.Stats),
		Total:       profile.Total(rec.Stats),
		Role:        string(role),
		RoleLabel:   role.Label(),
		Defense:     tiers(a.Effect.Defensive(set)),
		Offense:     tiers(a.Effect.Offensive(set)),
	}

	// Species name and usage report are independent; fetch both at once.
	var (
		species *ports.Species
		report  *ports.UsageReport
	)
	var g errgroup.Group
	g.Go(func() error {
		sp, err := a.species.FetchSpecies(ctx, rec.ID)
		if err != nil {
			log.Debug().Err(err).Int("id", rec.ID).Msg("species unavailable")
			return nil
		}
		species = sp
		return nil
	})
	g.Go(func() error {
		r, err := a.usage.FetchUsage(ctx, rec.ID)
		if err != nil {
			ev := log.Warn()
			if errors.Is(err, ports.ErrMiss) {
				ev = log.Debug()
			}
			ev.Err(err).Int("id", rec.ID).Msg("usage report unavailable")
			return nil
		}
		report = r
		return nil
	})
	g.Wait()

	if species != nil {
		if n := strings.TrimSpace(species.Names[pokeapi.LabelLang]); n != "" {
			card.DisplayName = n
		}
	}
	if report != nil {
		card.Usage, card.UsageFailures = a.summarize(ctx, rec.ID, report, settings)
	}
	return card, nil
}

// displayName is the bundled Korean name, or the key when not bundled.
func (a *App) displayName(key string) string {
	if d, ok := a.Names.DisplayFor(key); ok {
		return d
	}
	return key
}

// aggregator builds an Aggregator for the current settings.
func (a *App) aggregator(settings config.Config) *competitive.Aggregator {
	limits := make(map[competitive.Category]int, len(settings.CategoryLimits))
	for name, n := range settings.CategoryLimits {
		limits[competitive.Category(name)] = n
	}
	agg := competitive.New(limits, map[competitive.Category]competitive.ResolveFunc{
		competitive.Abilities: a.labelFunc(pokeapi.Ability),
		competitive.Natures:   a.labelFunc(pokeapi.Nature),
		competitive.Moves:     a.labelFunc(pokeapi.Move),
		competitive.Terastal:  teraLabel,
	})
	agg.Concurrency = settings.AggregateConcurrency
	return agg
}

func (a *App) labelFunc(category string) competitive.ResolveFunc {
	return func(ctx context.Context, id string) (string, error) {
		return a.labels.ResolveLabel(ctx, category, id)
	}
}

// teraLabel resolves a numeric tera type id locally.
func teraLabel(_ context.Context, id string) (string, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return "", err
	}
	t, ok := typechart.ByID(n)
	if !ok {
		return "", typechart.ErrInvalidType
	}
	return typechart.Label(t), nil
}

func (a *App) summarize(ctx context.Context, id int, report *ports.UsageReport, settings config.Config) ([]ports.UsageCategory, int) {
	agg := a.aggregator(settings)
	sum := agg.Summarize(ctx, competitive.FromReport(report))

	for _, f := range sum.Failures {
		log.Warn().
			Err(f.Err).
			Int("id", id).
			Str("category", string(f.Category)).
			Str("entry", f.ID).
			Bool("dropped", f.Dropped).
			Msg("partial usage aggregation failure")
	}

	cats := competitive.Ordered(agg.Limits)
	out := make([]ports.UsageCategory, 0, len(cats))
	for _, c := range cats {
		ranked := sum.Get(c)
		entries := make([]ports.UsageEntry, len(ranked))
		for i, r := range ranked {
			entries[i] = ports.UsageEntry{ID: r.ID, Name: r.Name, Usage: r.Usage}
		}
		out = append(out, ports.UsageCategory{Category: string(c), Entries: entries})
	}
	return out, len(sum.Failures)
}

func badges(types []typechart.TypeName) []ports.TypeBadge {
	out := make([]ports.TypeBadge, len(types))
	for i, t := range types {
		out[i] = badge(t)
	}
	return out
}

func badge(t typechart.TypeName) ports.TypeBadge {
	return ports.TypeBadge{Type: string(t), Label: typechart.Label(t), Color: typechart.Color(t)}
}

func tiers(m effectiveness.Map) []ports.Tier {
	src := m.Tiers()
	out := make([]ports.Tier, len(src))
	for i, t := range src {
		out[i] = ports.Tier{Multiplier: t.Multiplier, Types: badges(t.Types)}
	}
	return out
}

func statLines(base []ports.BaseStat) []ports.StatLine {
	out := make([]ports.StatLine, len(base))
	for i, b := range base {
		out[i] = ports.StatLine{
			Name:  b.Name,
			Label: profile.StatLabel(b.Name),
			Value: b.Value,
			Ratio: profile.BarRatio(b.Value),
		}
	}
	return out
}
