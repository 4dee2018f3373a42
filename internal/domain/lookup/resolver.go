// Package lookup resolves a final search query to exactly one record.
//
// Resolution is exact and two-step: the query is first tried as a canonical
// key, then translated through the name index (exact display-name match)
// and tried again. Fuzzy matching is deliberately not involved; typeahead
// may be ambiguous, the final fetch may not.
package lookup

import (
	"context"
	"errors"
	"strings"

	"github.com/corey/pokesrc/internal/ports"
	"github.com/rs/zerolog"
)

// ErrNotFound means neither step reached a record. It is a user-visible
// empty result, not a failure.
var ErrNotFound = errors.New("no record found")

// KeyTranslator maps an exact display name to its canonical key.
// *names.Index satisfies it.
type KeyTranslator interface {
	KeyFor(display string) (string, bool)
}

// Via reports which step produced the record.
type Via string

const (
	ViaKey   Via = "key"
	ViaIndex Via = "index"
)

// Result is a resolved record plus how it was reached.
type Result struct {
	Record *ports.Record
	Key    string
	Via    Via
}

// Resolver composes the record fetcher with the name index.
type Resolver struct {
	fetcher ports.RecordFetcher
	names   KeyTranslator
	log     zerolog.Logger
}

// New creates a Resolver. Misses are logged at debug level on logger.
func New(fetcher ports.RecordFetcher, names KeyTranslator, logger zerolog.Logger) *Resolver {
	return &Resolver{fetcher: fetcher, names: names, log: logger}
}

// Resolve returns the record for query or ErrNotFound. Fetch failures of
// any kind count as misses. Only a cancelled ctx is returned as itself.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, ErrNotFound
	}

	if rec := r.fetch(ctx, q); rec != nil {
		return &Result{Record: rec, Key: q, Via: ViaKey}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, ok := r.names.KeyFor(q)
	if !ok {
		return nil, ErrNotFound
	}
	if rec := r.fetch(ctx, key); rec != nil {
		return &Result{Record: rec, Key: key, Via: ViaIndex}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

func (r *Resolver) fetch(ctx context.Context, key string) *ports.Record {
	rec, err := r.fetcher.FetchRecord(ctx, key)
	if err != nil {
		ev := r.log.Debug().Str("key", key)
		if !errors.Is(err, ports.ErrMiss) {
			ev = ev.Err(err)
		}
		ev.Msg("record miss")
		return nil
	}
	return rec
}
