package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/corey/pokesrc/internal/adapters/bbolt"
	"github.com/corey/pokesrc/internal/ports"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// flightTimeout bounds a shared upstream call. The call runs detached from
// the caller that started it so that one cancelled request does not fail
// the others waiting on the same key.
const flightTimeout = 30 * time.Second

// CachedLabels is a LabelResolver that answers from the cache when it can
// and coalesces concurrent identical misses into one upstream call.
// Cache errors are logged and treated as misses.
type CachedLabels struct {
	next  ports.LabelResolver
	cache ports.Cache // nil = no persistence, coalescing only
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedLabels wraps next. A nil cache still coalesces in-flight lookups.
func NewCachedLabels(next ports.LabelResolver, cache ports.Cache, ttl time.Duration) *CachedLabels {
	return &CachedLabels{next: next, cache: cache, ttl: ttl}
}

// ResolveLabel implements ports.LabelResolver. A caller whose ctx ends
// stops waiting; the shared call keeps running for the others.
func (c *CachedLabels) ResolveLabel(ctx context.Context, category, id string) (string, error) {
	key := category + "/" + id

	if c.cache != nil {
		v, ok, err := c.cache.Get(bbolt.BucketLabels, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("label cache read failed")
		} else if ok {
			return string(v), nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		label, err := c.next.ResolveLabel(fctx, category, id)
		if err != nil {
			return "", err
		}
		if c.cache != nil {
			if err := c.cache.Put(bbolt.BucketLabels, key, []byte(label), c.ttl); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("label cache write failed")
			}
		}
		return label, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// CachedRecords is a RecordFetcher that keeps successful fetches in the
// cache for ttl. Misses are never cached. A ttl of 0 disables caching.
type CachedRecords struct {
	next  ports.RecordFetcher
	cache ports.Cache
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedRecords wraps next.
func NewCachedRecords(next ports.RecordFetcher, cache ports.Cache, ttl time.Duration) *CachedRecords {
	return &CachedRecords{next: next, cache: cache, ttl: ttl}
}

// FetchRecord implements ports.RecordFetcher.
func (c *CachedRecords) FetchRecord(ctx context.Context, key string) (*ports.Record, error) {
	if c.cache == nil || c.ttl <= 0 {
		return c.next.FetchRecord(ctx, key)
	}
	ck := strings.ToLower(strings.TrimSpace(key))

	if v, ok, err := c.cache.Get(bbolt.BucketRecords, ck); err != nil {
		log.Warn().Err(err).Str("key", ck).Msg("record cache read failed")
	} else if ok {
		var rec ports.Record
		if err := sonic.Unmarshal(v, &rec); err == nil {
			return &rec, nil
		}
		log.Warn().Str("key", ck).Msg("record cache entry unreadable, refetching")
	}

	ch := c.group.DoChan(ck, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		rec, err := c.next.FetchRecord(fctx, key)
		if err != nil {
			return nil, err
		}
		if data, err := sonic.Marshal(rec); err == nil {
			if err := c.cache.Put(bbolt.BucketRecords, ck, data, c.ttl); err != nil {
				log.Warn().Err(err).Str("key", ck).Msg("record cache write failed")
			}
		}
		return rec, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	rec, ok := res.Val.(*ports.Record)
	if !ok || rec == nil {
		return nil, errors.New("record fetch returned nothing")
	}
	return rec, nil
}
