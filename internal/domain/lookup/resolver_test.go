package lookup

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/corey/pokesrc/internal/domain/names"
	"github.com/corey/pokesrc/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves records from a map and records every key it was asked for.
type fakeFetcher struct {
	records map[string]*ports.Record
	fail    map[string]error
	calls   []string
}

func (f *fakeFetcher) FetchRecord(ctx context.Context, key string) (*ports.Record, error) {
	f.calls = append(f.calls, key)
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	if rec, ok := f.records[key]; ok {
		return rec, nil
	}
	return nil, fmt.Errorf("fetch %s: %w", key, ports.ErrMiss)
}

// spyIndex wraps a names.Index and counts translations.
type spyIndex struct {
	idx   *names.Index
	calls int
}

func (s *spyIndex) KeyFor(display string) (string, bool) {
	s.calls++
	return s.idx.KeyFor(display)
}

func newFixture(t *testing.T) (*Resolver, *fakeFetcher, *spyIndex) {
	t.Helper()
	idx, err := names.New([]names.Entry{
		{Display: "피카츄", Key: "pikachu"},
		{Display: "잠만보", Key: "snorlax"},
		{Display: "뮤", Key: "mew"},
	})
	require.NoError(t, err)

	f := &fakeFetcher{
		records: map[string]*ports.Record{
			"pikachu": {ID: 25, Name: "pikachu", Types: []string{"electric"}},
			"snorlax": {ID: 143, Name: "snorlax", Types: []string{"normal"}},
		},
		fail: map[string]error{},
	}
	spy := &spyIndex{idx: idx}
	return New(f, spy, zerolog.Nop()), f, spy
}

func TestResolve_CanonicalKeySkipsIndex(t *testing.T) {
	r, f, spy := newFixture(t)

	res, err := r.Resolve(context.Background(), "pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, res.Record.ID)
	assert.Equal(t, ViaKey, res.Via)
	assert.Equal(t, "pikachu", res.Key)
	assert.Equal(t, 0, spy.calls, "index must not be consulted")
	assert.Equal(t, []string{"pikachu"}, f.calls)
}

func TestResolve_DisplayNameViaIndex(t *testing.T) {
	r, f, spy := newFixture(t)

	res, err := r.Resolve(context.Background(), "잠만보")
	require.NoError(t, err)
	assert.Equal(t, 143, res.Record.ID)
	assert.Equal(t, ViaIndex, res.Via)
	assert.Equal(t, "snorlax", res.Key)
	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, []string{"잠만보", "snorlax"}, f.calls)
}

func TestResolve_NeitherIsNotFound(t *testing.T) {
	r, f, _ := newFixture(t)

	_, err := r.Resolve(context.Background(), "잠만")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"잠만"}, f.calls, "no fuzzy fallback, no second fetch")
}

func TestResolve_IndexHitButRecordMissing(t *testing.T) {
	r, f, _ := newFixture(t)

	_, err := r.Resolve(context.Background(), "뮤")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, []string{"뮤", "mew"}, f.calls)
}

func TestResolve_FetchErrorIsMiss(t *testing.T) {
	r, f, _ := newFixture(t)
	f.fail["snorlax"] = errors.New("connection reset")
	f.fail["잠만보"] = errors.New("connection reset")

	_, err := r.Resolve(context.Background(), "잠만보")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_EmptyQuery(t *testing.T) {
	r, f, spy := newFixture(t)

	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.calls)
	assert.Equal(t, 0, spy.calls)
}

func TestResolve_TrimsQuery(t *testing.T) {
	r, _, _ := newFixture(t)

	res, err := r.Resolve(context.Background(), " 피카츄 ")
	require.NoError(t, err)
	assert.Equal(t, "pikachu", res.Key)
}

func TestResolve_CancelledContext(t *testing.T) {
	r, _, spy := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "잠만보")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, spy.calls)
}
