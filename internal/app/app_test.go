package app

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/corey/pokesrc/internal/config"
	"github.com/corey/pokesrc/internal/domain/effectiveness"
	"github.com/corey/pokesrc/internal/domain/lookup"
	"github.com/corey/pokesrc/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fakes
// =============================================================================

type fakeRecords struct {
	mu    sync.Mutex
	byKey map[string]*ports.Record
	calls []string
}

func (f *fakeRecords) FetchRecord(_ context.Context, key string) (*ports.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, key)
	if r, ok := f.byKey[key]; ok {
		return r, nil
	}
	return nil, ports.ErrMiss
}

type fakeSpecies map[int]*ports.Species

func (f fakeSpecies) FetchSpecies(_ context.Context, id int) (*ports.Species, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, ports.ErrMiss
}

type fakeUsage map[int]*ports.UsageReport

func (f fakeUsage) FetchUsage(_ context.Context, id int) (*ports.UsageReport, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, ports.ErrMiss
}

type fakeLabels struct {
	mu     sync.Mutex
	labels map[string]string // "category/id" -> label
	calls  int
}

func (f *fakeLabels) ResolveLabel(_ context.Context, category, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if l, ok := f.labels[category+"/"+id]; ok {
		return l, nil
	}
	return "", ports.ErrMiss
}

func garchomp() *ports.Record {
	return &ports.Record{
		ID: 445, Name: "garchomp", Height: 19, Weight: 950,
		Types: []string{"dragon", "ground"},
		Stats: []ports.BaseStat{
			{Name: "hp", Value: 108}, {Name: "attack", Value: 130},
			{Name: "defense", Value: 95}, {Name: "special-attack", Value: 80},
			{Name: "special-defense", Value: 85}, {Name: "speed", Value: 102},
		},
	}
}

func garchompUsage() *ports.UsageReport {
	return &ports.UsageReport{
		ID: "445",
		Abilities: []ports.UsageStatRaw{
			{ID: "24", Val: "70.3"}, {ID: "8", Val: "29.7"}, {ID: "1", Val: "0.1"},
		},
		Natures: []ports.UsageStatRaw{{ID: "13", Val: "55.0"}, {ID: "3", Val: "n/a"}},
		Items:   []ports.UsageStatRaw{{ID: "275", Val: "30.5"}, {ID: "197", Val: "20.0"}},
		Moves: []ports.UsageStatRaw{
			{ID: "89", Val: "85.2"}, {ID: "200", Val: "60.1"},
			{ID: "444", Val: "50.0"}, {ID: "14", Val: "40.0"}, {ID: "157", Val: "30.0"},
		},
	}
}

type fixture struct {
	app     *App
	records *fakeRecords
	labels  *fakeLabels
}

func newTestApp(t *testing.T, settings config.Config) *fixture {
	t.Helper()
	records := &fakeRecords{byKey: map[string]*ports.Record{"garchomp": garchomp()}}
	labels := &fakeLabels{labels: map[string]string{
		"ability/24": "까칠한피부",
		"ability/8":  "모래숨기",
		"nature/13":  "명랑",
		"move/89":    "지진",
		"move/200":   "역린",
		"move/444":   "스톤에지",
		// move/14 missing: falls back to its id
	}}
	a, err := New(Config{
		ProjectRoot: t.TempDir(),
		Settings:    settings,
		NoCache:     true,
		Records:     records,
		Species: fakeSpecies{445: {ID: 445, Name: "garchomp", Names: map[string]string{
			"ko": "한카리아스", "en": "Garchomp",
		}}},
		Usage:  fakeUsage{445: garchompUsage()},
		Labels: labels,
	})
	require.NoError(t, err)
	t.Cleanup(func() { a.Stop() })
	return &fixture{app: a, records: records, labels: labels}
}

// =============================================================================
// Initialization
// =============================================================================

func TestNew_LoadsBundledData(t *testing.T) {
	f := newTestApp(t, config.Config{})
	assert.Equal(t, 168, f.app.IndexSize())
	assert.Equal(t, 120, f.app.Chart.Entries())
	assert.Equal(t, config.Default(), f.app.Settings())
}

func TestNew_BadBundleIsInitializationFailure(t *testing.T) {
	bad := fstest.MapFS{
		"v1/names.json":     {Data: []byte(`[{"name":"피카츄","key":"pikachu"}]`)},
		"v1/typechart.json": {Data: []byte(`{"fire":{"shadow":2}}`)},
	}
	_, err := New(Config{ProjectRoot: t.TempDir(), NoCache: true, Data: bad})
	assert.ErrorIs(t, err, ErrInitialization)

	_, err = New(Config{ProjectRoot: t.TempDir(), NoCache: true, Data: fstest.MapFS{}})
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestNew_RequiresProjectRoot(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrInitialization)
}

func TestNew_OpensCacheUnderProjectRoot(t *testing.T) {
	root := t.TempDir()
	a, err := New(Config{ProjectRoot: root, Records: &fakeRecords{}})
	require.NoError(t, err)
	defer a.Stop()

	require.NotNil(t, a.Store)
	assert.Equal(t, filepath.Join(root, ".pokesrc", "cache.db"), a.Store.Path())
}

// =============================================================================
// Suggest / Types
// =============================================================================

func TestSuggest(t *testing.T) {
	f := newTestApp(t, config.Config{})

	got := f.app.Suggest("ㅍㅋㅊ", 0)
	require.NotEmpty(t, got)
	assert.Equal(t, ports.Suggestion{Name: "피카츄", Key: "pikachu", Rule: "choseong"}, got[0])

	got = f.app.Suggest("pika", 0)
	require.Len(t, got, 1)
	assert.Equal(t, "key", got[0].Rule)

	assert.Empty(t, f.app.Suggest("", 0))
}

func TestSuggest_DefaultLimitFromSettings(t *testing.T) {
	settings := config.Default()
	settings.SuggestLimit = 2
	f := newTestApp(t, settings)

	assert.Len(t, f.app.Suggest("ㄹ", 0), 2)
	assert.Len(t, f.app.Suggest("ㄹ", 3), 3)
}

func TestTypes(t *testing.T) {
	f := newTestApp(t, config.Config{})

	rep, err := f.app.Types([]string{"ground", "flying"})
	require.NoError(t, err)
	require.Len(t, rep.Types, 2)
	assert.Equal(t, "땅", rep.Types[0].Label)
	assert.Equal(t, 4.0, rep.Defense[0].Multiplier)
	assert.Equal(t, "ice", rep.Defense[0].Types[0].Type)

	_, err = f.app.Types([]string{"shadow"})
	assert.ErrorIs(t, err, effectiveness.ErrInvalidType)
	_, err = f.app.Types(nil)
	assert.ErrorIs(t, err, effectiveness.ErrInvalidTypeSet)
}

// =============================================================================
// Lookup
// =============================================================================

func TestLookup_ByDisplayNameBuildsCard(t *testing.T) {
	f := newTestApp(t, config.Config{})

	card, err := f.app.Lookup(context.Background(), "한카리아스")
	require.NoError(t, err)

	assert.Equal(t, []string{"한카리아스", "garchomp"}, f.records.calls)
	assert.Equal(t, "index", card.Via)
	assert.Equal(t, "한카리아스", card.DisplayName)
	assert.Equal(t, 600, card.Total)
	assert.Equal(t, "physical", card.Role)
	assert.Equal(t, "물리형", card.RoleLabel)
	assert.InDelta(t, 1.9, card.HeightM, 1e-9)
	require.Len(t, card.Types, 2)
	assert.Equal(t, "드래곤", card.Types[0].Label)

	// dragon/ground: ice ×4 is the top defensive tier
	require.NotEmpty(t, card.Defense)
	assert.Equal(t, 4.0, card.Defense[0].Multiplier)
	assert.Equal(t, "ice", card.Defense[0].Types[0].Type)
}

func TestLookup_UsageSummary(t *testing.T) {
	f := newTestApp(t, config.Config{})

	card, err := f.app.Lookup(context.Background(), "garchomp")
	require.NoError(t, err)
	assert.Equal(t, "key", card.Via)

	require.Len(t, card.Usage, 4)
	byCat := map[string][]ports.UsageEntry{}
	for _, c := range card.Usage {
		byCat[c.Category] = c.Entries
	}
	assert.Equal(t, []string{"abilities", "natures", "items", "moves"},
		[]string{card.Usage[0].Category, card.Usage[1].Category, card.Usage[2].Category, card.Usage[3].Category})

	assert.Equal(t, []ports.UsageEntry{
		{ID: "24", Name: "까칠한피부", Usage: 70.3},
		{ID: "8", Name: "모래숨기", Usage: 29.7},
	}, byCat["abilities"])

	// the malformed second nature is dropped, not back-filled or zeroed
	assert.Equal(t, []ports.UsageEntry{{ID: "13", Name: "명랑", Usage: 55.0}}, byCat["natures"])

	assert.Equal(t, "Item 275", byCat["items"][0].Name)
	assert.Equal(t, "Item 197", byCat["items"][1].Name)

	require.Len(t, byCat["moves"], 4)
	assert.Equal(t, "지진", byCat["moves"][0].Name)
	assert.Equal(t, "14", byCat["moves"][3].Name, "failed label keeps the raw id")

	assert.Equal(t, 2, card.UsageFailures)
}

func TestLookup_NotFound(t *testing.T) {
	f := newTestApp(t, config.Config{})

	_, err := f.app.Lookup(context.Background(), "한카")
	assert.ErrorIs(t, err, lookup.ErrNotFound)

	_, err = f.app.Lookup(context.Background(), "")
	assert.ErrorIs(t, err, lookup.ErrNotFound)
}

func TestLookup_DegradesWithoutSpeciesOrUsage(t *testing.T) {
	records := &fakeRecords{byKey: map[string]*ports.Record{"garchomp": garchomp()}}
	a, err := New(Config{
		ProjectRoot: t.TempDir(),
		NoCache:     true,
		Records:     records,
		Species:     fakeSpecies{},
		Usage:       fakeUsage{},
		Labels:      &fakeLabels{},
	})
	require.NoError(t, err)
	defer a.Stop()

	card, err := a.Lookup(context.Background(), "garchomp")
	require.NoError(t, err)
	assert.Equal(t, "한카리아스", card.DisplayName, "bundled name when species is unavailable")
	assert.Nil(t, card.Usage)
}

func TestLookup_RoleThresholdFromSettings(t *testing.T) {
	settings := config.Default()
	settings.RoleBalanceThreshold = 60
	f := newTestApp(t, settings)

	card, err := f.app.Lookup(context.Background(), "garchomp")
	require.NoError(t, err)
	assert.Equal(t, "balanced", card.Role)

	settings.RoleBalanceThreshold = 15
	require.NoError(t, f.app.ApplySettings(settings))
	card, err = f.app.Lookup(context.Background(), "garchomp")
	require.NoError(t, err)
	assert.Equal(t, "physical", card.Role)
}

func TestLookup_CategoryLimitsFromSettings(t *testing.T) {
	settings := config.Default()
	settings.CategoryLimits = map[string]int{"moves": 2}
	f := newTestApp(t, settings)

	card, err := f.app.Lookup(context.Background(), "garchomp")
	require.NoError(t, err)
	require.Len(t, card.Usage, 1)
	assert.Equal(t, "moves", card.Usage[0].Category)
	assert.Len(t, card.Usage[0].Entries, 2)
}

func TestLookup_InvalidRecordTypes(t *testing.T) {
	rec := garchomp()
	rec.Types = []string{"dragon", "shadow"}
	a, err := New(Config{
		ProjectRoot: t.TempDir(),
		NoCache:     true,
		Records:     &fakeRecords{byKey: map[string]*ports.Record{"garchomp": rec}},
		Species:     fakeSpecies{},
		Usage:       fakeUsage{},
		Labels:      &fakeLabels{},
	})
	require.NoError(t, err)
	defer a.Stop()

	_, err = a.Lookup(context.Background(), "garchomp")
	assert.ErrorIs(t, err, ports.ErrBadRecord)
	assert.NotErrorIs(t, err, effectiveness.ErrInvalidType, "bad upstream data is not a caller error")
	assert.Contains(t, err.Error(), "shadow")
}

func TestTeraLabel(t *testing.T) {
	got, err := teraLabel(context.Background(), "10")
	require.NoError(t, err)
	assert.Equal(t, "불꽃", got)

	_, err = teraLabel(context.Background(), "19")
	assert.Error(t, err)
	_, err = teraLabel(context.Background(), "x")
	assert.Error(t, err)
}

// =============================================================================
// Settings
// =============================================================================

func TestApplySettings_RejectsInvalid(t *testing.T) {
	f := newTestApp(t, config.Config{})
	bad := config.Default()
	bad.AggregateConcurrency = 0
	assert.ErrorIs(t, f.app.ApplySettings(bad), config.ErrInvalid)
	assert.Equal(t, 8, f.app.Settings().AggregateConcurrency)
}

func TestReloadConfig(t *testing.T) {
	f := newTestApp(t, config.Config{})
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, os.WriteFile(path, []byte("suggest_limit: 3\n"), 0644))
	f.app.reloadConfig(path)
	assert.Equal(t, 3, f.app.Settings().SuggestLimit)

	// A broken file keeps the previous settings.
	require.NoError(t, os.WriteFile(path, []byte("suggest_limit: [\n"), 0644))
	f.app.reloadConfig(path)
	assert.Equal(t, 3, f.app.Settings().SuggestLimit)
}

func TestStop_Idempotent(t *testing.T) {
	f := newTestApp(t, config.Config{})
	require.NoError(t, f.app.Stop())
	require.NoError(t, f.app.Stop())
}
