package bbolt

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/pokesrc/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Cache = (*Store)(nil)

// newTestStore creates a temporary bbolt store with a controllable clock.
func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

// =============================================================================
// Get / Put
// =============================================================================

func TestStore_PutGet_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Put(BucketLabels, "move/89", []byte("지진"), time.Hour))

	got, ok, err := store.Get(BucketLabels, "move/89")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "지진", string(got))
}

func TestStore_Get_Missing(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Get(BucketLabels, "nope")
	require.NoError(t, err)
	assert.False(t, ok, "missing bucket")

	require.NoError(t, store.Put(BucketLabels, "a", []byte("x"), 0))
	_, ok, err = store.Get(BucketLabels, "b")
	require.NoError(t, err)
	assert.False(t, ok, "missing key")
}

func TestStore_Get_EmptyValueIsHit(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Put(BucketRecords, "k", []byte{}, 0))

	got, ok, err := store.Get(BucketRecords, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestStore_BucketsAreSeparate(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Put(BucketLabels, "k", []byte("label"), 0))
	require.NoError(t, store.Put(BucketRecords, "k", []byte("record"), 0))

	got, _, _ := store.Get(BucketLabels, "k")
	assert.Equal(t, "label", string(got))
	got, _, _ = store.Get(BucketRecords, "k")
	assert.Equal(t, "record", string(got))
}

func TestStore_Put_EmptyKey(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Put(BucketLabels, "", []byte("x"), 0))
}

// =============================================================================
// Expiry
// =============================================================================

func TestStore_TTL_Expires(t *testing.T) {
	store, now := newTestStore(t)
	require.NoError(t, store.Put(BucketLabels, "k", []byte("v"), time.Minute))

	*now = now.Add(59 * time.Second)
	_, ok, err := store.Get(BucketLabels, "k")
	require.NoError(t, err)
	assert.True(t, ok, "still fresh")

	*now = now.Add(time.Second)
	_, ok, err = store.Get(BucketLabels, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired at exactly ttl")
}

func TestStore_ZeroTTL_NeverExpires(t *testing.T) {
	store, now := newTestStore(t)
	require.NoError(t, store.Put(BucketLabels, "k", []byte("v"), 0))

	*now = now.Add(10 * 365 * 24 * time.Hour)
	_, ok, err := store.Get(BucketLabels, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_Purge(t *testing.T) {
	store, now := newTestStore(t)
	require.NoError(t, store.Put(BucketLabels, "short", []byte("v"), time.Minute))
	require.NoError(t, store.Put(BucketLabels, "long", []byte("v"), time.Hour))
	require.NoError(t, store.Put(BucketRecords, "short", []byte("v"), time.Minute))
	require.NoError(t, store.Put(BucketRecords, "forever", []byte("v"), 0))

	*now = now.Add(2 * time.Minute)
	n, err := store.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	c, err := store.Count(BucketLabels)
	require.NoError(t, err)
	assert.Equal(t, 1, c)
	c, err = store.Count(BucketRecords)
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestEnvelope_Corrupt(t *testing.T) {
	_, _, err := decodeEntry([]byte{1, 2})
	assert.Error(t, err)

	bad := encodeEntry([]byte("v"), time.Now(), 0)
	bad[0] = 9
	_, _, err = decodeEntry(bad)
	assert.Error(t, err)
}

// =============================================================================
// Wipe / restart / concurrency
// =============================================================================

func TestStore_Wipe(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Put(BucketLabels, "a", []byte("1"), 0))
	require.NoError(t, store.Put(BucketRecords, "b", []byte("2"), 0))

	require.NoError(t, store.Wipe())
	_, ok, _ := store.Get(BucketLabels, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(BucketRecords, "b")
	assert.False(t, ok)

	// Idempotent, and the store is still writable.
	require.NoError(t, store.Wipe())
	require.NoError(t, store.Put(BucketLabels, "a", []byte("1"), 0))
}

func TestStore_SurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Put(BucketLabels, "ability/24", []byte("까칠한피부"), 0))
	require.NoError(t, store1.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	got, ok, err := store2.Get(BucketLabels, "ability/24")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "까칠한피부", string(got))
	assert.Equal(t, path, store2.Path())
}

func TestStore_ConcurrentReadsAndWrites(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("move/%d", i)
			assert.NoError(t, store.Put(BucketLabels, key, []byte(key), time.Hour))
			got, ok, err := store.Get(BucketLabels, key)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, key, string(got))
		}(i)
	}
	wg.Wait()

	n, err := store.Count(BucketLabels)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

// =============================================================================
// Lock contention: verify the 1s timeout prevents hangs
// =============================================================================

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// A second open while the exclusive lock is held should time out in
	// about a second, not hang forever.
	path := filepath.Join(t.TempDir(), "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2)
	assert.Contains(t, err.Error(), "bbolt open")
	assert.True(t, IsLocked(err))
	assert.True(t, IsLocked(fmt.Errorf("open cache: %w", err)), "survives wrapping")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "should wait ~1s for the configured timeout")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Put(BucketRecords, "pikachu", []byte("{}"), 0))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)
	require.NoError(t, err)
	defer store2.Close()
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")
	assert.False(t, IsLocked(fmt.Errorf("read deadline timeout")))

	_, ok, err := store2.Get(BucketRecords, "pikachu")
	require.NoError(t, err)
	assert.True(t, ok)
}
