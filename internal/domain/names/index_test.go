package names

import (
	"testing"
	"testing/fstest"

	"github.com/corey/pokesrc/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Loading the bundled index
// =============================================================================

func TestLoad_EmbeddedBundle(t *testing.T) {
	idx, err := Load(data.FS, data.NamesPath)
	require.NoError(t, err)
	assert.Equal(t, 168, idx.Len())

	// File order is preserved.
	assert.Equal(t, Entry{Display: "이상해씨", Key: "bulbasaur"}, idx.At(0))
	assert.Equal(t, Entry{Display: "미라이돈", Key: "miraidon"}, idx.At(idx.Len()-1))
}

func TestLoad_BothDirections(t *testing.T) {
	idx, err := Load(data.FS, data.NamesPath)
	require.NoError(t, err)

	key, ok := idx.KeyFor("피카츄")
	require.True(t, ok)
	assert.Equal(t, "pikachu", key)

	display, ok := idx.DisplayFor("garchomp")
	require.True(t, ok)
	assert.Equal(t, "한카리아스", display)

	_, ok = idx.KeyFor("pikachu")
	assert.False(t, ok, "KeyFor is an exact display-name lookup")
	_, ok = idx.KeyFor("피카")
	assert.False(t, ok, "KeyFor does not match prefixes")
}

func TestLoad_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.json":    {Data: []byte(`{"피카츄": "pikachu"}`)},
		"empty.json":  {Data: []byte(`[]`)},
		"dupkey.json": {Data: []byte(`[{"name":"a","key":"x"},{"name":"b","key":"x"}]`)},
	}

	_, err := Load(fsys, "missing.json")
	assert.Error(t, err)

	_, err = Load(fsys, "bad.json")
	assert.Error(t, err, "object form loses order and is rejected")

	_, err = Load(fsys, "empty.json")
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = Load(fsys, "dupkey.json")
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Entry{{Display: "피카츄", Key: "pikachu"}, {Display: "피카츄", Key: "raichu"}})
	assert.ErrorIs(t, err, ErrInvalidIndex)

	_, err = New([]Entry{{Display: " ", Key: "pikachu"}})
	assert.ErrorIs(t, err, ErrInvalidIndex)

	idx, err := New([]Entry{{Display: " 피카츄 ", Key: "pikachu "}})
	require.NoError(t, err)
	key, ok := idx.KeyFor("피카츄")
	assert.True(t, ok)
	assert.Equal(t, "pikachu", key)
}

func TestEntries_ReturnsCopy(t *testing.T) {
	idx, err := New([]Entry{{Display: "뮤", Key: "mew"}})
	require.NoError(t, err)

	entries := idx.Entries()
	entries[0].Key = "mewtwo"
	assert.Equal(t, "mew", idx.At(0).Key)
}
