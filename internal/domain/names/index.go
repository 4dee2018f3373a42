// Package names provides the bidirectional display-name <-> canonical-key
// index. It is the authority on which Korean name maps to which lookup key.
// The index is loaded once at startup from embedded JSON and is immutable
// afterwards; lookups in both directions are O(1) and safe for concurrent use.
//
// Entry order is the bundled file order. The typeahead matcher iterates in
// this order, so the file is a JSON array rather than an object.
package names

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bytedance/sonic"
)

// ErrInvalidIndex is returned when the bundled data violates uniqueness
// or contains empty names.
var ErrInvalidIndex = errors.New("invalid name index")

// Entry pairs a local-script display name with its latin canonical key.
type Entry struct {
	Display string `json:"name"`
	Key     string `json:"key"`
}

// Index holds the ordered entries plus both reverse lookups.
type Index struct {
	entries   []Entry
	byDisplay map[string]int // display name -> position
	byKey     map[string]int // canonical key -> position
}

// Load reads a JSON array of {"name", "key"} objects from fsys.
func Load(fsys fs.FS, path string) (*Index, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read name index %q: %w", path, err)
	}

	var entries []Entry
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse name index %q: %w", path, err)
	}
	return New(entries)
}

// New builds an index from entries, keeping their order.
// Display names and keys must be non-empty and unique.
func New(entries []Entry) (*Index, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidIndex)
	}

	idx := &Index{
		entries:   make([]Entry, 0, len(entries)),
		byDisplay: make(map[string]int, len(entries)),
		byKey:     make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		e.Display = strings.TrimSpace(e.Display)
		e.Key = strings.TrimSpace(e.Key)
		if e.Display == "" || e.Key == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty field", ErrInvalidIndex, i)
		}
		if _, dup := idx.byDisplay[e.Display]; dup {
			return nil, fmt.Errorf("%w: duplicate display name %q", ErrInvalidIndex, e.Display)
		}
		if _, dup := idx.byKey[e.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidIndex, e.Key)
		}
		idx.byDisplay[e.Display] = len(idx.entries)
		idx.byKey[e.Key] = len(idx.entries)
		idx.entries = append(idx.entries, e)
	}
	return idx, nil
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// At returns the i-th entry in load order.
func (x *Index) At(i int) Entry {
	return x.entries[i]
}

// Entries returns a copy of all entries in load order.
func (x *Index) Entries() []Entry {
	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// KeyFor translates an exact display name into its canonical key.
func (x *Index) KeyFor(display string) (string, bool) {
	i, ok := x.byDisplay[display]
	if !ok {
		return "", false
	}
	return x.entries[i].Key, true
}

// DisplayFor translates a canonical key back into its display name.
func (x *Index) DisplayFor(key string) (string, bool) {
	i, ok := x.byKey[key]
	if !ok {
		return "", false
	}
	return x.entries[i].Display, true
}
