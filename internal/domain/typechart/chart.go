// Package typechart holds the closed set of elemental types and the static
// attacker-by-defender multiplier chart. The chart is loaded once at startup
// from embedded JSON and is read-only afterwards: there is no mutation API.
//
// The chart is sparse. Pairs absent from the JSON are neutral (1).
// It is asymmetric: Multiplier(a, d) need not equal Multiplier(d, a).
package typechart

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/bytedance/sonic"
)

// Neutral is the multiplier for any pair the chart does not list.
const Neutral = 1.0

// ErrInvalidChart is returned by Load for malformed chart data.
var ErrInvalidChart = errors.New("invalid type chart")

// Chart is the immutable 18x18 attacker -> defender multiplier table.
// Rows are indexed by attacking type, columns by defending type.
type Chart struct {
	cells   [Count][Count]float64
	entries int
}

// allowed chart values. 4 and 0.25 only appear as products of two cells.
func allowedMultiplier(v float64) bool {
	return v == 0 || v == 0.5 || v == 1 || v == 2
}

// Load reads a sparse chart from fsys. The file is a JSON object of
// attacking type -> {defending type -> multiplier}.
// Unknown type tags or multipliers outside {0, 0.5, 1, 2} fail the load.
func Load(fsys fs.FS, path string) (*Chart, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read type chart %q: %w", path, err)
	}

	var sparse map[string]map[string]float64
	if err := sonic.Unmarshal(raw, &sparse); err != nil {
		return nil, fmt.Errorf("parse type chart %q: %w", path, err)
	}
	return FromSparse(sparse)
}

// FromSparse builds a Chart from an in-memory sparse table, applying the
// same validation as Load.
func FromSparse(sparse map[string]map[string]float64) (*Chart, error) {
	if len(sparse) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidChart)
	}

	c := &Chart{}
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = Neutral
		}
	}

	for atk, row := range sparse {
		ai := Index(TypeName(atk))
		if ai < 0 {
			return nil, fmt.Errorf("%w: unknown attacking type %q", ErrInvalidChart, atk)
		}
		for def, v := range row {
			di := Index(TypeName(def))
			if di < 0 {
				return nil, fmt.Errorf("%w: unknown defending type %q under %q", ErrInvalidChart, def, atk)
			}
			if !allowedMultiplier(v) {
				return nil, fmt.Errorf("%w: %s->%s = %v", ErrInvalidChart, atk, def, v)
			}
			c.cells[ai][di] = v
			c.entries++
		}
	}
	return c, nil
}

// Multiplier returns chart[attacking][defending], or Neutral for unlisted pairs.
// Both arguments must be valid; callers validate with Parse first.
func (c *Chart) Multiplier(attacking, defending TypeName) float64 {
	ai, di := Index(attacking), Index(defending)
	if ai < 0 || di < 0 {
		return Neutral
	}
	return c.cells[ai][di]
}

// Entries returns the number of explicit (non-default) cells that were loaded.
func (c *Chart) Entries() int {
	return c.entries
}
