// Package effectiveness computes defensive and offensive multiplier tables
// for a one-or-two type set against the static type chart.
//
// Defensive multipliers are products across the defender's types (an immunity
// from either type zeroes the result, two weaknesses compound to 4).
// Offensive multipliers take the best single type per defender, since a
// dual-typed attacker picks whichever of its types hits harder.
//
// All values are dyadic rationals (0, 0.25, 0.5, 1, 2, 4) and exact in
// float64, so callers compare them with ==.
package effectiveness

import (
	"errors"
	"fmt"
	"sort"

	"github.com/corey/pokesrc/internal/domain/typechart"
)

// ErrInvalidType is the InvalidType condition: a tag outside the closed set.
var ErrInvalidType = typechart.ErrInvalidType

// ErrInvalidTypeSet is returned for an empty, oversized or duplicated set.
var ErrInvalidTypeSet = errors.New("invalid type set")

// TypeSet is an ordered sequence of one or two distinct types.
// The zero value is not valid; build one with NewTypeSet or TypeSetOf.
type TypeSet struct {
	types []typechart.TypeName
}

// NewTypeSet parses raw tags into a TypeSet.
func NewTypeSet(names ...string) (TypeSet, error) {
	types := make([]typechart.TypeName, 0, len(names))
	for _, n := range names {
		t, err := typechart.Parse(n)
		if err != nil {
			return TypeSet{}, err
		}
		types = append(types, t)
	}
	return TypeSetOf(types...)
}

// TypeSetOf validates already-typed tags into a TypeSet.
func TypeSetOf(types ...typechart.TypeName) (TypeSet, error) {
	if len(types) < 1 || len(types) > 2 {
		return TypeSet{}, fmt.Errorf("%w: need 1 or 2 types, got %d", ErrInvalidTypeSet, len(types))
	}
	for _, t := range types {
		if !t.Valid() {
			return TypeSet{}, fmt.Errorf("%w: %q", ErrInvalidType, string(t))
		}
	}
	if len(types) == 2 && types[0] == types[1] {
		return TypeSet{}, fmt.Errorf("%w: duplicate type %q", ErrInvalidTypeSet, string(types[0]))
	}
	out := make([]typechart.TypeName, len(types))
	copy(out, types)
	return TypeSet{types: out}, nil
}

// Types returns a copy of the set in its original order.
func (s TypeSet) Types() []typechart.TypeName {
	out := make([]typechart.TypeName, len(s.types))
	copy(out, s.types)
	return out
}

// Len returns 1 or 2 for a valid set, 0 for the zero value.
func (s TypeSet) Len() int {
	return len(s.types)
}

// Map holds one multiplier per type in the closed set.
type Map map[typechart.TypeName]float64

// Entry is one row of an ordered Map.
type Entry struct {
	Type       typechart.TypeName `json:"type"`
	Multiplier float64            `json:"multiplier"`
}

// Ordered returns the map's entries in canonical type order.
func (m Map) Ordered() []Entry {
	out := make([]Entry, 0, len(m))
	for _, t := range typechart.All() {
		if v, ok := m[t]; ok {
			out = append(out, Entry{Type: t, Multiplier: v})
		}
	}
	return out
}

// Tier groups the types sharing one non-neutral multiplier.
type Tier struct {
	Multiplier float64              `json:"multiplier"`
	Types      []typechart.TypeName `json:"types"`
}

// Tiers groups non-neutral entries by multiplier, strongest first and
// immunities last. Types inside a tier keep canonical order.
func (m Map) Tiers() []Tier {
	byValue := make(map[float64][]typechart.TypeName)
	for _, e := range m.Ordered() {
		if e.Multiplier == typechart.Neutral {
			continue
		}
		byValue[e.Multiplier] = append(byValue[e.Multiplier], e.Type)
	}

	tiers := make([]Tier, 0, len(byValue))
	for v, types := range byValue {
		tiers = append(tiers, Tier{Multiplier: v, Types: types})
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Multiplier > tiers[j].Multiplier
	})
	return tiers
}

// Resolver computes profiles against a loaded chart. Safe for concurrent use.
type Resolver struct {
	chart *typechart.Chart
}

// New creates a Resolver over chart.
func New(chart *typechart.Chart) *Resolver {
	return &Resolver{chart: chart}
}

// Defensive returns, for every attacking type, the product of the chart
// cells against each of the defender's types.
func (r *Resolver) Defensive(s TypeSet) Map {
	out := make(Map, typechart.Count)
	for _, atk := range typechart.All() {
		m := typechart.Neutral
		for _, def := range s.types {
			m *= r.chart.Multiplier(atk, def)
		}
		out[atk] = m
	}
	return out
}

// Offensive returns, for every defending type, the maximum chart cell over
// the attacker's types. A single-type set is a plain chart row.
func (r *Resolver) Offensive(s TypeSet) Map {
	out := make(Map, typechart.Count)
	for _, def := range typechart.All() {
		best := 0.0
		for i, atk := range s.types {
			v := r.chart.Multiplier(atk, def)
			if i == 0 || v > best {
				best = v
			}
		}
		if len(s.types) == 0 {
			best = typechart.Neutral
		}
		out[def] = best
	}
	return out
}
