// Package matcher implements typeahead matching over the name index.
// A query may be a piece of the latin key ("chu"), a piece of the Korean
// display name ("카츄"), or a lead-consonant abbreviation ("ㅍㅋㅊ").
//
// Rules are tried per entry in this order and the first hit wins:
//
//  1. case-insensitive substring of the canonical key
//  2. substring of the display name (script-sensitive)
//  3. substring of the lead-consonant skeletons of query and display name
//
// Results follow index order, not match quality, and contain each display
// name once. Matching is pure and never blocks; a Matcher is safe for
// concurrent use once built.
package matcher

import (
	"strings"

	"github.com/corey/pokesrc/internal/domain/hangul"
	"github.com/corey/pokesrc/internal/domain/names"
)

// Rule identifies which matching rule accepted an entry.
type Rule int

const (
	RuleNone Rule = iota
	RuleKey
	RuleDisplay
	RuleLeadConsonant
)

func (r Rule) String() string {
	switch r {
	case RuleKey:
		return "key"
	case RuleDisplay:
		return "display"
	case RuleLeadConsonant:
		return "choseong"
	default:
		return "none"
	}
}

// candidate is an index entry with its projections precomputed.
type candidate struct {
	entry    names.Entry
	lowerKey string
	skeleton string
}

// Matcher holds per-entry projections so each query only projects itself.
type Matcher struct {
	candidates []candidate
}

// New precomputes lowercase keys and lead-consonant skeletons for idx.
func New(idx *names.Index) *Matcher {
	m := &Matcher{candidates: make([]candidate, idx.Len())}
	for i := 0; i < idx.Len(); i++ {
		e := idx.At(i)
		m.candidates[i] = candidate{
			entry:    e,
			lowerKey: strings.ToLower(e.Key),
			skeleton: hangul.LeadConsonants(e.Display),
		}
	}
	return m
}

// Match returns every display name matching query, in index order.
// An empty query matches nothing.
func Match(query string, idx *names.Index) []string {
	return New(idx).Match(query)
}

// Match returns every display name matching query, in index order.
func (m *Matcher) Match(query string) []string {
	return m.MatchN(query, 0)
}

// MatchN is Match capped at limit results. limit <= 0 means no cap.
func (m *Matcher) MatchN(query string, limit int) []string {
	if query == "" {
		return []string{}
	}

	q := newQuery(query)
	set := NewOrderedSet(8)
	for i := range m.candidates {
		c := &m.candidates[i]
		if q.rule(c) == RuleNone {
			continue
		}
		set.Add(c.entry.Display)
		if limit > 0 && set.Len() >= limit {
			break
		}
	}
	return set.Items()
}

// Explain reports which rule, if any, accepts display for query.
// Used by the CLI's verbose suggest output.
func (m *Matcher) Explain(query, display string) Rule {
	if query == "" {
		return RuleNone
	}
	q := newQuery(query)
	for i := range m.candidates {
		if m.candidates[i].entry.Display == display {
			return q.rule(&m.candidates[i])
		}
	}
	return RuleNone
}

type query struct {
	raw      string
	lower    string
	skeleton string
}

func newQuery(raw string) query {
	return query{
		raw:      raw,
		lower:    strings.ToLower(raw),
		skeleton: hangul.LeadConsonants(raw),
	}
}

func (q query) rule(c *candidate) Rule {
	switch {
	case strings.Contains(c.lowerKey, q.lower):
		return RuleKey
	case strings.Contains(c.entry.Display, q.raw):
		return RuleDisplay
	case strings.Contains(c.skeleton, q.skeleton):
		return RuleLeadConsonant
	}
	return RuleNone
}
