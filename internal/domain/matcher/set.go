package matcher

// OrderedSet is an insertion-ordered set of strings. Adding a member twice
// is a no-op, so the first insertion fixes its position.
type OrderedSet struct {
	items []string
	seen  map[string]struct{}
}

// NewOrderedSet returns an empty set with room for n members.
func NewOrderedSet(n int) *OrderedSet {
	return &OrderedSet{
		items: make([]string, 0, n),
		seen:  make(map[string]struct{}, n),
	}
}

// Add inserts s and reports whether it was new.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports membership.
func (s *OrderedSet) Has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Len returns the member count.
func (s *OrderedSet) Len() int {
	return len(s.items)
}

// Items returns the members in insertion order. The slice is a copy.
func (s *OrderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
