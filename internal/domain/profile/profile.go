// Package profile derives display facts from a record's base stats:
// the attacking role, the base-stat total, and Korean stat labels.
package profile

import "github.com/corey/pokesrc/internal/ports"

// DefaultBalanceThreshold is the largest |attack - special attack| gap still
// classified as Balanced. The cut-off is empirical; it is configurable
// (role_balance_threshold) rather than fixed.
const DefaultBalanceThreshold = 15

// Role is the attacking profile of a record.
type Role string

const (
	Balanced Role = "balanced"
	Physical Role = "physical"
	Special  Role = "special"
)

var roleLabels = map[Role]string{
	Balanced: "쌍두형",
	Physical: "물리형",
	Special:  "특수형",
}

// Label returns the Korean label for r.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return string(r)
}

// Stats is the six base stats by name.
type Stats struct {
	HP             int
	Attack         int
	Defense        int
	SpecialAttack  int
	SpecialDefense int
	Speed          int
}

// FromBase collects the six known stats. Unknown names are ignored and
// missing ones stay 0.
func FromBase(base []ports.BaseStat) Stats {
	var s Stats
	for _, b := range base {
		switch b.Name {
		case "hp":
			s.HP = b.Value
		case "attack":
			s.Attack = b.Value
		case "defense":
			s.Defense = b.Value
		case "special-attack":
			s.SpecialAttack = b.Value
		case "special-defense":
			s.SpecialDefense = b.Value
		case "speed":
			s.Speed = b.Value
		}
	}
	return s
}

// Classify returns the attacking role. A gap within threshold is Balanced;
// otherwise the higher attacking stat decides.
func Classify(s Stats, threshold int) Role {
	diff := s.Attack - s.SpecialAttack
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= threshold:
		return Balanced
	case s.Attack > s.SpecialAttack:
		return Physical
	default:
		return Special
	}
}

// Total sums every base stat line, including names FromBase does not know.
func Total(base []ports.BaseStat) int {
	total := 0
	for _, b := range base {
		total += b.Value
	}
	return total
}

var statLabels = map[string]string{
	"hp":              "HP",
	"attack":          "공격",
	"defense":         "방어",
	"special-attack":  "특수공격",
	"special-defense": "특수방어",
	"speed":           "스피드",
}

// StatLabel returns the Korean label for a stat name, or the name itself.
func StatLabel(name string) string {
	if l, ok := statLabels[name]; ok {
		return l
	}
	return name
}

// MaxBaseStat is the scale used for stat bars.
const MaxBaseStat = 255

// BarRatio returns v/MaxBaseStat clamped to [0, 1].
func BarRatio(v int) float64 {
	r := float64(v) / MaxBaseStat
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
