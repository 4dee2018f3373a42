package typechart

import (
	"errors"
	"fmt"
	"strings"
)

// TypeName is one of the 18 elemental type tags used by the record source.
type TypeName string

const (
	Normal   TypeName = "normal"
	Fire     TypeName = "fire"
	Water    TypeName = "water"
	Electric TypeName = "electric"
	Grass    TypeName = "grass"
	Ice      TypeName = "ice"
	Fighting TypeName = "fighting"
	Poison   TypeName = "poison"
	Ground   TypeName = "ground"
	Flying   TypeName = "flying"
	Psychic  TypeName = "psychic"
	Bug      TypeName = "bug"
	Rock     TypeName = "rock"
	Ghost    TypeName = "ghost"
	Dragon   TypeName = "dragon"
	Dark     TypeName = "dark"
	Steel    TypeName = "steel"
	Fairy    TypeName = "fairy"
)

// ErrInvalidType is returned for a tag outside the closed type set.
var ErrInvalidType = errors.New("invalid type")

// all is the canonical order. Every table built from the chart iterates in it.
var all = [...]TypeName{
	Normal, Fire, Water, Electric, Grass, Ice, Fighting, Poison, Ground,
	Flying, Psychic, Bug, Rock, Ghost, Dragon, Dark, Steel, Fairy,
}

// Count is the size of the closed type set.
const Count = len(all)

// All returns the 18 types in canonical order. The slice is a fresh copy.
func All() []TypeName {
	out := make([]TypeName, len(all))
	copy(out, all[:])
	return out
}

// Index returns the canonical position of t, or -1 if t is not a known type.
func Index(t TypeName) int {
	for i, v := range all {
		if v == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t belongs to the closed type set.
func (t TypeName) Valid() bool {
	return Index(t) >= 0
}

// Parse normalizes s (trim + lowercase) and checks it against the closed set.
func Parse(s string) (TypeName, error) {
	t := TypeName(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

var koreanLabels = map[TypeName]string{
	Normal:   "노말",
	Fire:     "불꽃",
	Water:    "물",
	Electric: "전기",
	Grass:    "풀",
	Ice:      "얼음",
	Fighting: "격투",
	Poison:   "독",
	Ground:   "땅",
	Flying:   "비행",
	Psychic:  "에스퍼",
	Bug:      "벌레",
	Rock:     "바위",
	Ghost:    "고스트",
	Dragon:   "드래곤",
	Dark:     "악",
	Steel:    "강철",
	Fairy:    "페어리",
}

// UnknownLabel is shown for tags the label table does not know.
const UnknownLabel = "???"

// Label returns the Korean display label for a type tag.
// Unknown tags fall back to the raw tag, "unknown" to UnknownLabel.
func Label(t TypeName) string {
	if l, ok := koreanLabels[t]; ok {
		return l
	}
	if t == "unknown" {
		return UnknownLabel
	}
	return string(t)
}

var badgeColors = map[TypeName]string{
	Normal:   "#A8A77A",
	Fire:     "#EE8130",
	Water:    "#6390F0",
	Electric: "#F7D02C",
	Grass:    "#7AC74C",
	Ice:      "#96D9D6",
	Fighting: "#C22E28",
	Poison:   "#A33EA1",
	Ground:   "#E2BF65",
	Flying:   "#A98FF3",
	Psychic:  "#F95587",
	Bug:      "#A6B91A",
	Rock:     "#B6A136",
	Ghost:    "#735797",
	Dragon:   "#6F35FC",
	Dark:     "#705746",
	Steel:    "#B7B7CE",
	Fairy:    "#D685AD",
}

// UnknownColor is the badge colour for tags outside the closed set.
const UnknownColor = "#68A090"

// Color returns the hex badge colour for a type tag.
func Color(t TypeName) string {
	if c, ok := badgeColors[t]; ok {
		return c
	}
	return UnknownColor
}

// sourceIDs is the numeric type id order of the upstream record source
// (1 = normal, 2 = fighting, ...). Usage reports identify tera types by it.
var sourceIDs = [...]TypeName{
	Normal, Fighting, Flying, Poison, Ground, Rock, Bug, Ghost, Steel,
	Fire, Water, Grass, Electric, Psychic, Ice, Dragon, Dark, Fairy,
}

// ByID returns the type with the given upstream numeric id.
func ByID(id int) (TypeName, bool) {
	if id < 1 || id > len(sourceIDs) {
		return "", false
	}
	return sourceIDs[id-1], true
}
