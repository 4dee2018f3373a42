// Package hangul projects Korean text onto its lead-consonant (choseong)
// skeleton, the form users type when abbreviating a name: "피카츄" -> "ㅍㅋㅊ".
//
// The projection is used only for substring comparison. It never feeds
// storage or display.
package hangul

import "strings"

// Precomposed syllable block U+AC00..U+D7A3. Each syllable is
// base + (lead*21 + vowel)*28 + tail, so lead = (r - base) / (21*28).
const (
	syllableBase  = 0xAC00
	syllableLast  = 0xD7A3
	syllablesLead = 21 * 28
)

// leads are the 19 lead consonants as compatibility jamo, the same code
// points a keyboard produces when typing a lone consonant.
var leads = [19]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ',
	'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// Lead returns the lead consonant of a precomposed syllable.
// Any other rune is returned unchanged.
func Lead(r rune) rune {
	if !IsSyllable(r) {
		return r
	}
	return leads[(r-syllableBase)/syllablesLead]
}

// LeadConsonants replaces every precomposed syllable in s with its lead
// consonant. Other runes (Latin, digits, lone jamo, symbols) pass through
// unchanged; no other normalization is applied.
func LeadConsonants(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		sb.WriteRune(Lead(r))
	}
	return sb.String()
}
