// Package data embeds the bundled lookup tables for compile-time inclusion.
// v1 holds the Korean display-name index (an ordered JSON array, so the
// typeahead order survives decoding) and the 18-type effectiveness chart.
//
// Usage:
//
//	names.Load(data.FS, "v1/names.json")
//	typechart.Load(data.FS, "v1/typechart.json")
package data

import "embed"

//go:embed v1/*.json
var FS embed.FS

// Bundled file paths inside FS.
const (
	NamesPath     = "v1/names.json"
	TypeChartPath = "v1/typechart.json"
)
