package ports

// TypeBadge is a type tag with its Korean label and badge colour.
type TypeBadge struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Tier groups types sharing one effectiveness multiplier.
type Tier struct {
	Multiplier float64     `json:"multiplier"`
	Types      []TypeBadge `json:"types"`
}

// StatLine is one base stat as displayed.
type StatLine struct {
	Name  string  `json:"name"`
	Label string  `json:"label"`
	Value int     `json:"value"`
	Ratio float64 `json:"ratio"` // value / 255, clamped
}

// UsageEntry is one ranked usage entry with its resolved label.
type UsageEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Usage float64 `json:"usage"`
}

// UsageCategory is the top entries of one usage category.
type UsageCategory struct {
	Category string       `json:"category"`
	Entries  []UsageEntry `json:"entries"`
}

// Card is the fully enriched view of one record.
type Card struct {
	ID          int         `json:"id"`
	Key         string      `json:"key"`
	DisplayName string      `json:"display_name"`
	Via         string      `json:"via"` // "key" or "index"
	Types       []TypeBadge `json:"types"`
	HeightM     float64     `json:"height_m"`
	WeightKg    float64     `json:"weight_kg"`
	Artwork     string      `json:"artwork,omitempty"`
	Stats       []StatLine  `json:"stats"`
	Total       int         `json:"total"`
	Role        string      `json:"role"`
	RoleLabel   string      `json:"role_label"`

	// Defensive: multipliers taken from each attacking type.
	Defense []Tier `json:"defense"`
	// Offensive: best multiplier this record's types deal to each defender.
	Offense []Tier `json:"offense"`

	// Usage is nil when the usage source had nothing for this record.
	Usage         []UsageCategory `json:"usage"`
	UsageFailures int             `json:"usage_failures"`
}

// Suggestion is one typeahead candidate.
type Suggestion struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Rule string `json:"rule"` // which match rule hit: key, display, choseong
}

// TypeReport is the effectiveness profile of an arbitrary type set.
type TypeReport struct {
	Types   []TypeBadge `json:"types"`
	Defense []Tier      `json:"defense"`
	Offense []Tier      `json:"offense"`
}
