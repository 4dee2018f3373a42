package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/corey/pokesrc/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorRed     = "\033[31m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// paint wraps s in an ANSI code when color output is on.
func paint(code, s string) string {
	if !useColor {
		return s
	}
	return code + s + colorReset
}

// formatMultiplier renders 4 as "×4" and 0.25 as "×0.25".
func formatMultiplier(m float64) string {
	return "×" + strconv.FormatFloat(m, 'f', -1, 64)
}

func multiplierColor(m float64) string {
	switch {
	case m == 0:
		return colorGray
	case m >= 4:
		return colorRed
	case m > 1:
		return colorYellow
	default:
		return colorGreen
	}
}

func formatBadges(types []ports.TypeBadge) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = paint(colorBold, t.Label)
	}
	return strings.Join(parts, "/")
}

// formatTiers renders one line per multiplier tier:
//
//	×4     얼음
//	×0.5   격투 독 벌레
func formatTiers(sb *strings.Builder, tiers []ports.Tier) {
	if len(tiers) == 0 {
		sb.WriteString("    " + paint(colorGray, "(all neutral)") + "\n")
		return
	}
	for _, t := range tiers {
		labels := make([]string, len(t.Types))
		for i, b := range t.Types {
			labels[i] = b.Label
		}
		mult := fmt.Sprintf("%-6s", formatMultiplier(t.Multiplier))
		sb.WriteString(fmt.Sprintf("    %s %s\n", paint(multiplierColor(t.Multiplier), mult), strings.Join(labels, " ")))
	}
}

// statBar renders a ratio as a 20-cell bar.
func statBar(ratio float64) string {
	const width = 20
	n := int(ratio*width + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// formatCard formats a Card for terminal display.
//
//	⚡ 한카리아스 (garchomp) #445 │ 드래곤/땅 │ 물리형
func formatCard(c *ports.Card) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s #%d │ %s │ %s\n",
		paint(colorBold, "⚡ "+c.DisplayName),
		paint(colorGray, "("+c.Key+")"),
		c.ID, formatBadges(c.Types), paint(colorMagenta, c.RoleLabel)))
	sb.WriteString(fmt.Sprintf("  %.1fm │ %.1fkg\n", c.HeightM, c.WeightKg))

	sb.WriteString(paint(colorCyan, "  종족값") + "\n")
	for _, s := range c.Stats {
		sb.WriteString(fmt.Sprintf("    %-8s %3d %s\n", s.Label, s.Value, paint(colorGray, statBar(s.Ratio))))
	}
	sb.WriteString(fmt.Sprintf("    %-8s %3d\n", "합계", c.Total))

	sb.WriteString(paint(colorCyan, "  받는 피해") + "\n")
	formatTiers(&sb, c.Defense)
	sb.WriteString(paint(colorCyan, "  주는 피해") + "\n")
	formatTiers(&sb, c.Offense)

	if c.Usage == nil {
		sb.WriteString(paint(colorGray, "  (no usage data)") + "\n")
		return sb.String()
	}
	for _, cat := range c.Usage {
		sb.WriteString(paint(colorCyan, "  "+usageTitle(cat.Category)) + "\n")
		if len(cat.Entries) == 0 {
			sb.WriteString("    " + paint(colorGray, "-") + "\n")
		}
		for _, e := range cat.Entries {
			sb.WriteString(fmt.Sprintf("    %-14s %6.1f%%\n", e.Name, e.Usage))
		}
	}
	if c.UsageFailures > 0 {
		sb.WriteString(paint(colorYellow, fmt.Sprintf("  ⚠ %d usage entries incomplete", c.UsageFailures)) + "\n")
	}
	return sb.String()
}

var usageTitles = map[string]string{
	"abilities": "특성",
	"natures":   "성격",
	"items":     "도구",
	"moves":     "기술",
	"terastal":  "테라스탈",
}

func usageTitle(category string) string {
	if t, ok := usageTitles[category]; ok {
		return t
	}
	return category
}

// formatSuggestions formats typeahead candidates, one per line.
func formatSuggestions(query string, hits []ports.Suggestion) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s │ %q\n", paint(colorBold, fmt.Sprintf("⚡ %d matches", len(hits))), query))
	for _, h := range hits {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", h.Name, paint(colorGray, h.Key), paint(colorGreen, "["+h.Rule+"]")))
	}
	return sb.String()
}

// formatTypeReport formats the profile of a type set.
func formatTypeReport(r *ports.TypeReport) string {
	var sb strings.Builder
	sb.WriteString(paint(colorBold, "⚡ "+formatBadges(r.Types)) + "\n")
	sb.WriteString(paint(colorCyan, "  받는 피해") + "\n")
	formatTiers(&sb, r.Defense)
	sb.WriteString(paint(colorCyan, "  주는 피해") + "\n")
	formatTiers(&sb, r.Offense)
	return sb.String()
}

// formatJSON renders v as indented JSON.
func formatJSON(v any) (string, error) {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
