package ocr

import (
	"fmt"
	"strings"

	"easybus/models"
)

// snippet returns a shortened version of text (ASCII only) for logging.
func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

// onlyDigits extracts ASCII decimal digits from a string.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FormatSymbols renders symbols as `text(conf)` pairs for log lines.
func FormatSymbols(symbols []models.Symbol) string {
	parts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		parts = append(parts, fmt.Sprintf("%s(%.1f)", s.Text, s.Confidence))
	}
	return snippet(strings.Join(parts, " "), 240)
}
