package ocr

import (
	"strings"

	"easybus/models"
)

// DefaultConfidenceThreshold is the minimum (exclusive) symbol confidence for
// production scans. Older deployments used 85.
const DefaultConfidenceThreshold = 95.0

// ExtractDigits joins the digits of every symbol whose text contains at least
// one ASCII digit and whose confidence is strictly above threshold, in the
// order the engine returned them. Letters inside a kept symbol are dropped.
// It returns nil when nothing qualifies, never a pointer to "".
func ExtractDigits(symbols []models.Symbol, threshold float64) *string {
	var sb strings.Builder
	for _, s := range symbols {
		if !(s.Confidence > threshold) {
			continue
		}
		sb.WriteString(onlyDigits(s.Text))
	}
	if sb.Len() == 0 {
		return nil
	}
	out := sb.String()
	return &out
}
