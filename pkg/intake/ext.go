package intake

import (
	"path/filepath"
	"strings"
)

// IsSupportedExt reports whether a file name has an image extension worth
// scanning. OCR debug artifacts (*.ocr.*) are skipped.
func IsSupportedExt(name string) bool {
	if strings.Contains(name, ".ocr.") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}
