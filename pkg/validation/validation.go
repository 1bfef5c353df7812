package validation

import (
	"path/filepath"
	"strings"
)

// AllowedImageExtension checks the filename extension against the configured
// allow-list (extensions listed without a leading dot).
func AllowedImageExtension(filename string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(strings.TrimPrefix(a, ".")) {
			return true
		}
	}
	return false
}

// SanitizeTitle removes potentially harmful characters from a user title
func SanitizeTitle(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")
	return input
}
