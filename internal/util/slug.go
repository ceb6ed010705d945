package util

import (
	"strings"
	"unicode"
)

// Slugify flattens an arbitrary identifier (model names may contain
// slashes, dots, or colons) into a filesystem-safe token.
func Slugify(input string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(input) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "model"
	}
	return slug
}
