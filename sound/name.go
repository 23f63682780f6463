package sound

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultName is used when a locator yields no usable characters.
const DefaultName = "Untitled Sound"

// DeriveName builds a presentable default name from a file locator: base name
// without extension, separator runs collapsed to single spaces, title-cased.
// Import uses it when the caller supplies no name override.
func DeriveName(locator string) string {
	if locator == "" {
		return DefaultName
	}
	base := filepath.Base(locator)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return DefaultName
	}
	return cases.Title(language.Und).String(name)
}
