package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Label turns a snake_case or kebab-case key into a display label:
// "final_path" becomes "Final Path".
func Label(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	return titleCaser.String(strings.Join(words, " "))
}

// Acronym upper-cases short format identifiers such as "png" or "tiff".
func Acronym(value string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(value))
}
