package languageutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

// Heading normalizes a free-form label ("  OUTERWEAR ", "top") to "Outerwear", "Top".
func Heading(label string) string {
	return TitleCaser.String(LowerCaser.String(strings.TrimSpace(label)))
}

// Fold returns the trimmed lower-case form used to compare labels.
func Fold(label string) string {
	return LowerCaser.String(strings.TrimSpace(label))
}
