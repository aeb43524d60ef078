// Package slugs provides the two slugging strategies used across Schemapad:
//   - Heading slugs: fragment anchors generated from markdown headings,
//     derived with a conservative ASCII-ish transformation so anchors stay
//     stable across edits that only touch punctuation.
//   - Name slugs: lowercase search keys for database/table/column names,
//     built on gosimple/slug. Column search labels are "<table>.<column>"
//     in slug form.
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// HeadingSlug converts heading text to a URL-friendly fragment anchor.
func HeadingSlug(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// NameSlug converts a schema element name to its lowercase search key.
func NameSlug(name string) string {
	slugged := goslug.Make(name)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	}
	return slugged
}

// ColumnLabel builds the "<table>.<column>" search label from already
// slugged parts.
func ColumnLabel(tableSlug, columnSlug string) string {
	return tableSlug + "." + columnSlug
}
