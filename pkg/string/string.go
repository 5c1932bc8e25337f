// Package string holds small helpers for request normalization and
// field naming.
package string

import (
	"strings"
	"unicode"
)

// TrimStrings trims surrounding whitespace in place. Nil pointers are skipped.
func TrimStrings(ss ...*string) {
	for _, s := range ss {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// TrimSlice trims every element of ss in place.
func TrimSlice(ss []string) {
	for i := range ss {
		ss[i] = strings.TrimSpace(ss[i])
	}
}

// ToSnakeCase converts a Go field name such as BirthDate or QRSize to
// birth_date or qr_size for error messages.
func ToSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
