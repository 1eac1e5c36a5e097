package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 80

// Slugify trasforma il nome di una chat in un id stabile:
// "Famiglia Rossì 🎉" → "famiglia-rossi"
func Slugify(name string) string {
	decomposed := norm.NFKD.String(strings.ToLower(name))

	var b strings.Builder
	pendingDash := false
	for _, r := range decomposed {
		switch {
		case r >= 0x0300 && r <= 0x036f:
			// Segni diacritici combinanti: scartati
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
	}
	if slug == "" {
		return "unknown"
	}
	return slug
}

// NormalizeText collapses whitespace runs into single spaces and trims.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
