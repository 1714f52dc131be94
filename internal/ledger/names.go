package ledger

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName folds case, accents and inner whitespace so that
// "José  Pérez" and "jose perez" compare equal.
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
