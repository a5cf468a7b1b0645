package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader reduces each header cell to its canonical comparison
// form: BOM stripped, trimmed, lowercased, diacritics removed, and every
// character outside [a-z0-9] dropped. "Histórico", "Nº Documento" and
// "Date" become "historico", "ndocumento" and "date", usable both for
// dialect matching and for column lookup inside a parser.
func NormalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, field := range header {
		out[i] = NormalizeHeaderField(field)
	}
	return out
}

func NormalizeHeaderField(field string) string {
	s := strings.TrimPrefix(field, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeText lowercases, strips diacritics and collapses whitespace.
// It is the comparison form for descriptions: balance-line detection,
// type markers and categorization keywords all match against it.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripDiacritics(s)
	return strings.Join(strings.Fields(s), " ")
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
