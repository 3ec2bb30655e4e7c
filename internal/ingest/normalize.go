package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRE  = regexp.MustCompile(`\s+`)
	leadLettersRE = regexp.MustCompile(`^[\p{L}]+`)
	accentStrip   = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// normalizeColumn canonicalizes a header cell for matching: trimmed,
// lower-cased, whitespace collapsed to underscores, accents stripped.
// Spreadsheets arrive with headers like "Duração" or "Horas Paradas".
func normalizeColumn(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	c = whitespaceRE.ReplaceAllString(c, "_")
	if stripped, _, err := transform.String(accentStrip, c); err == nil {
		c = stripped
	}
	return c
}

// inferFleet derives a fleet code from a machine identifier's leading
// letters, e.g. "CB042" -> "CB". Falls back to the first three characters.
func inferFleet(machine string) string {
	machine = strings.TrimSpace(machine)
	if machine == "" {
		return "UNKNOWN"
	}
	if m := leadLettersRE.FindString(machine); m != "" {
		return strings.ToUpper(normalizeColumn(m))
	}
	if len(machine) > 3 {
		machine = machine[:3]
	}
	return strings.ToUpper(machine)
}

// pickColumn returns the index of the first candidate present in the
// normalized header, or -1.
func pickColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, have := range header {
			if have == want {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, c := range raw {
		out[i] = normalizeColumn(c)
	}
	return out
}
