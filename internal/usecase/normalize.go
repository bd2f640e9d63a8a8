package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, removes combining marks, and recomposes,
// so "Açaí" becomes "Acai" before the alphanumeric filter runs
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Package-level compiled regex pattern for performance
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName canonicalizes a name for comparison: lower-case, strip
// diacritical marks, then drop every character that is not an ASCII letter or
// digit. Total function; empty input yields empty output.
func NormalizeName(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result, _, _ = transform.String(stripAccents, result)
	return nonAlphanumericRegex.ReplaceAllString(result, "")
}
