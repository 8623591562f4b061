package openlibrary

import (
	"regexp"
	"strings"
)

// Open Library identifiers arrive in many shapes: canonical keys, prefixed
// variants ("openlibrary:..."), bare ids, or keys embedded in longer URLs.
// The normalizers below try a fixed priority ladder and return the canonical
// form on the first hit. Work keys and edition ids use distinct trailing
// letters (W vs M), so no input can normalize to both.

var (
	workKeyExactRe    = regexp.MustCompile(`(?i)^/works/OL(\d+)W$`)
	workKeyPrefixedRe = regexp.MustCompile(`(?i)^openlibrary:/works/OL(\d+)W$`)
	workKeyBareRe     = regexp.MustCompile(`(?i)^OL(\d+)W$`)
	workKeyEmbeddedRe = regexp.MustCompile(`(?i)/works/OL(\d+)W`)

	editionIDExactRe    = regexp.MustCompile(`(?i)^OL(\d+)M$`)
	editionIDPrefixedRe = regexp.MustCompile(`(?i)^openlibrary:OL(\d+)M$`)
	editionIDPathRe     = regexp.MustCompile(`(?i)^/books/OL(\d+)M$`)
	editionIDEmbeddedRe = regexp.MustCompile(`(?i)\bOL(\d+)M\b`)
)

// NormalizeWorkKey parses a free-form identifier into the canonical
// "/works/OL<digits>W" form. It reports false when no work key is present.
func NormalizeWorkKey(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	for _, re := range []*regexp.Regexp{workKeyExactRe, workKeyPrefixedRe, workKeyBareRe, workKeyEmbeddedRe} {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return "/works/OL" + m[1] + "W", true
		}
	}
	return "", false
}

// NormalizeEditionID parses a free-form identifier into the canonical
// "OL<digits>M" form. It reports false when no edition id is present.
func NormalizeEditionID(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	for _, re := range []*regexp.Regexp{editionIDExactRe, editionIDPrefixedRe, editionIDPathRe, editionIDEmbeddedRe} {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return "OL" + m[1] + "M", true
		}
	}
	return "", false
}
