package reference

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// The Aktenzeichen cascade: structural patterns tried in order, most
// specific first. Within a pattern the last match in the citation wins,
// because citations often restate the case number after an intervening
// phrase and the final occurrence is the authoritative one.
type azPattern struct {
	name    string
	pattern *regexp.Regexp
}

var (
	euCasePattern   = regexp.MustCompile(`\b(?:Rs\.?\s*)?[A-Z][-\x{2010}-\x{2015}]\s*\d{1,4}\s*/\s*\d{2,4}(?:\s*[A-Z])?\b`)
	adminRefPattern = regexp.MustCompile(`\b[A-Za-z]{1,4}\d{0,3}\.\d{1,6}\s*/\s*\d{1,4}(?:#\d+)?\b`)
	yearSlashPattern = regexp.MustCompile(`\b20\d{2}\s*/\s*\d{3,5}\b`)
	germanSlashPattern = regexp.MustCompile(`\b(?:[A-Za-z]{1,4}\s+)?\d{1,3}\s*[A-Za-z]{1,6}\s*\d{1,5}\s*/\s*\d{2}(?:\.?[A-Za-z]+)?\b`)
	germanDotPattern = regexp.MustCompile(`\b(?:[A-Za-z]{1,4}\s+)?\d{1,3}\s*[A-Za-z]{1,6}\s*\d{1,5}\.\d{2}(?:\.?[A-Za-z]+)?\b`)
	germanDashPattern = regexp.MustCompile(`\b(?:[A-Za-z]{1,4}\s+)?\d{1,3}\s*[A-Za-z]{1,6}\s*\d{1,5}\s*-\s*\d{2}(?:\.?[A-Za-z]+)?\b`)

	dottedNumberPattern = regexp.MustCompile(`\b\d{1,3}\.\d{3,5}\b`)
	plainNumberPattern  = regexp.MustCompile(`\b\d{5,}\b`)
	rsMarkerPattern     = regexp.MustCompile(`(?i)\bRs\.?\b`)
)

var azCascade = []azPattern{
	{"eu-case", euCasePattern},
	{"admin-ref", adminRefPattern},
	{"year-slash", yearSlashPattern},
	{"german-slash", germanSlashPattern},
	{"german-dot", germanDotPattern},
	{"german-dash", germanDashPattern},
}

// AktenzeichenRaw returns the raw case-file substring of the citation, or ""
// if none of the patterns apply.
func AktenzeichenRaw(citation string) string {
	for _, entry := range azCascade {
		matches := entry.pattern.FindAllString(citation, -1)
		if len(matches) > 0 {
			return matches[len(matches)-1]
		}
	}

	// Dotted numeric fallback, rejecting values that read like calendar
	// dates (dd.mm or anything ending in a plausible year).
	var usable []string
	for _, candidate := range dottedNumberPattern.FindAllString(citation, -1) {
		left, right, ok := strings.Cut(candidate, ".")
		if !ok {
			continue
		}
		leftNum, _ := strconv.Atoi(left)
		rightNum, _ := strconv.Atoi(right)
		if rightNum >= 1900 && rightNum <= 2100 {
			continue
		}
		if leftNum <= 31 && rightNum <= 12 {
			continue
		}
		usable = append(usable, candidate)
	}
	if len(usable) > 0 {
		return usable[len(usable)-1]
	}

	if matches := plainNumberPattern.FindAllString(citation, -1); len(matches) > 0 {
		return matches[len(matches)-1]
	}
	return ""
}

// AktenzeichenPhrase returns the normalized form of the raw case-file
// substring, usable as a literal containment probe.
func AktenzeichenPhrase(citation string) string {
	raw := AktenzeichenRaw(citation)
	if raw == "" {
		return ""
	}
	return textnorm.Normalize(raw)
}

// AktenzeichenTokens returns the normalized token sequence of the case-file
// substring, or nil if the citation carries none.
func AktenzeichenTokens(citation string) []string {
	raw := AktenzeichenRaw(citation)
	if raw == "" {
		return nil
	}
	return textnorm.Tokenize(raw)
}

// IsEUCase reports whether the raw case-file string is an EU-style court
// reference such as "Rs. C-123/22".
func IsEUCase(azRaw string) bool {
	return azRaw != "" && euCasePattern.MatchString(azRaw)
}

// EUCasePhrase normalizes an EU case reference for containment probing,
// dropping the "Rs." case marker.
func EUCasePhrase(azRaw string) string {
	return textnorm.Normalize(rsMarkerPattern.ReplaceAllString(azRaw, " "))
}
