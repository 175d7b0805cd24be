// Package reference locates "Dokument Nr." markers in a source report and
// reconstructs the citation text around each one. A citation may span up to
// three lines, so the extractor scores candidate context windows and keeps
// the one that looks most like a structured court citation.
package reference

import (
	"regexp"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// Ref is one detected document reference: the assigned number, an optional
// lowercase letter suffix, and the reconstructed citation text.
type Ref struct {
	DocNumber string `json:"doc_number"`
	DocSuffix string `json:"doc_suffix"`
	Citation  string `json:"citation"`
	LineNo    int    `json:"line_no"`
}

// DocID returns the full document identifier, e.g. "4224b".
func (r Ref) DocID() string {
	return r.DocNumber + r.DocSuffix
}

var (
	refMarkerPattern = regexp.MustCompile(`(?i)\(Dokument Nr\.\s*(\d{4,5})\s*([a-z])?\)`)
	refStripPattern  = regexp.MustCompile(`(?i)\(Dokument Nr\.\s*\d{4,5}\s*[a-z]?\)`)
	datePattern      = regexp.MustCompile(`\b(\d{2})\.(\d{2})\.(\d{4})\b`)
	courtHintPattern = regexp.MustCompile(`(?i)\b(VG|OVG|VGH|LG|BVerwG|BVerfG|EuGH|AG)\b`)
	azHintPattern    = regexp.MustCompile(`\d{1,3}\s*[A-Za-z]{0,4}\s*\d{1,5}\s*[/.-]\s*\d{2}|\d{1,3}\.\d{3,5}`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// continuationSuffixes mark a line that grammatically continues on the next
// one; such lines are likely the true start of a multi-line citation.
var continuationSuffixes = []string{"-", "und", "des", "der", "die", "vom", "zur", "zum", "im", "am"}

// ExtractRefs scans the source text line by line and returns one Ref per
// detected marker, in text order. Lines without a marker are skipped.
func ExtractRefs(text string) []Ref {
	lines := strings.Split(text, "\n")
	var refs []Ref

	for idx, line := range lines {
		if !strings.Contains(line, "Dokument Nr.") {
			continue
		}
		loc := refMarkerPattern.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		docNumber := line[loc[2]:loc[3]]
		docSuffix := ""
		if loc[4] != -1 {
			docSuffix = strings.ToLower(line[loc[4]:loc[5]])
		}

		before := strings.TrimSpace(line[:loc[0]])
		prev1, prev2 := "", ""
		if idx-1 >= 0 {
			prev1 = strings.TrimSpace(lines[idx-1])
		}
		if idx-2 >= 0 {
			prev2 = strings.TrimSpace(lines[idx-2])
		}

		citation := selectCitationWindow(before, prev1, prev2)
		citation = StripRefMarkers(citation)
		citation = whitespaceRun.ReplaceAllString(citation, " ")
		citation = strings.Trim(citation, " ,;-")

		refs = append(refs, Ref{
			DocNumber: docNumber,
			DocSuffix: docSuffix,
			Citation:  citation,
			LineNo:    idx + 1,
		})
	}

	return refs
}

// StripRefMarkers removes embedded "(Dokument Nr. ...)" markers from text.
func StripRefMarkers(text string) string {
	return refStripPattern.ReplaceAllString(text, " ")
}

// selectCitationWindow picks the best context window for a marker found at
// the end of "before". Windows grow backwards one line at a time; ties go to
// the shortest window.
func selectCitationWindow(before, prev1, prev2 string) string {
	windows := []string{
		before,
		strings.TrimSpace(prev1 + " " + before),
		strings.TrimSpace(prev2 + " " + prev1 + " " + before),
	}

	beforeStructured := hasStructuredCitation(before)
	prev1Structured := hasStructuredCitation(prev1)
	prev2Structured := hasStructuredCitation(prev2)
	beforeLooksLikeTitle := len(textnorm.SplitFilenameWords(before)) >= 4 && !beforeStructured

	// A marker at line start whose two predecessors chain together is a
	// citation that broke across prev2 and prev1.
	if before == "" && prev1 != "" && endsWithJoiner(prev2) {
		return strings.TrimSpace(prev2 + " " + prev1)
	}
	// A descriptive title continued from the previous line.
	if beforeLooksLikeTitle && endsWithJoiner(prev1) {
		return strings.TrimSpace(prev1 + " " + before)
	}
	// A self-contained title; the structured citation above belongs to a
	// different reference.
	if beforeLooksLikeTitle && (prev1Structured || prev2Structured) {
		return before
	}

	best := windows[0]
	bestScore := windowQuality(windows[0], before, prev1)
	for _, window := range windows[1:] {
		if score := windowQuality(window, before, prev1); score > bestScore {
			best = window
			bestScore = score
		}
	}
	return best
}

// windowQuality scores a context window by the citation signals it contains.
func windowQuality(window, before, prev1 string) int {
	window = StripRefMarkers(window)
	score := 0
	if courtHintPattern.MatchString(window) {
		score += 3
	}
	if datePattern.MatchString(window) {
		score += 2
	}
	if azHintPattern.MatchString(window) {
		score += 2
	}
	if window == before && len(textnorm.SplitFilenameWords(window)) >= 4 {
		score += 6
	}
	if window != before && endsWithContinuation(prev1) {
		score += 7
	}
	score += min(len(window), 120) / 40
	return score
}

func hasStructuredCitation(line string) bool {
	if line == "" {
		return false
	}
	return courtHintPattern.MatchString(line) ||
		datePattern.MatchString(line) ||
		azHintPattern.MatchString(line)
}

func endsWithContinuation(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	for _, suffix := range continuationSuffixes {
		if strings.HasSuffix(trimmed, suffix) {
			return true
		}
	}
	return false
}

// endsWithJoiner is the stricter variant used when deciding whether to glue
// whole lines together: only an explicit hyphen break or a trailing "und"
// count.
func endsWithJoiner(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return strings.HasSuffix(trimmed, "und") || strings.HasSuffix(trimmed, "-")
}
