package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/candidate"
	"github.com/coolbeans/dokmatch/pkg/reference"
	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// filenameDocIDPattern captures a leading four- or five-digit document
// number, with optional suffix letter, at the start of a filename stem.
var filenameDocIDPattern = regexp.MustCompile(`(?i)^(\d{4,5}[a-z]?)(?:$|[^a-z0-9])`)

// filenameDocID returns the lowercased doc-id prefix of the stem, or "".
func filenameDocID(doc *candidate.Doc) string {
	match := filenameDocIDPattern.FindStringSubmatch(doc.Stem)
	if match == nil {
		return ""
	}
	return strings.ToLower(match[1])
}

// filenameStartsWithDocID reports whether the normalized stem is exactly the
// doc-id or starts with it as a separate word.
func filenameStartsWithDocID(doc *candidate.Doc, docID string) bool {
	normStem := doc.NormStem()
	normDocID := textnorm.Normalize(docID)
	return normStem == normDocID || strings.HasPrefix(normStem, normDocID+" ")
}

// pathMatchesDate reports whether any date variant appears in the stem.
func pathMatchesDate(doc *candidate.Doc, dateVariants []string) bool {
	if len(dateVariants) == 0 {
		return false
	}
	return containsAnyPhrase(doc.NormStem(), dateVariants)
}

// filterConflictingPrefixed resolves candidate sets where filenames carry
// doc-id prefixes of their own: an exact prefix match wins, otherwise only
// unprefixed files survive. A set where every file is prefixed with a
// foreign doc-id is discarded entirely.
func filterConflictingPrefixed(candidates []string, ix *candidate.Index, docID string) []string {
	if len(candidates) <= 1 {
		return candidates
	}

	lower := strings.ToLower(docID)
	var exact []string
	for _, id := range candidates {
		if filenameDocID(ix.Get(id)) == lower {
			exact = append(exact, id)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var neutral []string
	for _, id := range candidates {
		if filenameDocID(ix.Get(id)) == "" {
			neutral = append(neutral, id)
		}
	}
	if len(neutral) > 0 {
		return neutral
	}

	return nil
}

// rejectSingleConflicting drops a sole candidate whose filename is prefixed
// with a different doc-id.
func rejectSingleConflicting(candidates []string, ix *candidate.Index, docID string) []string {
	if len(candidates) != 1 {
		return candidates
	}
	fileDocID := filenameDocID(ix.Get(candidates[0]))
	if fileDocID != "" && fileDocID != strings.ToLower(docID) {
		return nil
	}
	return candidates
}

// numericFilenameFallback matches when the Aktenzeichen yields exactly one
// significant number and a filename consists of that number alone.
func numericFilenameFallback(azTokens []string, ix *candidate.Index) []string {
	significant := map[string]bool{}
	for _, token := range azTokens {
		if isDigits(token) && len(token) >= 4 {
			significant[token] = true
		}
	}
	if len(significant) != 1 {
		return nil
	}
	var target string
	for token := range significant {
		target = token
	}

	var matches []string
	for _, id := range ix.IDs() {
		doc := ix.Get(id)
		if len(doc.NameTokens) == 1 && doc.NameTokens[target] {
			matches = append(matches, id)
		}
	}
	sort.Strings(matches)
	return matches
}

// filenameMatchesDecisionType reports whether the stem explicitly marks the
// decision type, either spelled out or via the "U. v." / "B. v."
// abbreviation surviving normalization as a token pair.
func filenameMatchesDecisionType(doc *candidate.Doc, decisionType string) bool {
	normalized := doc.NormStem()
	tokens := strings.Fields(normalized)

	pair := func(first, second string) bool {
		for i := 0; i+1 < len(tokens); i++ {
			if tokens[i] == first && tokens[i+1] == second {
				return true
			}
		}
		return false
	}

	if decisionType == reference.DecisionUrteil {
		return strings.Contains(normalized, "urteil") || pair("u", "v")
	}
	return strings.Contains(normalized, "beschluss") ||
		strings.Contains(normalized, "beweisbeschluss") ||
		pair("b", "v")
}

// narrowByDecisionType keeps candidates consistent with the citation's
// decision type. Urteil citations tolerate unmarked filenames; Beschluss
// citations require an explicit marking because Urteile are the common
// case.
func narrowByDecisionType(candidates []string, ix *candidate.Index, decisionType string) []string {
	var narrowed []string
	for _, id := range candidates {
		doc := ix.Get(id)
		if decisionType == reference.DecisionUrteil {
			normalized := doc.NormStem()
			if filenameMatchesDecisionType(doc, reference.DecisionUrteil) ||
				(!strings.Contains(" "+normalized+" ", " beschluss ") &&
					!strings.Contains(normalized, "beweisbeschluss") &&
					!filenameMatchesDecisionType(doc, reference.DecisionBeschluss)) {
				narrowed = append(narrowed, id)
			}
		} else if filenameMatchesDecisionType(doc, reference.DecisionBeschluss) {
			narrowed = append(narrowed, id)
		}
	}
	return narrowed
}

// phraseHits reports whether the phrase appears in the stem or content.
func phraseHits(doc *candidate.Doc, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(doc.NormStem(), phrase) || strings.Contains(doc.NormContent, phrase)
}

func containsAllTokens(set map[string]bool, tokens []string) bool {
	for _, token := range tokens {
		if !set[token] {
			return false
		}
	}
	return true
}

func containsAnyToken(set map[string]bool, tokens []string) bool {
	for _, token := range tokens {
		if set[token] {
			return true
		}
	}
	return false
}

func containsAnyPhrase(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if phrase != "" && strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
