package match

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/candidate"
	"github.com/coolbeans/dokmatch/pkg/reference"
	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

var (
	urteilAbbrevPattern    = regexp.MustCompile(`\bU\.\s*v\.`)
	beschlussAbbrevPattern = regexp.MustCompile(`\bB\.\s*v\.`)
)

// scoredDoc is one candidate's title score with its tie-break components.
type scoredDoc struct {
	score       int
	nameHits    int
	contentHits int
	id          string
	lowerName   string
}

// matchByTitleTokens is the last tier: score every candidate by citation
// token overlap and phrase bonuses, and accept the top candidate only when
// it leads the runner-up by a safe margin. Used when no Aktenzeichen tier
// produced a match.
func (m *Matcher) matchByTitleTokens(ref reference.Ref, ix *candidate.Index) Result {
	rawTokens := textnorm.Tokenize(ref.Citation)
	var citationTokens []string
	for _, token := range rawTokens {
		if len(token) > 3 && !reference.IsGenericCourtToken(token) &&
			!reference.IsCommonTitleToken(token) && !isDigits(token) {
			citationTokens = append(citationTokens, token)
		}
	}
	// A short leading number is usually a report-internal ordinal worth
	// keeping as a discriminator.
	if len(rawTokens) > 0 {
		first := rawTokens[0]
		if isDigits(first) && len(first) >= 1 && len(first) <= 2 && !containsString(citationTokens, first) {
			citationTokens = append(citationTokens, first)
		}
	}

	var extraTokens []string
	if urteilAbbrevPattern.MatchString(ref.Citation) {
		extraTokens = append(extraTokens, "urteil")
	} else if beschlussAbbrevPattern.MatchString(ref.Citation) {
		extraTokens = append(extraTokens, "beschluss")
	}
	for _, token := range reference.CourtTokens(ref.Citation) {
		if len(token) > 1 && !isDigits(token) {
			extraTokens = append(extraTokens, token)
		}
	}
	for _, token := range extraTokens {
		if !containsString(citationTokens, token) {
			citationTokens = append(citationTokens, token)
		}
	}

	if len(citationTokens) == 0 {
		return Result{Ref: ref, Reason: "Kein robustes Aktenzeichen extrahiert"}
	}

	dateVariants := reference.DateVariants(ref.Citation)
	titlePhrase := reference.TitleMatchPhrase(ref.Citation)
	specificTitle := reference.SpecificTitlePhrase(ref.Citation)
	literalTail := reference.LiteralTailPhrase(ref.Citation)
	normCitation := textnorm.Normalize(ref.Citation)
	docID := ref.DocID()
	lowerDocID := strings.ToLower(docID)

	var scored []scoredDoc
	for _, id := range ix.IDs() {
		doc := ix.Get(id)
		normStem := doc.NormStem()

		nameHits, contentHits := 0, 0
		for _, token := range citationTokens {
			if doc.NameTokens[token] {
				nameHits++
			}
			if doc.ContentTokens[token] {
				contentHits++
			}
		}
		score := nameHits*3 + contentHits

		if titlePhrase != "" && strings.Contains(doc.NormContent, titlePhrase) {
			score += 4
		}
		if titlePhrase != "" && strings.Contains(normStem, titlePhrase) {
			score += 3
		}
		if specificTitle != "" && strings.Contains(doc.NormContent, specificTitle) {
			score += 6
		}
		if specificTitle != "" && strings.Contains(normStem, specificTitle) {
			score += 5
		}
		if literalTail != "" && strings.Contains(doc.NormContent, literalTail) {
			score += 8
		}
		if literalTail != "" && strings.Contains(normStem, literalTail) {
			score += 6
		}
		if pathMatchesDate(doc, dateVariants) {
			score += 3
		}
		if filenameStartsWithDocID(doc, docID) {
			score += 5
		}
		if fileDocID := filenameDocID(doc); fileDocID != "" && fileDocID != lowerDocID {
			score -= 6
		}

		// Correspondence citations: a letter TO the commission and the
		// commission's reply are near-duplicates by token overlap, so the
		// direction markers carry the decision.
		if strings.Contains(normCitation, "einsender") && !strings.Contains(normCitation, "antwortschreiben") {
			if strings.Contains(normStem, "schreiben an") {
				score += 3
			}
			if strings.Contains(normStem, "europ") && strings.Contains(normStem, "kommission") {
				score -= 2
			}
		}
		if strings.Contains(normCitation, "antwortschreiben") {
			if strings.Contains(normStem, "europ") && strings.Contains(normStem, "kommission") {
				score += 4
			}
			if strings.Contains(normStem, "schreiben an") {
				score -= 2
			}
		}

		if score > 0 {
			scored = append(scored, scoredDoc{score, nameHits, contentHits, id, strings.ToLower(doc.Name)})
		}
	}

	if len(scored) == 0 {
		return Result{Ref: ref, Reason: "Kein robustes Aktenzeichen extrahiert"}
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.nameHits != b.nameHits {
			return a.nameHits > b.nameHits
		}
		if a.contentHits != b.contentHits {
			return a.contentHits > b.contentHits
		}
		return a.lowerName > b.lowerName
	})

	top := scored[0]
	secondScore, secondNameHits := -1, -1
	if len(scored) > 1 {
		secondScore = scored[1].score
		secondNameHits = scored[1].nameHits
	}

	tokenCount := len(citationTokens)
	minNameHits := 1
	if tokenCount >= 2 {
		minNameHits = m.thresholds.MinNameHits
	}
	minScore := 3
	if tokenCount > 3 {
		minScore = tokenCount
		if minScore < 4 {
			minScore = 4
		}
		if minScore > 8 {
			minScore = 8
		}
	}

	var candidates []string
	switch {
	case top.nameHits >= minNameHits && top.nameHits > secondNameHits:
		candidates = []string{top.id}
	case top.score >= minScore && top.score >= secondScore+m.thresholds.ScoreMargin:
		candidates = []string{top.id}
	case filenameStartsWithDocID(ix.Get(top.id), docID) && top.score >= max(4, secondScore+1):
		candidates = []string{top.id}
	}

	reason := fmt.Sprintf("Titel-Score: top=%d, second=%d, name=%d, content=%d, tokens=%d",
		top.score, secondScore, top.nameHits, top.contentHits, tokenCount)

	candidates = filterConflictingPrefixed(candidates, ix, docID)
	candidates = rejectSingleConflicting(candidates, ix, docID)
	sort.Strings(candidates)
	return Result{Ref: ref, Matches: candidates, Reason: reason}
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
