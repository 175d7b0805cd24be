// Package match resolves document references against the candidate index.
// The cascade runs tiers of decreasing strictness: an authoritative doc-id
// filename prefix, literal title phrases, EU case numbers, Aktenzeichen
// token containment (filename, then content), a bare-numeric-filename
// fallback, and finally scored title-token matching. Each tier records a
// human-readable reason; ambiguity is reported, never tie-broken.
package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/candidate"
	"github.com/coolbeans/dokmatch/pkg/reference"
)

// Result is the matcher's decision for one reference. Zero matches means no
// candidate was safe to accept; more than one signals an unresolved
// ambiguity that must not be renamed.
type Result struct {
	Ref     reference.Ref
	Matches []string
	Reason  string
}

// Thresholds carries the tuned constants of the cascade.
type Thresholds struct {
	// EarliestPhraseGap is the minimum offset gap, in normalized
	// characters, at which the candidate containing the Aktenzeichen
	// phrase earliest wins outright over the runner-up.
	EarliestPhraseGap int `toml:"earliest_phrase_gap"`
	// ScoreMargin is the absolute lead the top title score needs over the
	// runner-up.
	ScoreMargin int `toml:"score_margin"`
	// MinNameHits is the filename-token hit count required for a
	// name-dominance acceptance when the citation has two or more tokens.
	MinNameHits int `toml:"min_name_hits"`
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EarliestPhraseGap: 200,
		ScoreMargin:       2,
		MinNameHits:       2,
	}
}

// nonSignificantAzTokens are legal abbreviations that appear inside
// Aktenzeichen strings without identifying anything.
var nonSignificantAzTokens = map[string]bool{
	"rs": true, "nr": true, "az": true, "ga": true,
}

// Matcher resolves references against a candidate index. It is a pure
// function of its inputs: no randomness, no filesystem access.
type Matcher struct {
	thresholds Thresholds
}

// NewMatcher creates a matcher with the given thresholds.
func NewMatcher(thresholds Thresholds) *Matcher {
	return &Matcher{thresholds: thresholds}
}

// signals bundles everything extracted from one citation.
type signals struct {
	azTokens      []string
	azRaw         string
	azPhrase      string
	courtTokens   []string
	specificCourt []string
	dateVariants  []string
	titlePhrase   string
	specificTitle string
	literalTail   string
	decisionType  string
}

func extractSignals(citation string) signals {
	s := signals{
		azTokens:      reference.AktenzeichenTokens(citation),
		azRaw:         reference.AktenzeichenRaw(citation),
		azPhrase:      reference.AktenzeichenPhrase(citation),
		courtTokens:   reference.CourtTokens(citation),
		dateVariants:  reference.DateVariants(citation),
		titlePhrase:   reference.TitleMatchPhrase(citation),
		specificTitle: reference.SpecificTitlePhrase(citation),
		literalTail:   reference.LiteralTailPhrase(citation),
		decisionType:  reference.DecisionType(citation),
	}
	for _, token := range s.courtTokens {
		if !reference.IsGenericCourtToken(token) {
			s.specificCourt = append(s.specificCourt, token)
		}
	}
	return s
}

// Match runs the cascade for one reference.
func (m *Matcher) Match(ref reference.Ref, ix *candidate.Index) Result {
	sig := extractSignals(ref.Citation)
	files := ix.IDs()
	docID := ref.DocID()

	var candidates []string
	reason := ""

	// Tier 1: a filename already prefixed with this doc-id is
	// authoritative, provided the date agrees or no Aktenzeichen exists to
	// contradict it.
	var docIDCandidates []string
	for _, id := range files {
		if filenameStartsWithDocID(ix.Get(id), docID) {
			docIDCandidates = append(docIDCandidates, id)
		}
	}
	if len(docIDCandidates) == 1 &&
		(pathMatchesDate(ix.Get(docIDCandidates[0]), sig.dateVariants) || len(sig.azTokens) == 0) {
		candidates = docIDCandidates
		reason = fmt.Sprintf("Dokumentnummer im Dateinamen: %s", ix.Get(docIDCandidates[0]).Name)
	}

	// Tier 2: literal title-phrase containment. Dated citations are
	// expected to carry an Aktenzeichen instead, so they skip this tier.
	if len(candidates) == 0 &&
		(sig.titlePhrase != "" || sig.specificTitle != "" || sig.literalTail != "") &&
		len(sig.dateVariants) == 0 &&
		!strings.HasPrefix(sig.azRaw, "Rs. ") {
		var titleCandidates []string
		for _, id := range files {
			doc := ix.Get(id)
			if phraseHits(doc, sig.literalTail) || phraseHits(doc, sig.specificTitle) || phraseHits(doc, sig.titlePhrase) {
				titleCandidates = append(titleCandidates, id)
			}
		}
		titleCandidates = filterConflictingPrefixed(titleCandidates, ix, docID)
		titleCandidates = rejectSingleConflicting(titleCandidates, ix, docID)
		if len(titleCandidates) > 0 {
			candidates = titleCandidates
			reason = fmt.Sprintf("Titelphrase: %s", firstNonEmpty(sig.literalTail, sig.specificTitle, sig.titlePhrase))
		}
	}

	// Tier 3: EU case numbers demand literal containment. A detected EU
	// reference without an exact hit is a hard negative: weaker tiers
	// would only produce false positives.
	if len(candidates) == 0 {
		euCandidates := m.matchEUCase(sig, ix)
		if len(euCandidates) > 0 {
			euCandidates = filterConflictingPrefixed(euCandidates, ix, docID)
			euCandidates = rejectSingleConflicting(euCandidates, ix, docID)
			if len(euCandidates) > 0 {
				candidates = euCandidates
				reason = fmt.Sprintf("EU-Aktenzeichen: %s", sig.azRaw)
			} else {
				return Result{Ref: ref, Reason: fmt.Sprintf("EU-Aktenzeichen ohne exakten Treffer: %s", sig.azRaw)}
			}
		} else if reference.IsEUCase(sig.azRaw) {
			return Result{Ref: ref, Reason: fmt.Sprintf("EU-Aktenzeichen ohne exakten Treffer: %s", sig.azRaw)}
		}
	}

	if len(sig.azTokens) > 0 && len(candidates) == 0 {
		candidates, reason = m.matchByAzTokens(ref, sig, ix)
		if len(candidates) == 0 {
			titleFallback := m.matchByTitleTokens(ref, ix)
			if len(titleFallback.Matches) > 0 {
				prefix := reason
				if prefix == "" {
					prefix = "AZ-Treffer fehlt"
				}
				return Result{
					Ref:     ref,
					Matches: titleFallback.Matches,
					Reason:  fmt.Sprintf("%s -> Fallback %s", prefix, titleFallback.Reason),
				}
			}
		}
	} else if len(candidates) == 0 {
		titleFallback := m.matchByTitleTokens(ref, ix)
		candidates = titleFallback.Matches
		reason = titleFallback.Reason
	}

	sort.Strings(candidates)
	return Result{Ref: ref, Matches: candidates, Reason: reason}
}

// matchByAzTokens is tiers 4-6: Aktenzeichen token containment against
// filename tokens, the bare-numeric-filename fallback, and the same token
// requirement against content tokens.
func (m *Matcher) matchByAzTokens(ref reference.Ref, sig signals, ix *candidate.Index) ([]string, string) {
	docID := ref.DocID()
	files := ix.IDs()

	var numTokens, alphaTokens []string
	for _, token := range sig.azTokens {
		switch {
		case isDigits(token):
			numTokens = append(numTokens, token)
		case isAlpha(token) && len(token) > 1 && !nonSignificantAzTokens[token]:
			alphaTokens = append(alphaTokens, token)
		}
	}

	var candidates []string
	for _, id := range files {
		doc := ix.Get(id)
		if containsAllTokens(doc.NameTokens, numTokens) && containsAllTokens(doc.NameTokens, alphaTokens) {
			candidates = append(candidates, id)
		}
	}

	if sig.azPhrase != "" && len(candidates) > 0 {
		var exact []string
		for _, id := range candidates {
			doc := ix.Get(id)
			if strings.Contains(doc.NormStem(), sig.azPhrase) || strings.Contains(doc.NormContent, sig.azPhrase) {
				exact = append(exact, id)
			}
		}
		if len(exact) > 0 {
			candidates = exact
		}
	}

	candidates = m.narrowByEarliestAzPhrase(candidates, ix, sig.azPhrase)

	if sig.decisionType != "" && len(candidates) > 1 {
		if narrowed := narrowByDecisionType(candidates, ix, sig.decisionType); len(narrowed) > 0 {
			candidates = narrowed
		}
	}

	reason := fmt.Sprintf("AZ-Tokens: %s", strings.Join(sig.azTokens, " "))

	if len(sig.specificCourt) > 0 && len(candidates) > 1 {
		var narrowed []string
		for _, id := range candidates {
			stemTokens := ix.Get(id).NameTokens
			if containsAnyToken(stemTokens, sig.specificCourt) {
				narrowed = append(narrowed, id)
			}
		}
		if len(narrowed) > 0 {
			candidates = narrowed
			reason += fmt.Sprintf(", Gerichts-Tokens: %s", strings.Join(sig.specificCourt, " "))
		}
	}

	candidates = filterConflictingPrefixed(candidates, ix, docID)
	candidates = rejectSingleConflicting(candidates, ix, docID)

	// Tier 5: a filename that is exactly one significant number is
	// unambiguous.
	if len(candidates) == 0 {
		if numeric := numericFilenameFallback(sig.azTokens, ix); len(numeric) > 0 {
			return numeric, fmt.Sprintf("Numerischer Dateiname: %s", ix.Get(numeric[0]).Stem)
		}
	}

	// Tier 6: same token requirement against extracted content.
	if len(candidates) == 0 {
		for _, id := range files {
			doc := ix.Get(id)
			if len(doc.ContentTokens) == 0 {
				continue
			}
			if containsAllTokens(doc.ContentTokens, numTokens) && containsAllTokens(doc.ContentTokens, alphaTokens) {
				candidates = append(candidates, id)
			}
		}

		reason = fmt.Sprintf("Inhalt-AZ-Tokens: %s", strings.Join(sig.azTokens, " "))
		if sig.azPhrase != "" && len(candidates) > 0 {
			var narrowed []string
			for _, id := range candidates {
				doc := ix.Get(id)
				if strings.Contains(doc.NormStem(), sig.azPhrase) || strings.Contains(doc.NormContent, sig.azPhrase) {
					narrowed = append(narrowed, id)
				}
			}
			if len(narrowed) > 0 {
				candidates = narrowed
				reason += fmt.Sprintf(", AZ-Phrase: %s", sig.azPhrase)
			}
		}

		candidates = m.narrowByEarliestAzPhrase(candidates, ix, sig.azPhrase)
		candidates = filterConflictingPrefixed(candidates, ix, docID)
		candidates = rejectSingleConflicting(candidates, ix, docID)

		if len(sig.specificCourt) > 0 && len(candidates) > 1 {
			var narrowed []string
			for _, id := range candidates {
				if containsAnyToken(ix.Get(id).ContentTokens, sig.specificCourt) {
					narrowed = append(narrowed, id)
				}
			}
			if len(narrowed) > 0 {
				candidates = narrowed
				reason += fmt.Sprintf(", Gerichts-Tokens: %s", strings.Join(sig.specificCourt, " "))
			}
		}

		if len(sig.dateVariants) > 0 && len(candidates) > 1 {
			var narrowed []string
			for _, id := range candidates {
				if containsAnyPhrase(ix.Get(id).NormContent, sig.dateVariants) {
					narrowed = append(narrowed, id)
				}
			}
			if len(narrowed) > 0 {
				candidates = narrowed
				reason += fmt.Sprintf(", Datum: %s", sig.dateVariants[0])
			}
		}
	}

	return candidates, reason
}

// matchEUCase collects candidates containing the normalized EU case number,
// narrowed by date variants when several qualify.
func (m *Matcher) matchEUCase(sig signals, ix *candidate.Index) []string {
	if !reference.IsEUCase(sig.azRaw) {
		return nil
	}

	phrase := reference.EUCasePhrase(sig.azRaw)
	var candidates []string
	for _, id := range ix.IDs() {
		doc := ix.Get(id)
		if strings.Contains(doc.NormStem(), phrase) || strings.Contains(doc.NormContent, phrase) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) <= 1 {
		return candidates
	}

	var narrowed []string
	for _, id := range candidates {
		doc := ix.Get(id)
		if containsAnyPhrase(doc.NormContent, sig.dateVariants) || containsAnyPhrase(doc.NormStem(), sig.dateVariants) {
			narrowed = append(narrowed, id)
		}
	}
	if len(narrowed) > 0 {
		return narrowed
	}
	return candidates
}

// narrowByEarliestAzPhrase keeps the candidate whose content mentions the
// Aktenzeichen phrase earliest, when the runner-up's first mention is at
// least EarliestPhraseGap normalized characters later. The true decision
// states its own Aktenzeichen in the header; documents that merely cite it
// do so further in.
func (m *Matcher) narrowByEarliestAzPhrase(candidates []string, ix *candidate.Index, azPhrase string) []string {
	if len(candidates) <= 1 || azPhrase == "" {
		return candidates
	}

	type position struct {
		offset int
		id     string
	}
	var positions []position
	for _, id := range candidates {
		if offset := strings.Index(ix.Get(id).NormContent, azPhrase); offset >= 0 {
			positions = append(positions, position{offset, id})
		}
	}
	if len(positions) <= 1 {
		return candidates
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].offset < positions[j].offset
	})
	if positions[1].offset-positions[0].offset >= m.thresholds.EarliestPhraseGap {
		return []string{positions[0].id}
	}
	return candidates
}
