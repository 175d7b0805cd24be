package reference

import (
	"regexp"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// DecisionType labels the kind of court decision a citation announces.
const (
	DecisionUrteil    = "urteil"
	DecisionBeschluss = "beschluss"
)

var (
	urteilMarkerPattern    = regexp.MustCompile(`\bU\.\s*v\.`)
	beschlussMarkerPattern = regexp.MustCompile(`\bB\.\s*v\.`)

	dokumentLabelPattern  = regexp.MustCompile(`(?i)^\s*Dokument\s*:\s*`)
	einsenderLabelPattern = regexp.MustCompile(`(?i)^\s*Einsender\s*:\s*`)
	decisionMarkerStrip   = regexp.MustCompile(`\b([UB])\.\s*v\.`)
	dateStripPattern      = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	parentheticalPattern  = regexp.MustCompile(`\([^)]*\)`)
)

// genericCourtTokens are court abbreviations too common to identify a
// document on their own.
var genericCourtTokens = map[string]bool{
	"vg": true, "ovg": true, "vgh": true, "bverwg": true, "eugh": true,
	"euaa": true, "lg": true, "ag": true, "sg": true, "lsg": true,
	"bgh": true, "egmr": true, "eu": true, "b": true, "u": true, "v": true,
}

// commonTitleTokens are German connective words and citation boilerplate
// excluded from title matching.
var commonTitleTokens = map[string]bool{
	"dokument": true, "einsender": true, "vom": true, "zur": true,
	"zum": true, "und": true, "der": true, "die": true, "das": true,
	"des": true, "den": true, "im": true, "in": true, "auf": true,
	"von": true, "v": true, "u": true, "b": true, "nr": true, "an": true,
	"mit": true, "fur": true, "eine": true, "einer": true, "bei": true,
}

// IsGenericCourtToken reports whether token is a generic court abbreviation.
func IsGenericCourtToken(token string) bool {
	return genericCourtTokens[token]
}

// IsCommonTitleToken reports whether token is citation boilerplate or a
// German connective word.
func IsCommonTitleToken(token string) bool {
	return commonTitleTokens[token]
}

// CourtTokens returns up to three normalized tokens from the citation head
// (the segment before the first comma), which by convention names the court.
func CourtTokens(citation string) []string {
	head, _, _ := strings.Cut(citation, ",")
	tokens := textnorm.Tokenize(head)
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return tokens
}

// DateVariants returns both normalized orderings of the first dd.mm.yyyy
// date in the citation: "dd mm yyyy" and "yyyy mm dd". Candidate content may
// render dates either way.
func DateVariants(citation string) []string {
	match := datePattern.FindStringSubmatch(citation)
	if match == nil {
		return nil
	}
	day, month, year := match[1], match[2], match[3]
	return []string{
		day + " " + month + " " + year,
		year + " " + month + " " + day,
	}
}

// DecisionType returns "urteil" for a "U. v." marker, "beschluss" for
// "B. v.", and "" when the citation announces neither.
func DecisionType(citation string) string {
	if urteilMarkerPattern.MatchString(citation) {
		return DecisionUrteil
	}
	if beschlussMarkerPattern.MatchString(citation) {
		return DecisionBeschluss
	}
	return ""
}

func stripCitationLabels(citation string) string {
	cleaned := StripRefMarkers(citation)
	cleaned = dokumentLabelPattern.ReplaceAllString(cleaned, "")
	cleaned = einsenderLabelPattern.ReplaceAllString(cleaned, "")
	return cleaned
}

// TitleMatchPhrase builds a normalized probe phrase from the citation's
// descriptive words: decision markers and dates are stripped, stopwords and
// short tokens dropped, and the first eight remaining tokens joined.
func TitleMatchPhrase(citation string) string {
	cleaned := stripCitationLabels(citation)
	cleaned = decisionMarkerStrip.ReplaceAllString(cleaned, " ")
	cleaned = dateStripPattern.ReplaceAllString(cleaned, " ")
	var tokens []string
	for _, token := range textnorm.Tokenize(cleaned) {
		if len(token) > 2 && !commonTitleTokens[token] && !genericCourtTokens[token] {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) > 8 {
		tokens = tokens[:8]
	}
	return strings.Join(tokens, " ")
}

// SpecificTitlePhrase builds a stricter probe from the last four
// non-numeric descriptive tokens, or "" if the citation is too short.
func SpecificTitlePhrase(citation string) string {
	cleaned := stripCitationLabels(citation)
	var tokens []string
	for _, token := range textnorm.Tokenize(cleaned) {
		if len(token) > 2 && !commonTitleTokens[token] && !genericCourtTokens[token] && !isDigits(token) {
			tokens = append(tokens, token)
		}
	}
	if len(tokens) < 4 {
		return ""
	}
	return strings.Join(tokens[len(tokens)-4:], " ")
}

// LiteralTailPhrase builds the most literal probe: the last six normalized
// tokens of the citation, stopwords included, or "" if it is too short.
func LiteralTailPhrase(citation string) string {
	cleaned := stripCitationLabels(citation)
	tokens := textnorm.Tokenize(cleaned)
	if len(tokens) < 4 {
		return ""
	}
	if len(tokens) > 6 {
		tokens = tokens[len(tokens)-6:]
	}
	return strings.Join(tokens, " ")
}

// TitleFallbackWords derives up to six display-cased words from the citation
// for filename construction when no structured signals are available.
// Parenthetical asides, decision markers, dates, and the case-file substring
// are removed first.
func TitleFallbackWords(citation string) []string {
	text := parentheticalPattern.ReplaceAllString(citation, " ")
	text = decisionMarkerStrip.ReplaceAllString(text, " ")
	text = dateStripPattern.ReplaceAllString(text, " ")
	if azRaw := AktenzeichenRaw(text); azRaw != "" {
		text = strings.ReplaceAll(text, azRaw, " ")
	}
	var words []string
	for _, word := range textnorm.SplitFilenameWords(text) {
		lowered := textnorm.Normalize(word)
		if len(lowered) <= 2 || commonTitleTokens[lowered] || genericCourtTokens[lowered] {
			continue
		}
		formatted := textnorm.FormatFilenameWord(word)
		if !containsString(words, formatted) {
			words = append(words, formatted)
		}
	}
	if len(words) > 6 {
		words = words[:6]
	}
	return words
}

func isDigits(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return token != ""
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
