// Package textnorm canonicalizes heterogeneous citation and filename text
// into comparable lowercase ASCII token streams. Every other package in the
// matching pipeline compares text through these transforms, so candidate
// filenames, extracted PDF content, and citation strings all land in the
// same alphabet before any containment check runs.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and drops the combining marks,
// leaving the base letters ("ä" -> "a", "é" -> "e").
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

var (
	nonAlnumRun  = regexp.MustCompile(`[^a-z0-9]+`)
	wordBoundary = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

var germanTransliterator = strings.NewReplacer(
	"Ä", "Ae",
	"Ö", "Oe",
	"Ü", "Ue",
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

// Normalize folds text to lowercase ASCII: combining marks are discarded,
// every run of characters outside [a-z0-9] collapses to a single space, and
// the result is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)
	folded = nonAlnumRun.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Tokenize splits the normalized form on whitespace. Empty or
// whitespace-only input yields no tokens.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}

// TokenSet returns the distinct normalized tokens of text.
func TokenSet(text string) map[string]bool {
	tokens := Tokenize(text)
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		set[token] = true
	}
	return set
}

// TransliterateGerman expands umlauts and ß into their multi-letter ASCII
// equivalents before decomposing any remaining accented characters. Unlike
// Normalize it preserves case, so the output is still usable for
// human-readable filename parts.
func TransliterateGerman(text string) string {
	expanded := germanTransliterator.Replace(text)
	folded, _, err := transform.String(stripMarks, expanded)
	if err != nil {
		return expanded
	}
	return folded
}

// SplitFilenameWords splits text into words on non-alphanumeric boundaries
// after German transliteration, preserving the original casing of each word.
func SplitFilenameWords(text string) []string {
	cleaned := TransliterateGerman(text)
	parts := wordBoundary.Split(cleaned, -1)
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			words = append(words, part)
		}
	}
	return words
}

// FormatFilenameWord title-cases a word for use in a generated filename.
// Purely numeric words, fully uppercase words, and words with an interior
// uppercase letter (abbreviation heuristic) pass through unchanged.
func FormatFilenameWord(word string) string {
	if word == "" || isAllDigits(word) || isAllUpper(word) {
		return word
	}
	for _, r := range word[1:] {
		if unicode.IsUpper(r) {
			return word
		}
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

func isAllDigits(word string) bool {
	for _, r := range word {
		if r < '0' || r > '9' {
			return false
		}
	}
	return word != ""
}

// isAllUpper reports whether word contains at least one letter and no
// lowercase letters.
func isAllUpper(word string) bool {
	hasLetter := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
