// Package naming builds deterministic target filenames for matched
// candidates. A target name is assembled from the citation's structured
// parts in fixed order: document number, court, decision marker, date,
// Aktenzeichen. Citations without structure fall back to title words, then
// to the source filename, so a reference never produces an empty name.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/reference"
	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

var (
	courtHeadPattern     = regexp.MustCompile(`(?i)^(VG|OVG|VGH|LG|AG|SG|LSG|BVerwG|BVerfG|BGH|EuGH|EuG|EGMR)\b`)
	decisionPartPattern  = regexp.MustCompile(`\b([UB])\.\s*v\.`)
	datePartPattern      = regexp.MustCompile(`\b(\d{2})\.(\d{2})\.(\d{4})\b`)
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)`)
)

// TargetFilename returns the filename a matched candidate should carry. The
// extension is taken from the source file, lowercased.
func TargetFilename(ref reference.Ref, srcName, separator string) string {
	parts := []string{ref.DocID()}

	head, _, _ := strings.Cut(ref.Citation, ",")
	head = strings.TrimSpace(parentheticalPattern.ReplaceAllString(head, " "))
	if courtHeadPattern.MatchString(head) {
		appendWords(&parts, head)
	}

	if decision := decisionPartPattern.FindStringSubmatch(ref.Citation); decision != nil {
		parts = append(parts, strings.ToUpper(decision[1]), "v")
	}

	if date := datePartPattern.FindStringSubmatch(ref.Citation); date != nil {
		parts = append(parts, date[1], date[2], date[3])
	}

	if azRaw := reference.AktenzeichenRaw(ref.Citation); azRaw != "" {
		appendWords(&parts, azRaw)
	}

	if len(parts) == 1 {
		parts = append(parts, reference.TitleFallbackWords(ref.Citation)...)
	}

	ext := filepath.Ext(srcName)
	if len(parts) == 1 {
		appendWords(&parts, strings.TrimSuffix(srcName, ext))
	}

	filename := strings.Join(parts, separator)
	if separator != "" {
		collapse := regexp.MustCompile(regexp.QuoteMeta(separator) + "+")
		filename = collapse.ReplaceAllString(filename, separator)
		filename = strings.Trim(filename, separator)
	}
	return filename + strings.ToLower(ext)
}

// appendWords splits text into filename words and appends each formatted
// word not already present.
func appendWords(parts *[]string, text string) {
	for _, word := range textnorm.SplitFilenameWords(text) {
		formatted := textnorm.FormatFilenameWord(word)
		if formatted == "" {
			continue
		}
		seen := false
		for _, existing := range *parts {
			if existing == formatted {
				seen = true
				break
			}
		}
		if !seen {
			*parts = append(*parts, formatted)
		}
	}
}
