// Package pdftext produces plain text from PDF files. It wraps the external
// poppler and tesseract binaries as opaque text-producing services, with a
// native in-process reader as fallback, and composes them into the content
// extractor the candidate indexer injects. Every failure degrades to less
// (or no) text; nothing in this package aborts a run.
package pdftext

import (
	"regexp"

	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// Options controls content extraction and OCR fallbacks.
type Options struct {
	UseOCR           bool   `toml:"use_ocr"`
	OCRPages         int    `toml:"ocr_pages"`
	OCRDPI           int    `toml:"ocr_dpi"`
	OCRLang          string `toml:"ocr_lang"`
	MinContentChars  int    `toml:"min_content_chars"`
	HeaderProbeChars int    `toml:"header_probe_chars"`
	MakeSearchable   bool   `toml:"make_searchable"`
	SearchableDir    string `toml:"searchable_dir"`
	SearchableForce  bool   `toml:"searchable_force"`
}

// DefaultOptions returns the tuned defaults: one OCR page at 220 DPI with
// German+English models, an 80-character minimum before OCR kicks in, and a
// 1200-character header probe window.
func DefaultOptions() Options {
	return Options{
		OCRPages:         1,
		OCRDPI:           220,
		OCRLang:          "deu+eng",
		MinContentChars:  80,
		HeaderProbeChars: 1200,
		SearchableDir:    ".searchable_pdfs",
	}
}

var (
	headerSignalPattern = regexp.MustCompile(`(?i)\b(vg|ovg|vgh|bverwg|bverfg|eugh|verwaltungsgericht|beschluss|urteil)\b`)
	azSignalPattern     = regexp.MustCompile(`\b[A-Z]?\s*\d{1,3}\s*[A-Za-z]{0,4}\s*\d{1,5}\s*[/.-]\s*\d{2,4}\b`)
)

// HasStructuredHeader reports whether the first probeChars characters of
// text look like a German court decision header: a court or decision-type
// keyword plus something shaped like an Aktenzeichen.
func HasStructuredHeader(text string, probeChars int) bool {
	if probeChars <= 0 {
		probeChars = 1200
	}
	head := text
	if len(head) > probeChars {
		head = head[:probeChars]
	}
	return headerSignalPattern.MatchString(head) && azSignalPattern.MatchString(head)
}

// plausibleLength reports whether extracted text is long enough, after
// normalization, to be trusted without OCR.
func plausibleLength(text string, minChars int) bool {
	return len(textnorm.Normalize(text)) >= minChars
}
