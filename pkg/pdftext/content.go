package pdftext

import (
	"context"
	"log/slog"
	"strings"

	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// ContentExtractor composes the extraction collaborators into the chain the
// candidate indexer injects: searchable-PDF cache, poppler with native
// fallback, header-OCR enrichment, and full OCR when the text layer is
// implausibly short. It implements candidate.TextExtractor.
type ContentExtractor struct {
	opts    Options
	poppler *PopplerExtractor
	native  *NativeExtractor
	ocr     *OCRExtractor
	cache   *SearchableCache
}

// NewContentExtractor wires the chain from the given options.
func NewContentExtractor(opts Options) *ContentExtractor {
	extractor := &ContentExtractor{
		opts:    opts,
		poppler: &PopplerExtractor{},
		native:  &NativeExtractor{},
		ocr: &OCRExtractor{
			Pages: opts.OCRPages,
			DPI:   opts.OCRDPI,
			Lang:  opts.OCRLang,
		},
	}
	if opts.MakeSearchable {
		extractor.cache = &SearchableCache{
			Dir:   opts.SearchableDir,
			Lang:  opts.OCRLang,
			Force: opts.SearchableForce,
		}
	}
	return extractor
}

// Extract produces the best available text for the file. Individual tool
// failures are logged and degrade the result; Extract itself only errors
// when every stage produced nothing and at least one failed.
func (e *ContentExtractor) Extract(ctx context.Context, path string) (string, error) {
	contentSource := path
	if e.cache != nil {
		searchable, err := e.cache.Build(ctx, path)
		if err != nil {
			slog.Debug("searchable cache unavailable", "file", path, "error", err)
		} else {
			contentSource = searchable
		}
	}

	text, layerErr := e.extractTextLayer(ctx, contentSource)
	text = e.maybeEnrichWithHeaderOCR(ctx, contentSource, text)

	if e.opts.UseOCR && !plausibleLength(text, e.opts.MinContentChars) {
		ocrText, err := e.ocr.Extract(ctx, contentSource)
		if err != nil {
			slog.Debug("ocr fallback failed", "file", path, "error", err)
		} else if len(textnorm.Normalize(ocrText)) > len(textnorm.Normalize(text)) {
			text = ocrText
		}
	}

	if text == "" && layerErr != nil {
		return "", layerErr
	}
	return text, nil
}

// extractTextLayer tries poppler first and falls back to the native reader.
func (e *ContentExtractor) extractTextLayer(ctx context.Context, path string) (string, error) {
	text, err := e.poppler.Extract(ctx, path)
	if err == nil {
		return text, nil
	}
	slog.Debug("pdftotext failed, trying native reader", "file", path, "error", err)

	nativeText, nativeErr := e.native.Extract(ctx, path)
	if nativeErr != nil {
		return "", err
	}
	return nativeText, nil
}

// maybeEnrichWithHeaderOCR prepends first-page OCR text when the extracted
// text layer lacks a structured court header but OCR finds one. Scanned
// decisions often carry a text layer for the body while the stamped header
// is image-only.
func (e *ContentExtractor) maybeEnrichWithHeaderOCR(ctx context.Context, path, text string) string {
	if HasStructuredHeader(text, e.opts.HeaderProbeChars) {
		return text
	}
	if !e.ocr.Available() {
		return text
	}

	headerOCR := &OCRExtractor{Pages: 1, DPI: e.opts.OCRDPI, Lang: e.opts.OCRLang}
	ocrText, err := headerOCR.Extract(ctx, path)
	if err != nil {
		slog.Debug("header ocr failed", "file", path, "error", err)
		return text
	}
	if !HasStructuredHeader(ocrText, e.opts.HeaderProbeChars) {
		return text
	}
	if strings.Contains(textnorm.Normalize(text), textnorm.Normalize(ocrText)) {
		return text
	}
	return strings.TrimSpace(ocrText + "\n" + text)
}
