// Package candidate models the folder of PDF files eligible for renaming
// and builds the token index the matcher runs against. Content analysis is
// delegated to an injected TextExtractor so the matching core can be tested
// against fixed in-memory corpora.
package candidate

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/coolbeans/dokmatch/pkg/textnorm"
)

// Doc is one candidate file. ID is the canonicalized absolute path and is
// the identity used in every map and match result; Name and Stem are kept
// for display and token derivation.
type Doc struct {
	ID            string
	Name          string
	Stem          string
	NameTokens    map[string]bool
	ContentTokens map[string]bool
	NormContent   string
}

// NormStem returns the normalized filename stem, the string every
// filename-level containment probe runs against.
func (d *Doc) NormStem() string {
	return textnorm.Normalize(d.Stem)
}

// TextExtractor produces plain text for a candidate file. Implementations
// wrap external tools; a failing extraction returns an error and the
// affected candidate degrades to a name-only index entry.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// TextExtractorFunc adapts a function to the TextExtractor interface.
type TextExtractorFunc func(ctx context.Context, path string) (string, error)

func (f TextExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// ignoredNames lists lowercased filenames that are never candidates.
var ignoredNames = map[string]bool{
	"inhaltsverzeichnis.pdf": true,
}

// searchableSuffix marks derived searchable-PDF cache artifacts.
const searchableSuffix = ".searchable.pdf"

// List returns the canonicalized paths of all candidate PDFs in folder,
// sorted, excluding the source report, ignored names, and derived
// searchable-PDF artifacts.
func List(folder, sourcePath string) ([]string, error) {
	pattern := filepath.Join(folder, "*.{pdf,PDF}")
	files, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}

	canonicalSource := canonicalize(sourcePath)
	var out []string
	for _, file := range files {
		lowered := strings.ToLower(filepath.Base(file))
		if ignoredNames[lowered] || strings.HasSuffix(lowered, searchableSuffix) {
			continue
		}
		canonical := canonicalize(file)
		if canonical == canonicalSource {
			continue
		}
		out = append(out, canonical)
	}
	sort.Strings(out)
	return out, nil
}

func canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

// Index is the read-only candidate table built once before matching starts.
type Index struct {
	docs map[string]*Doc
	ids  []string
}

// IDs returns the candidate identifiers in sorted order.
func (ix *Index) IDs() []string {
	return ix.ids
}

// Get returns the candidate with the given ID, or nil.
func (ix *Index) Get(id string) *Doc {
	return ix.docs[id]
}

// Len returns the number of indexed candidates.
func (ix *Index) Len() int {
	return len(ix.ids)
}

// BuildIndex builds a Doc per file. Filename tokens are always derived;
// content tokens only when extractor is non-nil. Extraction failures degrade
// the affected candidate to an empty content index and are logged, never
// fatal.
func BuildIndex(ctx context.Context, files []string, extractor TextExtractor) *Index {
	index := &Index{docs: make(map[string]*Doc, len(files))}

	for _, file := range files {
		name := filepath.Base(file)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		doc := &Doc{
			ID:            file,
			Name:          name,
			Stem:          stem,
			NameTokens:    textnorm.TokenSet(stem),
			ContentTokens: map[string]bool{},
		}

		if extractor != nil {
			text, err := extractor.Extract(ctx, file)
			if err != nil {
				slog.Warn("content extraction failed, indexing filename only",
					"file", name, "error", err)
			} else {
				doc.NormContent = textnorm.Normalize(text)
				if doc.NormContent != "" {
					doc.ContentTokens = textnorm.TokenSet(doc.NormContent)
				}
			}
		}

		index.docs[doc.ID] = doc
		index.ids = append(index.ids, doc.ID)
	}

	sort.Strings(index.ids)
	return index
}

// NewIndexFromDocs builds an index directly from prepared docs. Used by
// tests and by callers that already hold extracted content.
func NewIndexFromDocs(docs []*Doc) *Index {
	index := &Index{docs: make(map[string]*Doc, len(docs))}
	for _, doc := range docs {
		if doc.NameTokens == nil {
			doc.NameTokens = textnorm.TokenSet(doc.Stem)
		}
		if doc.ContentTokens == nil {
			doc.ContentTokens = map[string]bool{}
			if doc.NormContent != "" {
				doc.ContentTokens = textnorm.TokenSet(doc.NormContent)
			}
		}
		index.docs[doc.ID] = doc
		index.ids = append(index.ids, doc.ID)
	}
	sort.Strings(index.ids)
	return index
}
