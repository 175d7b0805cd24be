package candidate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestListExcludesSourceAndArtifacts(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "quelle.pdf")
	writeFile(t, dir, "5 K 1234-23 Beschluss VG Berlin.pdf")
	writeFile(t, dir, "bericht.PDF")
	writeFile(t, dir, "bericht.searchable.pdf")
	writeFile(t, dir, "Inhaltsverzeichnis.pdf")
	writeFile(t, dir, "notizen.txt")

	files, err := List(dir, source)
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.ElementsMatch(t, []string{"5 K 1234-23 Beschluss VG Berlin.pdf", "bericht.PDF"}, names)
}

func TestListSorted(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "quelle.pdf")
	writeFile(t, dir, "b.pdf")
	writeFile(t, dir, "a.pdf")

	files, err := List(dir, source)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Less(t, files[0], files[1])
}

func TestBuildIndexNameTokensOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "5 K 1234-23 Beschluss VG Berlin.pdf")

	index := BuildIndex(context.Background(), []string{path}, nil)
	require.Equal(t, 1, index.Len())

	doc := index.Get(index.IDs()[0])
	require.NotNil(t, doc)
	assert.True(t, doc.NameTokens["1234"])
	assert.True(t, doc.NameTokens["beschluss"])
	assert.True(t, doc.NameTokens["vg"])
	assert.Empty(t, doc.ContentTokens)
	assert.Equal(t, "", doc.NormContent)
}

func TestBuildIndexWithContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "urteil.pdf")

	extractor := TextExtractorFunc(func(ctx context.Context, p string) (string, error) {
		return "VG Berlin Beschluss vom 12.03.2024 — 5 K 1234/23", nil
	})
	index := BuildIndex(context.Background(), []string{path}, extractor)

	doc := index.Get(index.IDs()[0])
	assert.True(t, doc.ContentTokens["beschluss"])
	assert.True(t, doc.ContentTokens["1234"])
	assert.Contains(t, doc.NormContent, "12 03 2024")
}

func TestBuildIndexExtractionFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "kaputt.pdf")

	extractor := TextExtractorFunc(func(ctx context.Context, p string) (string, error) {
		return "", errors.New("pdftotext exited 1")
	})
	index := BuildIndex(context.Background(), []string{path}, extractor)

	doc := index.Get(index.IDs()[0])
	require.NotNil(t, doc)
	assert.Empty(t, doc.ContentTokens)
	assert.Equal(t, "", doc.NormContent)
	assert.NotEmpty(t, doc.NameTokens)
}

func TestNormStem(t *testing.T) {
	doc := &Doc{Stem: "4077_VG_Berlin_Beschluss"}
	assert.Equal(t, "4077 vg berlin beschluss", doc.NormStem())
}
