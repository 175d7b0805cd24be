package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeExtractor reads the PDF text layer in-process. It needs no external
// tooling, which makes it the fallback when poppler is unavailable or fails
// on a particular file; row-wise extraction keeps a usable line structure.
type NativeExtractor struct{}

// Extract returns the concatenated text of all pages, one line per text row.
func (e *NativeExtractor) Extract(ctx context.Context, path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	var builder strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, text := range row.Content {
				builder.WriteString(text.S)
			}
			builder.WriteByte('\n')
		}
	}
	return builder.String(), nil
}
