package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SearchableCache maintains an on-disk cache of OCR'd "searchable" PDFs
// produced by ocrmypdf. The cache is a derived artifact: entries are rebuilt
// when the source file is newer or Force is set.
type SearchableCache struct {
	Dir   string
	Lang  string
	Force bool
}

// Build returns the path of a searchable variant of src, creating or
// refreshing it as needed.
func (c *SearchableCache) Build(ctx context.Context, src string) (string, error) {
	if _, err := exec.LookPath("ocrmypdf"); err != nil {
		return "", fmt.Errorf("searchable PDFs require ocrmypdf, which is not installed: %w", err)
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", err
	}

	base := filepath.Base(src)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(c.Dir, stem+".searchable.pdf")

	if !c.Force {
		outInfo, outErr := os.Stat(out)
		srcInfo, srcErr := os.Stat(src)
		if outErr == nil && srcErr == nil && !outInfo.ModTime().Before(srcInfo.ModTime()) {
			return out, nil
		}
	}

	lang := c.Lang
	if lang == "" {
		lang = "deu+eng"
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ocrmypdf",
		"--skip-text",
		"--optimize", "0",
		"-l", lang,
		src,
		out,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ocrmypdf failed for %s: %s: %w",
			base, strings.TrimSpace(stderr.String()), err)
	}
	return out, nil
}
