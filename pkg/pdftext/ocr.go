package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// OCRExtractor renders the first pages of a PDF to images with pdftoppm and
// runs tesseract over each one. It is the slow path, used only when the
// extracted text layer is implausibly short or lacks a court header.
type OCRExtractor struct {
	Pages int
	DPI   int
	Lang  string
}

// Available reports whether both OCR binaries are on PATH.
func (e *OCRExtractor) Available() bool {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return false
	}
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	return true
}

// Extract OCRs the configured number of pages and returns the joined text.
func (e *OCRExtractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		return "", fmt.Errorf("ocr requested but tesseract is not installed: %w", err)
	}
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return "", fmt.Errorf("ocr requested but pdftoppm is not installed: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "doc_ocr_")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	pages := e.Pages
	if pages < 1 {
		pages = 1
	}
	dpi := e.DPI
	if dpi <= 0 {
		dpi = 220
	}

	prefix := filepath.Join(tmpDir, "page")
	var stderr bytes.Buffer
	render := exec.CommandContext(ctx, "pdftoppm",
		"-r", strconv.Itoa(dpi),
		"-f", "1",
		"-l", strconv.Itoa(pages),
		"-png",
		path,
		prefix,
	)
	render.Stderr = &stderr
	if err := render.Run(); err != nil {
		return "", fmt.Errorf("pdftoppm failed for %s: %s: %w",
			path, strings.TrimSpace(stderr.String()), err)
	}

	images, err := filepath.Glob(filepath.Join(tmpDir, "page-*.png"))
	if err != nil || len(images) == 0 {
		return "", nil
	}
	sort.Strings(images)

	lang := e.Lang
	if lang == "" {
		lang = "deu+eng"
	}
	var chunks []string
	for _, image := range images {
		var stdout bytes.Buffer
		ocr := exec.CommandContext(ctx, "tesseract", image, "stdout", "-l", lang, "--psm", "6")
		ocr.Stdout = &stdout
		if err := ocr.Run(); err != nil {
			continue
		}
		chunks = append(chunks, stdout.String())
	}
	return strings.Join(chunks, "\n"), nil
}
