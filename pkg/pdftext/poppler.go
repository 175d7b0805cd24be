package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PopplerBinary is the mandatory primary text-extraction tool.
const PopplerBinary = "pdftotext"

// PopplerExtractor shells out to poppler's pdftotext, which preserves the
// line structure the citation extractor depends on.
type PopplerExtractor struct {
	// Binary overrides the pdftotext executable; empty means PopplerBinary.
	Binary string
}

func (e *PopplerExtractor) binary() string {
	if e.Binary != "" {
		return e.Binary
	}
	return PopplerBinary
}

// Available reports whether the pdftotext binary is on PATH.
func (e *PopplerExtractor) Available() bool {
	_, err := exec.LookPath(e.binary())
	return err == nil
}

// Extract runs pdftotext on the file and returns its stdout.
func (e *PopplerExtractor) Extract(ctx context.Context, path string) (string, error) {
	if _, err := exec.LookPath(e.binary()); err != nil {
		return "", fmt.Errorf("%s not installed or not on PATH: %w", e.binary(), err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary(), path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed for %s: %s: %w",
			e.binary(), path, strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}
