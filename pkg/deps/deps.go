// Package deps checks for the external PDF tools the pipeline shells out to
// and can drive their installation through the host's package manager.
// pdftotext is the only hard requirement; the OCR tools merely unlock the
// --ocr and --make-searchable paths.
package deps

import (
	"fmt"
	"io"
	"os/exec"
)

// Status describes one external tool.
type Status struct {
	Tool     string
	Required bool
	Path     string
	Note     string
}

// Collect probes PATH for every known tool.
func Collect() []Status {
	return []Status{
		probe("pdftotext", true, "Aus poppler-utils/poppler"),
		probe("pdftoppm", false, "Benötigt für --ocr"),
		probe("tesseract", false, "Benötigt für --ocr"),
		probe("ocrmypdf", false, "Benötigt für --make-searchable"),
	}
}

func probe(tool string, required bool, note string) Status {
	path, err := exec.LookPath(tool)
	if err != nil {
		path = ""
	}
	return Status{Tool: tool, Required: required, Path: path, Note: note}
}

// Print writes the status table.
func Print(out io.Writer, statuses []Status) {
	fmt.Fprintln(out, "Abhängigkeitsprüfung:")
	for _, status := range statuses {
		kind := "OPTIONAL"
		if status.Required {
			kind = "PFLICHT"
		}
		state := "FEHLT"
		path := "-"
		if status.Path != "" {
			state = "OK"
			path = status.Path
		}
		fmt.Fprintf(out, "- [%s] %-11s (%s) | %s | %s\n", state, status.Tool, kind, status.Note, path)
	}
}

// RequiredOK reports whether every required tool was found.
func RequiredOK(statuses []Status) bool {
	for _, status := range statuses {
		if status.Required && status.Path == "" {
			return false
		}
	}
	return true
}

// Missing returns the names of required tools that were not found.
func Missing(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if status.Required && status.Path == "" {
			missing = append(missing, status.Tool)
		}
	}
	return missing
}
