// Package rename executes the rename plan produced by the matcher. Every
// reference yields exactly one status line; nothing is renamed unless Apply
// is set, and a file is never renamed onto an existing target.
package rename

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/coolbeans/dokmatch/pkg/match"
	"github.com/coolbeans/dokmatch/pkg/naming"
)

// Runner applies (or previews) renames for matched references.
type Runner struct {
	Separator string
	Apply     bool
	Out       io.Writer
}

// Run processes the match results in order and returns the number of
// references that could not be resolved to a clean rename. A file matched by
// two different references is renamed only for the first one; later
// assignments are reported as duplicates.
func (r *Runner) Run(results []match.Result) int {
	errorCount := 0
	assigned := map[string]string{}

	for _, result := range results {
		docID := result.Ref.DocID()

		if len(result.Matches) == 0 {
			fmt.Fprintf(r.Out, "[FEHLT] Dokument Nr. %s: keine passende Datei gefunden | '%s'\n",
				docID, result.Ref.Citation)
			errorCount++
			continue
		}

		if len(result.Matches) > 1 {
			fmt.Fprintf(r.Out, "[DOPPELT] Dokument Nr. %s: mehrere Treffer\n", docID)
			for _, id := range result.Matches {
				fmt.Fprintf(r.Out, "         - %s\n", filepath.Base(id))
			}
			errorCount++
			continue
		}

		src := result.Matches[0]
		srcName := filepath.Base(src)
		if prevDocID, ok := assigned[src]; ok {
			if prevDocID != docID {
				fmt.Fprintf(r.Out, "[DOPPELT] Datei bereits Dokument Nr. %s zugeordnet: %s (neu: %s)\n",
					prevDocID, srcName, docID)
				errorCount++
				continue
			}
			fmt.Fprintf(r.Out, "[OK] Bereits derselben Dokumentnummer zugeordnet: %s\n", srcName)
			continue
		}
		assigned[src] = docID

		targetName := naming.TargetFilename(result.Ref, srcName, r.Separator)

		if srcName == targetName {
			fmt.Fprintf(r.Out, "[OK] Bereits umbenannt: %s\n", srcName)
			continue
		}

		dst := filepath.Join(filepath.Dir(src), targetName)
		if _, err := os.Stat(dst); err == nil {
			fmt.Fprintf(r.Out, "[KONFLIKT] Ziel existiert bereits für Dokument Nr. %s: %s\n",
				docID, targetName)
			errorCount++
			continue
		}

		if !r.Apply {
			fmt.Fprintf(r.Out, "[DRY-RUN] %s -> %s\n", srcName, targetName)
			continue
		}

		if err := os.Rename(src, dst); err != nil {
			if errors.Is(err, fs.ErrPermission) {
				fmt.Fprintf(r.Out, "[GESPERRT] Dokument Nr. %s: %s konnte nicht umbenannt werden (Datei vermutlich in Windows geoeffnet/gesperrt) | %v\n",
					docID, srcName, err)
			} else {
				fmt.Fprintf(r.Out, "[FEHLER] Dokument Nr. %s: %s konnte nicht umbenannt werden | %v\n",
					docID, srcName, err)
			}
			errorCount++
			continue
		}
		fmt.Fprintf(r.Out, "[UMBENANNT] %s -> %s\n", srcName, targetName)
	}

	return errorCount
}

// ListUnmatched prints candidates no reference claimed, so leftover files
// are visible after a run.
func ListUnmatched(out io.Writer, files []string, results []match.Result) {
	matched := map[string]bool{}
	for _, result := range results {
		for _, id := range result.Matches {
			matched[id] = true
		}
	}

	var unmatched []string
	for _, file := range files {
		if !matched[file] {
			unmatched = append(unmatched, file)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	fmt.Fprintf(out, "Nicht zugeordnete Dateien (%d):\n", len(unmatched))
	for _, file := range unmatched {
		fmt.Fprintf(out, "- %s\n", filepath.Base(file))
	}
}
