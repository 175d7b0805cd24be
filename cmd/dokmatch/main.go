package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/coolbeans/dokmatch/pkg/candidate"
	"github.com/coolbeans/dokmatch/pkg/config"
	"github.com/coolbeans/dokmatch/pkg/deps"
	"github.com/coolbeans/dokmatch/pkg/match"
	"github.com/coolbeans/dokmatch/pkg/pdftext"
	"github.com/coolbeans/dokmatch/pkg/reference"
	"github.com/coolbeans/dokmatch/pkg/rename"
)

var version = "0.1.0"

// Exit codes: 0 clean run, 1 nothing to do, 2 precondition failure,
// 3 unresolved references or rename conflicts.
const (
	exitOK           = 0
	exitNothingToDo  = 1
	exitPrecondition = 2
	exitUnresolved   = 3
)

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func main() {
	rootCmd := &cobra.Command{
		Use:   "dokmatch",
		Short: "Dokumentenzuordnung für Berichts-PDFs",
		Long: `dokmatch liest "(Dokument Nr. NNNN)"-Verweise aus einem Berichts-PDF,
ordnet jedem Verweis die passende Datei im Dokumentenordner zu und benennt
die Treffer nach einem einheitlichen Schema um.

Ohne --apply werden alle Umbenennungen nur angezeigt.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(renameCmd())
	rootCmd.AddCommand(depsCmd())

	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			if exit.msg != "" {
				fmt.Fprintln(os.Stderr, exit.msg)
			}
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitPrecondition)
	}
}

func renameCmd() *cobra.Command {
	var (
		sourcePDF       string
		folder          string
		separator       string
		apply           bool
		analyzeContent  bool
		useOCR          bool
		ocrPages        int
		ocrDPI          int
		ocrLang         string
		makeSearchable  bool
		searchableDir   string
		searchableForce bool
		configPath      string
		verbose         bool
	)

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Verweise extrahieren, Dateien zuordnen und umbenennen",
		Long: `Extrahiert alle "(Dokument Nr. NNNN)"-Verweise aus dem Quell-PDF,
sucht im Dokumentenordner nach der jeweils passenden Datei und benennt
eindeutige Treffer um.

Beispiele:
  dokmatch rename --source-pdf bericht.pdf
  dokmatch rename --source-pdf bericht.pdf --folder ./dokumente --apply
  dokmatch rename --source-pdf bericht.pdf --analyze-content --ocr`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(verbose)

			cfg, err := config.Load(configPath)
			if err != nil {
				return &exitError{code: exitPrecondition, msg: err.Error()}
			}
			flags := cmd.Flags()
			if flags.Changed("separator") {
				cfg.Separator = separator
			}
			if flags.Changed("ocr") {
				cfg.Content.UseOCR = useOCR
			}
			if flags.Changed("ocr-pages") {
				cfg.Content.OCRPages = ocrPages
			}
			if flags.Changed("ocr-dpi") {
				cfg.Content.OCRDPI = ocrDPI
			}
			if flags.Changed("ocr-lang") {
				cfg.Content.OCRLang = ocrLang
			}
			if flags.Changed("make-searchable") {
				cfg.Content.MakeSearchable = makeSearchable
			}
			if flags.Changed("searchable-dir") {
				cfg.Content.SearchableDir = searchableDir
			}
			if flags.Changed("searchable-force") {
				cfg.Content.SearchableForce = searchableForce
			}

			return runRename(cmd, cfg, sourcePDF, folder, apply, analyzeContent)
		},
	}

	cmd.Flags().StringVar(&sourcePDF, "source-pdf", "", "Quell-PDF mit den Dokumentverweisen")
	cmd.Flags().StringVar(&folder, "folder", "", "Dokumentenordner (Standard: Ordner des Quell-PDFs)")
	cmd.Flags().StringVar(&separator, "separator", "_", "Trennzeichen im Zieldateinamen")
	cmd.Flags().BoolVar(&apply, "apply", false, "Umbenennungen wirklich ausführen")
	cmd.Flags().BoolVar(&analyzeContent, "analyze-content", false, "Kandidaten-PDFs inhaltlich analysieren")
	cmd.Flags().BoolVar(&useOCR, "ocr", false, "OCR-Fallback für Kandidaten ohne Textebene")
	cmd.Flags().IntVar(&ocrPages, "ocr-pages", 1, "Anzahl der OCR-Seiten pro Kandidat")
	cmd.Flags().IntVar(&ocrDPI, "ocr-dpi", 220, "Auflösung für die OCR-Rasterung")
	cmd.Flags().StringVar(&ocrLang, "ocr-lang", "deu+eng", "Tesseract-Sprachmodelle")
	cmd.Flags().BoolVar(&makeSearchable, "make-searchable", false, "Durchsuchbare PDF-Kopien über ocrmypdf anlegen")
	cmd.Flags().StringVar(&searchableDir, "searchable-dir", ".searchable_pdfs", "Cache-Ordner für durchsuchbare PDFs")
	cmd.Flags().BoolVar(&searchableForce, "searchable-force", false, "Durchsuchbare PDFs neu erzeugen")
	cmd.Flags().StringVar(&configPath, "config", "", "Pfad zur TOML-Konfiguration")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Diagnoseausgaben aktivieren")
	_ = cmd.MarkFlagRequired("source-pdf")

	return cmd
}

func runRename(cmd *cobra.Command, cfg config.Config, sourcePDF, folder string, apply, analyzeContent bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	poppler := &pdftext.PopplerExtractor{}
	if !poppler.Available() {
		return &exitError{
			code: exitPrecondition,
			msg:  "pdftotext nicht gefunden. Installation prüfen mit: dokmatch deps",
		}
	}

	if _, err := os.Stat(sourcePDF); err != nil {
		return &exitError{code: exitPrecondition, msg: fmt.Sprintf("Quell-PDF nicht lesbar: %v", err)}
	}
	if folder == "" {
		folder = filepath.Dir(sourcePDF)
	}
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		return &exitError{code: exitPrecondition, msg: fmt.Sprintf("Dokumentenordner nicht lesbar: %s", folder)}
	}

	sourceText, err := poppler.Extract(ctx, sourcePDF)
	if err != nil {
		return &exitError{code: exitPrecondition, msg: fmt.Sprintf("Textextraktion aus Quell-PDF fehlgeschlagen: %v", err)}
	}

	refs := reference.ExtractRefs(sourceText)
	if len(refs) == 0 {
		fmt.Fprintln(out, "Keine Dokumentverweise im Quell-PDF gefunden.")
		return &exitError{code: exitNothingToDo}
	}
	slog.Debug("references extracted", "count", len(refs))

	files, err := candidate.List(folder, sourcePDF)
	if err != nil {
		return &exitError{code: exitPrecondition, msg: fmt.Sprintf("Dokumentenordner nicht lesbar: %v", err)}
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "Keine Kandidaten-PDFs im Dokumentenordner gefunden.")
		return &exitError{code: exitNothingToDo}
	}
	slog.Debug("candidates listed", "count", len(files))

	var extractor candidate.TextExtractor
	if analyzeContent {
		extractor = pdftext.NewContentExtractor(cfg.Content)
	}
	index := candidate.BuildIndex(ctx, files, extractor)

	matcher := match.NewMatcher(cfg.Match)
	results := make([]match.Result, 0, len(refs))
	for _, ref := range refs {
		result := matcher.Match(ref, index)
		slog.Debug("reference matched",
			"doc", ref.DocID(), "hits", len(result.Matches), "reason", result.Reason)
		results = append(results, result)
	}

	runner := &rename.Runner{Separator: cfg.Separator, Apply: apply, Out: out}
	errorCount := runner.Run(results)

	rename.ListUnmatched(out, files, results)

	fmt.Fprintln(out, "---")
	fmt.Fprintf(out, "%d Verweise, %d Kandidaten, %d Probleme\n", len(refs), len(files), errorCount)
	if !apply {
		fmt.Fprintln(out, "Hinweis: Testlauf ohne --apply, es wurde nichts umbenannt.")
	}

	if errorCount > 0 {
		return &exitError{code: exitUnresolved}
	}
	return nil
}

func depsCmd() *cobra.Command {
	var (
		install         bool
		includeOptional bool
	)

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Externe Werkzeuge prüfen und optional installieren",
		Long: `Prüft, ob die externen PDF-Werkzeuge (pdftotext, pdftoppm, tesseract,
ocrmypdf) installiert sind. Mit --install wird die Installation über den
Paketmanager des Systems versucht.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			code := deps.RunRoute(cmd.Context(), cmd.OutOrStdout(), install, includeOptional)
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Installation über den Paketmanager versuchen")
	cmd.Flags().BoolVar(&includeOptional, "optional", false, "Auch optionale Werkzeuge installieren")

	return cmd
}

func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
