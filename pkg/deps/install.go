package deps

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// DetectPackageManager returns the first supported package manager found on
// PATH, or "".
func DetectPackageManager() string {
	for _, manager := range []string{"apt-get", "dnf", "pacman", "zypper", "brew"} {
		if _, err := exec.LookPath(manager); err == nil {
			return manager
		}
	}
	return ""
}

// DetectAURHelper returns the first known AUR helper found on PATH, or "".
func DetectAURHelper() string {
	for _, helper := range []string{"yay", "paru"} {
		if _, err := exec.LookPath(helper); err == nil {
			return helper
		}
	}
	return ""
}

// InstallSteps builds the command sequence that installs the external tools
// through the given package manager. Commands needing root are prefixed with
// sudo when the process is unprivileged and sudo is available.
func InstallSteps(out io.Writer, manager string, includeOptional bool) [][]string {
	var prefix []string
	needsElevation := manager == "apt-get" || manager == "dnf" || manager == "pacman" || manager == "zypper"
	if needsElevation && os.Geteuid() != 0 {
		if _, err := exec.LookPath("sudo"); err != nil {
			fmt.Fprintln(out, "Hinweis: 'sudo' nicht gefunden. Installation könnte wegen fehlender Rechte fehlschlagen.")
		} else {
			prefix = []string{"sudo"}
		}
	}

	withPrefix := func(args ...string) []string {
		return append(append([]string{}, prefix...), args...)
	}

	switch manager {
	case "apt-get":
		packages := []string{"poppler-utils"}
		if includeOptional {
			packages = append(packages, "tesseract-ocr", "ocrmypdf")
		}
		return [][]string{
			withPrefix("apt-get", "update"),
			withPrefix(append([]string{"apt-get", "install", "-y"}, packages...)...),
		}
	case "dnf":
		packages := []string{"poppler-utils"}
		if includeOptional {
			packages = append(packages, "tesseract", "ocrmypdf")
		}
		return [][]string{withPrefix(append([]string{"dnf", "install", "-y"}, packages...)...)}
	case "pacman":
		packages := []string{"poppler"}
		if includeOptional {
			packages = append(packages, "tesseract")
		}
		steps := [][]string{withPrefix(append([]string{"pacman", "-S", "--needed"}, packages...)...)}
		if includeOptional {
			if helper := DetectAURHelper(); helper != "" {
				steps = append(steps, []string{helper, "-S", "--needed", "ocrmypdf"})
			} else {
				fmt.Fprintln(out, "Hinweis: Für Arch Linux liegt 'ocrmypdf' typischerweise im AUR. Bitte installiere einen AUR-Helper wie 'yay' oder 'paru'.")
			}
		}
		return steps
	case "zypper":
		packages := []string{"poppler-tools"}
		if includeOptional {
			packages = append(packages, "tesseract-ocr", "ocrmypdf")
		}
		return [][]string{withPrefix(append([]string{"zypper", "install", "-y"}, packages...)...)}
	case "brew":
		packages := []string{"poppler"}
		if includeOptional {
			packages = append(packages, "tesseract", "ocrmypdf")
		}
		return [][]string{append([]string{"brew", "install"}, packages...)}
	}
	return nil
}

// RunRoute is the deps subcommand body: print the status table and, when
// install is set, drive the package manager. The returned value is the
// process exit code.
func RunRoute(ctx context.Context, out io.Writer, install, includeOptional bool) int {
	statuses := Collect()
	Print(out, statuses)
	fmt.Fprintln(out, "---")
	requiredOK := RequiredOK(statuses)
	if requiredOK {
		fmt.Fprintln(out, "Pflichtabhängigkeiten: OK")
	} else {
		fmt.Fprintln(out, "Pflichtabhängigkeiten: FEHLEN")
	}

	if !install {
		if requiredOK {
			return 0
		}
		return 2
	}

	manager := DetectPackageManager()
	if manager == "" {
		fmt.Fprintln(out, "Kein unterstützter Paketmanager gefunden (apt-get/dnf/pacman/zypper/brew).")
		fmt.Fprintln(out, "Bitte installiere manuell: poppler-utils bzw. poppler.")
		if includeOptional {
			fmt.Fprintln(out, "Optional zusätzlich: tesseract, ocrmypdf")
		}
		return 2
	}

	steps := InstallSteps(out, manager, includeOptional)
	if len(steps) == 0 {
		fmt.Fprintf(out, "Keine Installationsschritte für Paketmanager '%s' verfügbar.\n", manager)
		return 2
	}

	fmt.Fprintf(out, "Installationsversuch via %s:\n", manager)
	for _, step := range steps {
		fmt.Fprintf(out, "$ %s\n", strings.Join(step, " "))
		cmd := exec.CommandContext(ctx, step[0], step[1:]...)
		cmd.Stdout = out
		cmd.Stderr = out
		if err := cmd.Run(); err != nil {
			code := 1
			if exitErr, ok := err.(*exec.ExitError); ok {
				code = exitErr.ExitCode()
			}
			fmt.Fprintf(out, "Fehler bei Installationsschritt (Exit %d).\n", code)
			return code
		}
	}

	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, "Erneute Prüfung nach Installation:")
	post := Collect()
	Print(out, post)
	if RequiredOK(post) {
		return 0
	}
	return 2
}
