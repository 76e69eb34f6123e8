// Package output provides terminal output and logging utilities for the
// relcompare CLI. This package is designed to have minimal dependencies
// to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsTerminal reports whether stdout is attached to a terminal. Spinners
// and colored status lines are suppressed otherwise.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintArtifactWritten prints a colored confirmation for a written artifact.
func PrintArtifactWritten(out io.Writer, path string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(path))
}

// PrintSectionHeader prints a dim separator line with a centered label,
// used between per-image runs.
func PrintSectionHeader(out io.Writer, label string) {
	termWidth := GetTerminalWidth()
	dim := color.New(color.Faint).SprintFunc()

	padded := " " + label + " "
	lineLen := (termWidth - len(padded)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", dim(line), dim(padded), dim(line))
}
