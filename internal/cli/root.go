// Package cli implements the relcompare command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raveheart1/relcompare/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:   "relcompare",
	Short: "Generate change log data from an image build",
	Long: `relcompare compares an image build against the previously released
build and generates changelog artifacts: added and removed packages,
per-source changelog deltas, referenced security advisories, and
image-configuration history changes.

It is meant to run as a post-build hook inside the build environment;
'relcompare run' processes every package report found under the build
root.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints structured errors.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		if term.IsTerminal(int(os.Stderr.Fd())) {
			fmt.Fprint(os.Stderr, errors.FormatError(cliErr))
		} else {
			fmt.Fprint(os.Stderr, errors.FormatErrorPlain(cliErr))
		}
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
