package cli

import (
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/raveheart1/relcompare/internal/config"
	"github.com/raveheart1/relcompare/internal/errors"
	"github.com/raveheart1/relcompare/internal/hook"
	"github.com/raveheart1/relcompare/internal/output"
)

const defaultBuildRoot = "/.build.packages"

var (
	runRootFlag  string
	runDebugFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compare the current build against the previous release",
	Long: `Run the post-build comparison for every package report found under
the build root. For each image this writes a snapshot bundle
(<image>.obsgendiff) and the ChangeLog artifacts in the configured
formats.

Configuration is read from the _release_compare control file or
release_compare.yml in the SOURCES directory; RELCOMPARE_* environment
variables override both.

Examples:
  relcompare run                       # Default build service root
  relcompare run --root /tmp/build    # Explicit build root
  relcompare run --debug              # Verbose progress output`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHook(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runRootFlag, "root", defaultBuildRoot, "Root directory of packages build info")
	runCmd.Flags().BoolVar(&runDebugFlag, "debug", false, "Enable debug output")
}

func runHook(cmd *cobra.Command) error {
	cfg, err := config.Load(filepath.Join(runRootFlag, "SOURCES"))
	if err != nil {
		return errors.WrapWithMessage(err, errors.Configuration, "resolving configuration",
			"Check the _release_compare control file in SOURCES",
			"Valid package_list values: always, new, never")
	}

	log := output.NewLogger(cfg.Debug || runDebugFlag)
	h := hook.New(runRootFlag, cfg, log)
	h.Out = cmd.OutOrStdout()

	var spin *spinner.Spinner
	if output.IsTerminal() && !log.Debug {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Suffix = " comparing releases..."
		spin.Start()
		defer spin.Stop()
	}

	if err := h.Run(cmd.Context()); err != nil {
		if spin != nil {
			spin.Stop()
		}
		return errors.WrapWithMessage(err, errors.Runtime, "release comparison failed",
			"The build continues without a changelog artifact",
			"Re-run with --debug for per-package details")
	}
	return nil
}
