package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/raveheart1/relcompare/internal/config"
	"github.com/raveheart1/relcompare/internal/errors"
	"github.com/raveheart1/relcompare/internal/hook"
	"github.com/raveheart1/relcompare/internal/output"
)

// settleDelay lets the build service finish writing a report file
// before the comparison picks it up.
const settleDelay = 2 * time.Second

var (
	watchRootFlag  string
	watchDebugFlag bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a build root and compare whenever a report appears",
	Long: `Watch the report directories under the build root and run the
comparison whenever a new package report is written. Useful on a
development build host where images are rebuilt repeatedly.

Stops on interrupt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchRootFlag, "root", defaultBuildRoot, "Root directory of packages build info")
	watchCmd.Flags().BoolVar(&watchDebugFlag, "debug", false, "Enable debug output")
}

func runWatch(cmd *cobra.Command) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapWithMessage(err, errors.Runtime, "creating file watcher")
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range []string{"OTHER", "KIWI", "DOCKER"} {
		path := filepath.Join(watchRootFlag, dir)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := watcher.Add(path); err != nil {
			return errors.WrapWithMessage(err, errors.Runtime, "watching "+path)
		}
		watched++
	}
	if watched == 0 {
		return errors.NewPrerequisiteError(
			fmt.Sprintf("no report directories under %s", watchRootFlag),
			"Check that --root points at a build root (containing OTHER, KIWI, or DOCKER)")
	}

	log := output.NewLogger(watchDebugFlag)
	log.Infof("watching %s for new package reports", watchRootFlag)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isReportFile(event.Name) {
				continue
			}
			log.Infof("detected %s", event.Name)
			time.Sleep(settleDelay)
			if err := watchRun(cmd.Context(), cmd, log); err != nil {
				log.Warnf("comparison failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch error: %v", err)
		}
	}
}

// watchRun executes one comparison pass, reloading the configuration so
// control file edits between builds take effect.
func watchRun(ctx context.Context, cmd *cobra.Command, log *output.Logger) error {
	cfg, err := config.Load(filepath.Join(watchRootFlag, "SOURCES"))
	if err != nil {
		return err
	}
	h := hook.New(watchRootFlag, cfg, log)
	h.Out = cmd.OutOrStdout()
	return h.Run(ctx)
}

func isReportFile(path string) bool {
	return strings.HasSuffix(path, ".report") || strings.HasSuffix(path, ".packages")
}
