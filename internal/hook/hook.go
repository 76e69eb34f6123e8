// Package hook orchestrates one post-build invocation: discover the
// report files under the build root, snapshot the current package set,
// locate the previous build's snapshot bundle, compare the two, and
// write the ChangeLog artifacts.
package hook

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raveheart1/relcompare/internal/archive"
	"github.com/raveheart1/relcompare/internal/compare"
	"github.com/raveheart1/relcompare/internal/config"
	"github.com/raveheart1/relcompare/internal/history"
	"github.com/raveheart1/relcompare/internal/inventory"
	"github.com/raveheart1/relcompare/internal/output"
	"github.com/raveheart1/relcompare/internal/report"
	"github.com/raveheart1/relcompare/internal/rpm"
)

// Build root subdirectories, as laid out by the build service.
const (
	sourcesDir = "SOURCES"
	otherDir   = "OTHER"
	kiwiDir    = "KIWI"
	dockerDir  = "DOCKER"
	reposDir   = "repos"
)

// Hook runs the release comparison for every image report found under
// one build root.
type Hook struct {
	Root    string
	Config  *config.Configuration
	Querier rpm.Querier
	Log     *output.Logger
	// Out receives status lines; artifacts go to files under OTHER.
	Out io.Writer
}

// New returns a hook with the default rpm-backed querier.
func New(root string, cfg *config.Configuration, log *output.Logger) *Hook {
	return &Hook{
		Root:    root,
		Config:  cfg,
		Querier: rpm.ExecQuerier{},
		Log:     log,
		Out:     os.Stdout,
	}
}

// Run processes every report file under the build root. A report that
// cannot be parsed into a consistent inventory aborts the run; no
// partial artifacts are emitted for it.
func (h *Hook) Run(ctx context.Context) error {
	reports, err := h.findReports()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(h.Root, otherDir), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, reportFile := range reports {
		// Source and debug media carry no installable package set.
		if strings.Contains(reportFile, "-Media2") || strings.Contains(reportFile, "-Media3") {
			continue
		}
		output.PrintSectionHeader(h.Out, stem(reportFile))
		if err := h.processReport(ctx, reportFile); err != nil {
			return err
		}
	}
	return nil
}

// findReports globs the report file locations used by the different
// image build flavors.
func (h *Hook) findReports() ([]string, error) {
	var reports []string
	for _, pattern := range []string{
		filepath.Join(h.Root, otherDir, "*.report"),
		filepath.Join(h.Root, kiwiDir, "*.packages"),
		filepath.Join(h.Root, dockerDir, "*.packages"),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", pattern, err)
		}
		reports = append(reports, matches...)
	}
	return reports, nil
}

// processReport runs the comparison for one image report and writes its
// snapshot bundle and ChangeLog artifacts.
func (h *Hook) processReport(ctx context.Context, reportFile string) error {
	h.Log.Infof("parsing %s", reportFile)
	imageName := stem(reportFile)

	pkgs, err := inventory.ParseFile(reportFile, h.Log)
	if err != nil {
		return err
	}
	current, err := inventory.New(pkgs)
	if err != nil {
		return err
	}

	repoRoot := filepath.Join(h.Root, sourcesDir, reposDir)
	h.Log.Infof("collecting package changelogs")
	currentLogs := rpm.CollectChangelogs(ctx, current, h.Querier, repoRoot, h.Log)

	historyFile := archive.MatchChangesFile(imageName, filepath.Join(h.Root, sourcesDir), h.Log)
	if historyFile == "" {
		h.Log.Warnf("image %q does not have a changes file", imageName)
	}

	tmpDir, err := os.MkdirTemp("", "relcompare-")
	if err != nil {
		return fmt.Errorf("creating work dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	h.Log.Infof("writing package version info and change logs")
	if err := archive.WriteBundle(tmpDir, current.All(), currentLogs, historyFile); err != nil {
		return err
	}

	bundleFile := filepath.Join(h.Root, otherDir, imageName+".obsgendiff")
	h.Log.Infof("creating bundle %s", bundleFile)
	if err := archive.Pack(ctx, tmpDir, bundleFile); err != nil {
		return err
	}

	previous, previousLogs, previousHistory := h.loadPrevious(ctx, imageName, tmpDir)
	if previous == nil {
		h.Log.Warnf("no information about released packages available, treating as net new release")
	} else {
		h.Log.Infof("collecting change information")
	}

	rep := compare.Compare(current, previous, currentLogs, previousLogs, compare.Options{
		Anonymize:   h.Config.AnonymizeChanges,
		PackageList: h.Config.PackageList,
		Log:         h.Log,
	})

	h.mergeHistory(rep, historyFile, previousHistory)

	return h.writeArtifacts(rep, imageName)
}

// loadPrevious locates, unpacks, and reads the previous snapshot
// bundle. All failures degrade to a net-new comparison.
func (h *Hook) loadPrevious(ctx context.Context, imageName, tmpDir string) (*inventory.Inventory, map[string]string, history.Document) {
	bundle := archive.FindPrevious(filepath.Join(h.Root, sourcesDir), imageName, h.Log)
	if bundle == "" {
		return nil, nil, nil
	}

	extractDir := filepath.Join(tmpDir, "obsgendiff.released")
	h.Log.Infof("extracting %s", filepath.Base(bundle))
	if err := archive.Unpack(ctx, bundle, extractDir); err != nil {
		h.Log.Warnf("could not unpack previous bundle: %v", err)
		return nil, nil, nil
	}

	snap, err := archive.ReadBundle(extractDir, h.Log)
	if err != nil {
		h.Log.Warnf("could not read previous bundle: %v", err)
		return nil, nil, nil
	}
	inv, err := inventory.New(snap.Packages)
	if err != nil {
		h.Log.Warnf("previous bundle is inconsistent: %v", err)
		return nil, nil, nil
	}
	return inv, snap.Changelogs, snap.History
}

// mergeHistory attaches config-changes when both builds supplied a
// parseable version history. A malformed current document is recovered
// by leaving config-changes absent; the package comparison stands.
func (h *Hook) mergeHistory(rep *report.Report, historyFile string, previousHistory history.Document) {
	if historyFile == "" || previousHistory == nil {
		h.Log.Warnf("no information about released image history, not generating config changelog")
		return
	}

	h.Log.Debugf("using image version history from %s", historyFile)
	current, err := history.Load(historyFile)
	if err != nil {
		h.Log.Warnf("error loading %s (%v)", historyFile, err)
		return
	}
	rep.ConfigChanges = history.Merge(current, previousHistory)
}

// writeArtifacts renders the report in every enabled output format.
func (h *Hook) writeArtifacts(rep *report.Report, imageName string) error {
	name := "ChangeLog." + imageName

	type artifact struct {
		ext     string
		enabled bool
		write   func(*report.Report, io.Writer) error
	}
	for _, a := range []artifact{
		{".txt", h.Config.OutputText, report.WriteText},
		{".yaml", h.Config.OutputYAML, report.WriteYAML},
		{".json", h.Config.OutputJSON, report.WriteJSON},
	} {
		if !a.enabled {
			continue
		}
		path := filepath.Join(h.Root, otherDir, name+a.ext)
		h.Log.Infof("writing %s", filepath.Base(path))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := a.write(rep, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		output.PrintArtifactWritten(h.Out, path)
	}
	return nil
}

// stem returns the file name without directory and extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
