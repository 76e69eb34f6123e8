// Package archive handles the snapshot bundle (.obsgendiff): a tar
// archive of the current build's package versions, per-source
// changelogs, and optional image version history. The bundle written by
// one build is the comparison baseline of the next.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/raveheart1/relcompare/internal/history"
	"github.com/raveheart1/relcompare/internal/inventory"
	"github.com/raveheart1/relcompare/internal/output"
)

// Bundle directory layout.
const (
	rpmsDir       = "rpms"
	changelogsDir = "changelogs"
	historyStem   = "image_changes"
)

// Snapshot is the content of an unpacked bundle.
type Snapshot struct {
	Packages   []inventory.Package
	Changelogs map[string]string
	History    history.Document
}

// WriteBundle lays out a bundle directory: one version file per binary
// package, one changelog file per source package, and a copy of the
// version-history file when the image ships one.
func WriteBundle(dir string, pkgs []inventory.Package, changelogs map[string]string, historyFile string) error {
	for _, sub := range []string{rpmsDir, changelogsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("creating bundle layout: %w", err)
		}
	}

	for _, pkg := range pkgs {
		path := filepath.Join(dir, rpmsDir, pkg.Name)
		if err := os.WriteFile(path, []byte(pkg.FullVersion()), 0o644); err != nil {
			return fmt.Errorf("writing package version info: %w", err)
		}
	}

	for src, text := range changelogs {
		path := filepath.Join(dir, changelogsDir, src)
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return fmt.Errorf("writing changelog for %s: %w", src, err)
		}
	}

	if historyFile != "" {
		dst := filepath.Join(dir, historyStem+filepath.Ext(historyFile))
		if err := copyFile(historyFile, dst); err != nil {
			return fmt.Errorf("copying version history: %w", err)
		}
	}
	return nil
}

// ReadBundle rebuilds a snapshot from an unpacked bundle directory. A
// missing or malformed version history is not fatal; the snapshot then
// simply carries none.
func ReadBundle(dir string, log *output.Logger) (*Snapshot, error) {
	snap := &Snapshot{Changelogs: make(map[string]string)}

	rpmEntries, err := os.ReadDir(filepath.Join(dir, rpmsDir))
	if err != nil {
		return nil, fmt.Errorf("reading bundle package list: %w", err)
	}
	for _, e := range rpmEntries {
		data, err := os.ReadFile(filepath.Join(dir, rpmsDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading package version info: %w", err)
		}
		version, release := splitFullVersion(strings.TrimSpace(string(data)))
		snap.Packages = append(snap.Packages, inventory.Package{
			Name:    e.Name(),
			Version: version,
			Release: release,
		})
	}

	logEntries, err := os.ReadDir(filepath.Join(dir, changelogsDir))
	if err != nil {
		return nil, fmt.Errorf("reading bundle changelogs: %w", err)
	}
	for _, e := range logEntries {
		data, err := os.ReadFile(filepath.Join(dir, changelogsDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading changelog %s: %w", e.Name(), err)
		}
		snap.Changelogs[e.Name()] = string(data)
	}

	snap.History = loadBundleHistory(dir, log)
	return snap, nil
}

// loadBundleHistory reads the bundled version history, if any.
func loadBundleHistory(dir string, log *output.Logger) history.Document {
	for _, ext := range []string{".json", ".yaml"} {
		path := filepath.Join(dir, historyStem+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		doc, err := history.Load(path)
		if err != nil {
			log.Warnf("error loading %s (%v)", path, err)
			return nil
		}
		return doc
	}
	log.Warnf("no image version history in previous bundle")
	return nil
}

// Pack creates the xz-compressed bundle archive from dir. The system
// tar is used so the artifact format matches what the build service and
// older hook versions produce and consume.
func Pack(ctx context.Context, dir, outFile string) error {
	cmd := exec.CommandContext(ctx, "tar", "cfJ", outFile, "-C", dir, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("packing %s: %w: %s", outFile, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Unpack extracts a bundle archive into destDir.
func Unpack(ctx context.Context, archiveFile, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("creating extraction dir: %w", err)
	}
	cmd := exec.CommandContext(ctx, "tar", "xf", archiveFile, "-C", destDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("unpacking %s: %w: %s", archiveFile, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// splitFullVersion splits a version-release string at the last dash.
// Versions never contain dashes in rpm, releases may not either.
func splitFullVersion(full string) (version, release string) {
	if i := strings.LastIndex(full, "-"); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
