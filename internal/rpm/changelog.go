// Package rpm reads changelog text out of rpm files in the build
// environment's repository cache. Queries go through the system rpm
// binary; the Querier interface keeps callers testable without one.
package rpm

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/raveheart1/relcompare/internal/inventory"
	"github.com/raveheart1/relcompare/internal/output"
)

// maxConcurrentQueries bounds parallel rpm invocations. Changelog
// extraction is I/O bound; the comparison itself stays sequential.
const maxConcurrentQueries = 4

// Querier reads the changelog of one package from the repository cache
// rooted at repoRoot.
type Querier interface {
	Changelog(ctx context.Context, pkg inventory.Package, repoRoot string) (string, error)
}

// ExecQuerier queries changelogs with `rpm -qp --changelog`.
type ExecQuerier struct{}

// Changelog locates the package's rpm file under repoRoot and returns
// its changelog text.
func (ExecQuerier) Changelog(ctx context.Context, pkg inventory.Package, repoRoot string) (string, error) {
	path := FindRPM(pkg, repoRoot)
	if path == "" {
		return "", fmt.Errorf("no rpm file for package %q under %s", pkg.Name, repoRoot)
	}

	cmd := exec.CommandContext(ctx, "rpm", "-qp", path, "--changelog", "--nodigest", "--nosignature")
	cmd.Env = append(os.Environ(), "LC_ALL=C.UTF-8")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("querying changelog of %s: %w", path, err)
	}
	return string(out), nil
}

// FindRPM resolves the rpm file path for a package. When the report
// provided a project/repository, the file is expected right below it;
// otherwise the whole cache is scanned, since the cache uses release
// project names that cannot be derived from maintenance disturls. The
// long n-v-r.a name is tried before the short appliance-build name.
func FindRPM(pkg inventory.Package, repoRoot string) string {
	names := pkg.RPMFileNames()
	if pkg.Repo != "" && pkg.Repo != "." {
		for _, name := range names {
			p := filepath.Join(repoRoot, pkg.Repo, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
		return ""
	}
	for _, name := range names {
		if p := scanForFile(repoRoot, name); p != "" {
			return p
		}
	}
	return ""
}

// scanForFile walks root for a file with the given base name. There
// should be only one match anyway.
func scanForFile(root, name string) string {
	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// CollectChangelogs reads the changelog for every source group in the
// inventory, keyed by source package name. Sub-packages share their
// source's changelog, so only the group representative is queried.
// Packages whose rpm cannot be found or read are logged and skipped.
func CollectChangelogs(ctx context.Context, inv *inventory.Inventory, q Querier, repoRoot string, log *output.Logger) map[string]string {
	var (
		mu   sync.Mutex
		logs = make(map[string]string, len(inv.SourceGroups()))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)

	for src := range inv.SourceGroups() {
		src := src
		rep, ok := inv.Representative(src)
		if !ok {
			continue
		}
		g.Go(func() error {
			text, err := q.Changelog(ctx, rep, repoRoot)
			if err != nil {
				log.Warnf("could not read changelog for package %q: %v", rep.Name, err)
				return nil
			}
			mu.Lock()
			logs[src] = text
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; they log and skip instead.
	_ = g.Wait()
	return logs
}
