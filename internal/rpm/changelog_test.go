package rpm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relcompare/internal/inventory"
	"github.com/raveheart1/relcompare/internal/output"
)

func testLogger() *output.Logger {
	return &output.Logger{W: os.Stderr}
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindRPMWithRepoPath(t *testing.T) {
	root := t.TempDir()
	pkg := inventory.Package{
		Name: "mypkg", Version: "1.0", Release: "2.1", Arch: "x86_64",
		Repo: "Example:Project/standard",
	}
	long := filepath.Join(root, "Example:Project/standard", "mypkg-1.0-2.1.x86_64.rpm")
	touch(t, long)

	assert.Equal(t, long, FindRPM(pkg, root))
}

func TestFindRPMShortNameFallback(t *testing.T) {
	root := t.TempDir()
	pkg := inventory.Package{
		Name: "mypkg", Version: "1.0", Release: "2.1", Arch: "x86_64",
		Repo: "Example:Project/standard",
	}
	short := filepath.Join(root, "Example:Project/standard", "mypkg.rpm")
	touch(t, short)

	assert.Equal(t, short, FindRPM(pkg, root))
}

func TestFindRPMScansWithoutRepo(t *testing.T) {
	root := t.TempDir()
	pkg := inventory.Package{Name: "mypkg", Version: "1.0", Release: "2.1", Arch: "x86_64"}
	nested := filepath.Join(root, "Release:Project/images", "mypkg-1.0-2.1.x86_64.rpm")
	touch(t, nested)

	assert.Equal(t, nested, FindRPM(pkg, root))
}

func TestFindRPMNotFound(t *testing.T) {
	pkg := inventory.Package{Name: "mypkg", Version: "1.0", Release: "2.1", Arch: "x86_64"}
	assert.Empty(t, FindRPM(pkg, t.TempDir()))
}

// fakeQuerier serves canned changelogs keyed by binary package name.
type fakeQuerier struct {
	logs map[string]string
}

func (q fakeQuerier) Changelog(_ context.Context, pkg inventory.Package, _ string) (string, error) {
	text, ok := q.logs[pkg.Name]
	if !ok {
		return "", errors.New("no rpm file")
	}
	return text, nil
}

func TestCollectChangelogs(t *testing.T) {
	disturl := func(src string) string {
		return "obs://build.example.com/Example:Project/standard/abc123-" + src
	}
	inv, err := inventory.New([]inventory.Package{
		{Name: "mypkg", Version: "1.0", Source: disturl("mysrc")},
		{Name: "mypkg-devel", Version: "1.0", Source: disturl("mysrc")},
		{Name: "otherpkg", Version: "3.0", Source: disturl("othersrc")},
		{Name: "brokenpkg", Version: "2.0", Source: disturl("brokensrc")},
	})
	require.NoError(t, err)

	q := fakeQuerier{logs: map[string]string{
		"mypkg":    "* Mon Jan 02 2023 build\n- fix\n",
		"otherpkg": "* Tue Jan 03 2023 build\n- feature\n",
	}}

	logs := CollectChangelogs(context.Background(), inv, q, t.TempDir(), testLogger())

	// brokensrc is skipped, the rest is keyed by source name with the
	// group representative's changelog.
	assert.Equal(t, map[string]string{
		"mysrc":    "* Mon Jan 02 2023 build\n- fix\n",
		"othersrc": "* Tue Jan 03 2023 build\n- feature\n",
	}, logs)
}

func TestCollectChangelogsQueriesRepresentativeOnly(t *testing.T) {
	disturl := "obs://build.example.com/Example:Project/standard/abc123-mysrc"
	inv, err := inventory.New([]inventory.Package{
		{Name: "zzz-late", Version: "1.0", Source: disturl},
		{Name: "aaa-first", Version: "1.0", Source: disturl},
	})
	require.NoError(t, err)

	q := fakeQuerier{logs: map[string]string{"aaa-first": "- entry\n"}}
	logs := CollectChangelogs(context.Background(), inv, q, t.TempDir(), testLogger())

	assert.Equal(t, map[string]string{"mysrc": "- entry\n"}, logs)
}
