package archive

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relcompare/internal/inventory"
)

func TestBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pkgs := []inventory.Package{
		{Name: "mypkg", Version: "1.0", Release: "2.1"},
		{Name: "otherpkg", Version: "3.0", Release: "1.1"},
	}
	changelogs := map[string]string{
		"mysrc": "* Mon Jan 02 2023 build\n- fix\n",
	}
	historyFile := filepath.Join(t.TempDir(), "changes.json")
	require.NoError(t, os.WriteFile(historyFile,
		[]byte(`{"1.0": [{"date": "2023-01-01", "change": "init"}]}`), 0o644))

	require.NoError(t, WriteBundle(dir, pkgs, changelogs, historyFile))

	snap, err := ReadBundle(dir, testLogger())
	require.NoError(t, err)

	require.Len(t, snap.Packages, 2)
	byName := map[string]inventory.Package{}
	for _, p := range snap.Packages {
		byName[p.Name] = p
	}
	assert.Equal(t, "1.0", byName["mypkg"].Version)
	assert.Equal(t, "2.1", byName["mypkg"].Release)

	assert.Equal(t, changelogs, snap.Changelogs)

	require.NotNil(t, snap.History)
	assert.Equal(t, "init", snap.History["1.0"][0].Change)
}

func TestReadBundleWithoutHistory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteBundle(dir, nil, nil, ""))

	snap, err := ReadBundle(dir, testLogger())
	require.NoError(t, err)
	assert.Empty(t, snap.Packages)
	assert.Nil(t, snap.History)
}

func TestReadBundleMalformedHistoryIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteBundle(dir, nil, nil, ""))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image_changes.json"),
		[]byte(`["broken"]`), 0o644))

	snap, err := ReadBundle(dir, testLogger())
	require.NoError(t, err)
	assert.Nil(t, snap.History)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("tar"); err != nil {
		t.Skip("tar not available")
	}

	src := t.TempDir()
	require.NoError(t, WriteBundle(src, []inventory.Package{
		{Name: "mypkg", Version: "1.0", Release: "2.1"},
	}, map[string]string{"mysrc": "- entry\n"}, ""))

	archiveFile := filepath.Join(t.TempDir(), "image.obsgendiff")
	require.NoError(t, Pack(context.Background(), src, archiveFile))

	dest := filepath.Join(t.TempDir(), "extracted")
	require.NoError(t, Unpack(context.Background(), archiveFile, dest))

	snap, err := ReadBundle(dest, testLogger())
	require.NoError(t, err)
	require.Len(t, snap.Packages, 1)
	assert.Equal(t, "mypkg", snap.Packages[0].Name)
	assert.Equal(t, map[string]string{"mysrc": "- entry\n"}, snap.Changelogs)
}

func TestSplitFullVersion(t *testing.T) {
	version, release := splitFullVersion("1.0-2.1")
	assert.Equal(t, "1.0", version)
	assert.Equal(t, "2.1", release)

	version, release = splitFullVersion("justversion")
	assert.Equal(t, "justversion", version)
	assert.Empty(t, release)
}
