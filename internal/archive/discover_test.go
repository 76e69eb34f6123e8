package archive

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raveheart1/relcompare/internal/output"
)

func testLogger() *output.Logger {
	return &output.Logger{W: os.Stderr}
}

func TestCandidatePattern(t *testing.T) {
	tests := map[string]struct {
		imageName string
		matches   []string
		rejects   []string
		none      bool
	}{
		"build number replaced": {
			imageName: "MyImage.x86_64-15.4-Build7.2",
			matches: []string{
				"MyImage.x86_64-15.4-Build7.3.obsgendiff",
				"MyImage.x86_64-15.4-Build12.obsgendiff",
			},
			rejects: []string{
				"MyImage.x86_64-15.5-Build7.3.obsgendiff",
				"OtherImage.x86_64-15.4-Build7.3.obsgendiff",
			},
		},
		"media1 fallback": {
			imageName: "MyProduct-dvd-Media1",
			matches:   []string{"MyProduct-dvd-Build42.1-Media1.obsgendiff"},
			rejects:   []string{"MyProduct-dvd-Build42.1-Media2.obsgendiff"},
		},
		"no build number and no media": {
			imageName: "MyProduct-ftp-tree",
			none:      true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			pattern := CandidatePattern(tt.imageName, testLogger())
			if tt.none {
				assert.Empty(t, pattern)
				return
			}
			require.NotEmpty(t, pattern)
			re := regexp.MustCompile(`^(?:` + pattern + `)$`)
			for _, m := range tt.matches {
				assert.True(t, re.MatchString(m), "expected %q to match", m)
			}
			for _, r := range tt.rejects {
				assert.False(t, re.MatchString(r), "expected %q not to match", r)
			}
		})
	}
}

func TestRelaxVersionPattern(t *testing.T) {
	pattern := CandidatePattern("MyImage.x86_64-15.4-Build7.2", testLogger())
	relaxed := RelaxVersionPattern(pattern)
	require.NotEmpty(t, relaxed)

	re := regexp.MustCompile(`^(?:` + relaxed + `)$`)
	assert.True(t, re.MatchString("MyImage.x86_64-15.3-Build9.1.obsgendiff"))
	assert.True(t, re.MatchString("MyImage.x86_64-15.4-Build7.3.obsgendiff"))
	assert.False(t, re.MatchString("OtherImage.x86_64-15.3-Build9.1.obsgendiff"))
}

func TestRelaxVersionPatternWithoutVersion(t *testing.T) {
	pattern := CandidatePattern("MyImage-Build7", testLogger())
	assert.Empty(t, RelaxVersionPattern(pattern))
}

func TestFindPrevious(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"MyImage.x86_64-15.4-Build7.2.obsgendiff",
		"MyImage.x86_64-15.4-Build7.10.obsgendiff",
		"MyImage.x86_64-15.4-Build6.9.obsgendiff",
		"unrelated.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got := FindPrevious(dir, "MyImage.x86_64-15.4-Build8.1", testLogger())
	assert.Equal(t, filepath.Join(dir, "MyImage.x86_64-15.4-Build7.10.obsgendiff"), got)
}

func TestFindPreviousFallsBackToOlderVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"MyImage.x86_64-15.3-Build9.1.obsgendiff",
		"MyImage.x86_64-15.2-Build4.4.obsgendiff",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got := FindPrevious(dir, "MyImage.x86_64-15.4-Build1.1", testLogger())
	assert.Equal(t, filepath.Join(dir, "MyImage.x86_64-15.3-Build9.1.obsgendiff"), got)
}

func TestFindPreviousNoCandidates(t *testing.T) {
	assert.Empty(t, FindPrevious(t.TempDir(), "MyImage.x86_64-15.4-Build1.1", testLogger()))
}

func TestMatchChangesFile(t *testing.T) {
	t.Run("single candidate", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "changes.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		assert.Equal(t, path, MatchChangesFile("AnyImage-15.4-Build1.1", dir, testLogger()))
	})

	t.Run("profile selection", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"minimal.changes.json", "desktop.changes.json"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
		}

		got := MatchChangesFile("MyImage-desktop-15.4-Build1.1", dir, testLogger())
		assert.Equal(t, filepath.Join(dir, "desktop.changes.json"), got)
	})

	t.Run("no profile matches", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"minimal.changes.json", "desktop.changes.json"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
		}

		assert.Empty(t, MatchChangesFile("MyImage-server-15.4-Build1.1", dir, testLogger()))
	})

	t.Run("yaml fallback", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "changes.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

		assert.Equal(t, path, MatchChangesFile("AnyImage", dir, testLogger()))
	})

	t.Run("nothing found", func(t *testing.T) {
		assert.Empty(t, MatchChangesFile("AnyImage", t.TempDir(), testLogger()))
	})
}
