package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]Package{
		{Name: "dup", Version: "1.0"},
		{Name: "dup", Version: "2.0"},
	})
	require.Error(t, err)

	var dupErr *DuplicatePackageError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "dup", dupErr.Name)
}

func TestLookup(t *testing.T) {
	inv, err := New([]Package{
		{Name: "alpha", Version: "1.0"},
		{Name: "beta", Version: "2.0"},
	})
	require.NoError(t, err)

	p, ok := inv.Lookup("alpha")
	require.True(t, ok)
	assert.Equal(t, "1.0", p.Version)

	_, ok = inv.Lookup("missing")
	assert.False(t, ok)
}

func TestAllIsSortedByName(t *testing.T) {
	inv, err := New([]Package{
		{Name: "zeta"},
		{Name: "alpha"},
		{Name: "mid"},
	})
	require.NoError(t, err)

	var names []string
	for _, p := range inv.All() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestSourceGroups(t *testing.T) {
	src := "obs://build.example.com/Example:Project/standard/abc123-lib"
	inv, err := New([]Package{
		{Name: "lib-tools", Source: src},
		{Name: "lib-devel", Source: src},
		{Name: "other", Source: "obs://build.example.com/Example:Project/standard/def456-other"},
	})
	require.NoError(t, err)

	groups := inv.SourceGroups()
	require.Len(t, groups, 2)
	require.Len(t, groups["lib"], 2)

	// Groups are sorted by name; element 0 is the representative.
	assert.Equal(t, "lib-devel", groups["lib"][0].Name)

	rep, ok := inv.Representative("lib")
	require.True(t, ok)
	assert.Equal(t, "lib-devel", rep.Name)

	_, ok = inv.Representative("unknown")
	assert.False(t, ok)
}

func TestEveryPackageBelongsToExactlyOneGroup(t *testing.T) {
	inv, err := New([]Package{
		{Name: "a", Source: "obs://x/Proj/repo/h1-s1"},
		{Name: "b", Source: "obs://x/Proj/repo/h1-s1"},
		{Name: "c", Source: "obs://x/Proj/repo/h2-s2"},
	})
	require.NoError(t, err)

	total := 0
	for _, group := range inv.SourceGroups() {
		total += len(group)
	}
	assert.Equal(t, inv.Len(), total)
}
