package inventory

import (
	"fmt"
	"sort"
)

// DuplicatePackageError reports a binary package name occurring more
// than once in a single snapshot. A build's own package set must be
// internally consistent, so this is fatal to Inventory construction.
type DuplicatePackageError struct {
	Name string
}

func (e *DuplicatePackageError) Error() string {
	return fmt.Sprintf("duplicate package %q in snapshot", e.Name)
}

// Inventory is the immutable package set of one build snapshot, keyed
// by binary name, with a derived grouping by source package.
type Inventory struct {
	byName map[string]Package
	groups map[string][]Package
}

// New builds an Inventory from parsed package records. It fails with a
// DuplicatePackageError when two records share a binary name.
func New(pkgs []Package) (*Inventory, error) {
	inv := &Inventory{
		byName: make(map[string]Package, len(pkgs)),
		groups: make(map[string][]Package),
	}
	for _, p := range pkgs {
		if _, exists := inv.byName[p.Name]; exists {
			return nil, &DuplicatePackageError{Name: p.Name}
		}
		inv.byName[p.Name] = p
		src := p.SourceName()
		inv.groups[src] = append(inv.groups[src], p)
	}
	// Sort each group by name so element 0 is the deterministic
	// representative used for changelog diffing.
	for _, group := range inv.groups {
		sort.Slice(group, func(i, j int) bool { return group[i].Name < group[j].Name })
	}
	return inv, nil
}

// Lookup returns the package with the given binary name.
func (inv *Inventory) Lookup(name string) (Package, bool) {
	p, ok := inv.byName[name]
	return p, ok
}

// Len returns the number of packages in the snapshot.
func (inv *Inventory) Len() int {
	return len(inv.byName)
}

// All returns every package sorted by binary name.
func (inv *Inventory) All() []Package {
	pkgs := make([]Package, 0, len(inv.byName))
	for _, p := range inv.byName {
		pkgs = append(pkgs, p)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs
}

// SourceGroups returns the packages grouped by source package name.
// Group slices are sorted by binary name and must not be mutated.
func (inv *Inventory) SourceGroups() map[string][]Package {
	return inv.groups
}

// Representative returns the lexicographically smallest binary package
// of the given source group. Sub-packages of one source share a
// changelog, so one representative per side is enough for diffing.
func (inv *Inventory) Representative(source string) (Package, bool) {
	group, ok := inv.groups[source]
	if !ok || len(group) == 0 {
		return Package{}, false
	}
	return group[0], true
}
