// Package compare implements the comparison engine: it diffs two
// package inventories into a changelog report, driving the addition-only
// changelog differ and the security-reference extractor over the source
// groups common to both snapshots.
package compare

import (
	"sort"

	"github.com/raveheart1/relcompare/internal/inventory"
	"github.com/raveheart1/relcompare/internal/output"
	"github.com/raveheart1/relcompare/internal/report"
	"github.com/raveheart1/relcompare/internal/textdiff"
)

// Package list policies. "new" includes the full package list only when
// no previous snapshot was available for comparison.
const (
	PackageListAlways = "always"
	PackageListNever  = "never"
	PackageListNew    = "new"
)

// Options carry the resolved configuration the comparison consumes.
// They are threaded in explicitly so the engine stays pure and testable.
type Options struct {
	// Anonymize strips packager identities from diff texts before they
	// are placed into the report.
	Anonymize bool
	// PackageList is the package-list inclusion policy.
	PackageList string
	// Log receives skip notices for entries excluded from the report.
	Log *output.Logger
}

// Compare classifies two inventories and produces the changelog report.
//
// currentLogs and previousLogs hold the changelog text per source
// package name; sub-packages of one source share a changelog, so each
// source is diffed once, between the representatives of its group on
// either side. A nil previous inventory means net-new image: there is
// nothing to diff against, and the report carries only the package list
// (per policy).
func Compare(current, previous *inventory.Inventory, currentLogs, previousLogs map[string]string, opts Options) *report.Report {
	rep := report.New()

	netNew := previous == nil
	if !netNew {
		classify(current, previous, rep)
		diffSources(current, previous, currentLogs, previousLogs, opts, rep)
	}

	if opts.PackageList == PackageListAlways || (netNew && opts.PackageList == PackageListNew) {
		for _, p := range current.All() {
			rep.PackageList = append(rep.PackageList, report.PackageVersion{
				Name:    p.Name,
				Version: p.Version,
			})
		}
	}

	return rep
}

// classify fills the added and removed sets by binary package name.
func classify(current, previous *inventory.Inventory, rep *report.Report) {
	for _, p := range current.All() {
		if _, ok := previous.Lookup(p.Name); !ok {
			rep.Added = append(rep.Added, p.Name)
		}
	}
	for _, p := range previous.All() {
		if _, ok := current.Lookup(p.Name); !ok {
			rep.Removed = append(rep.Removed, p.Name)
		}
	}
	sort.Strings(rep.Added)
	sort.Strings(rep.Removed)
}

// diffSources computes the per-source changelog deltas for sources
// present on both sides and collects security references from them.
// Sources on only one side are not diffed; their packages already show
// up as added or removed.
func diffSources(current, previous *inventory.Inventory, currentLogs, previousLogs map[string]string, opts Options, rep *report.Report) {
	refs := make(map[string]struct{})

	for src := range current.SourceGroups() {
		if _, ok := previous.SourceGroups()[src]; !ok {
			continue
		}
		newLog, oldLog := currentLogs[src], previousLogs[src]
		if newLog == "" || oldLog == "" {
			// Unless the package query or the previous bundle had a
			// problem, this should not happen.
			opts.Log.Debugf("no changelog data for source %q, skipping", src)
			continue
		}
		if oldLog == newLog {
			continue
		}

		changes := textdiff.Additions(oldLog, newLog)
		if changes == "" {
			continue
		}
		for _, ref := range ExtractReferences(changes) {
			refs[ref] = struct{}{}
		}
		if opts.Anonymize {
			changes = Anonymize(changes)
		}
		rep.SourceChanges[src] = changes
	}

	for ref := range refs {
		rep.References = append(rep.References, ref)
	}
	sort.Strings(rep.References)
}
