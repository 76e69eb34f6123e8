// Package report defines the changelog report produced by one release
// comparison and its text/YAML/JSON renderings.
package report

import (
	"github.com/raveheart1/relcompare/internal/history"
)

// FormatVersion identifies the report schema carried in every emitted
// artifact. Consumers use it to detect incompatible layout changes.
const FormatVersion = "2"

// PackageVersion is one entry of the optional full package list.
type PackageVersion struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// Report is the comparison result for one image. It is constructed once
// by the comparator, owned by the caller, and holds no reference back to
// the inventories it was computed from.
type Report struct {
	FormatVersion string `yaml:"format-version" json:"format-version"`

	// Removed and Added list binary package names present on only one
	// side of the comparison, sorted.
	Removed []string `yaml:"removed" json:"removed"`
	Added   []string `yaml:"added" json:"added"`

	// SourceChanges maps a source package name to the addition-only
	// changelog diff of its representative binary package.
	SourceChanges map[string]string `yaml:"source-changes" json:"source-changes"`

	// References are the security-advisory identifiers found in the
	// emitted diffs, deduplicated and sorted.
	References []string `yaml:"references" json:"references"`

	// ConfigChanges is present only when both builds supplied a
	// parseable image version history.
	ConfigChanges map[string][]history.Entry `yaml:"config-changes,omitempty" json:"config-changes,omitempty"`

	// PackageList is the full current package set, included per the
	// package_list policy.
	PackageList []PackageVersion `yaml:"package-list,omitempty" json:"package-list,omitempty"`
}

// New returns an empty report carrying the current format version.
func New() *Report {
	return &Report{
		FormatVersion: FormatVersion,
		Removed:       []string{},
		Added:         []string{},
		SourceChanges: map[string]string{},
		References:    []string{},
	}
}
