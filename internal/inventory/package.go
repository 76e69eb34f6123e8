// Package inventory models the set of installed packages for one image
// build snapshot. An Inventory is built once from a parsed report file
// (or from an unpacked previous-build bundle) and is immutable afterwards.
package inventory

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Package describes one installed binary package as recorded in an OBS
// build report or a KIWI/DOCKER packages file.
type Package struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	Release string `yaml:"release,omitempty" json:"release,omitempty"`
	Arch    string `yaml:"arch,omitempty" json:"arch,omitempty"`
	// Source is the OBS disturl the binary was built from.
	Source string `yaml:"-" json:"-"`
	// Repo is project/repository, when the report provides it.
	Repo string `yaml:"-" json:"-"`
}

// FullVersion returns the version-release string used as the package
// version inside a snapshot bundle.
func (p Package) FullVersion() string {
	if p.Release == "" {
		return p.Version
	}
	return p.Version + "-" + p.Release
}

// SourceName derives the source package name from the disturl.
//
// The disturl path has the form
// obs://build.example.com/PROJECT/repo/hash-pkg_name[.maint_prj] where
// the .maint_prj suffix is only present when PROJECT is a maintenance
// project. Package names may contain dots, so the suffix is only cut
// when the project says it is there.
func (p Package) SourceName() string {
	u, err := url.Parse(p.Source)
	if err != nil {
		return ""
	}
	trimmed := strings.Trim(u.Path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	isMaint := strings.Contains(parts[0], "Maintenance")
	name := path.Base(trimmed)
	if i := strings.Index(name, "-"); i >= 0 {
		name = name[i+1:]
	}
	if isMaint {
		if dot := strings.LastIndex(name, "."); dot >= 0 {
			name = name[:dot]
		}
	}
	return name
}

// RPMFileNames returns the candidate file names for the package under a
// repository cache, long form first. Appliance builds in OBS store rpms
// under the short form.
func (p Package) RPMFileNames() []string {
	long := fmt.Sprintf("%s-%s-%s.%s.rpm", p.Name, p.Version, p.Release, p.Arch)
	short := p.Name + ".rpm"
	return []string{long, short}
}
