package inventory

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raveheart1/relcompare/internal/output"
)

// reportBinary is one <binary> element of an OBS build report.
type reportBinary struct {
	Name       string `xml:"name,attr"`
	Version    string `xml:"version,attr"`
	Release    string `xml:"release,attr"`
	BinaryArch string `xml:"binaryarch,attr"`
	DistURL    string `xml:"disturl,attr"`
	Project    string `xml:"project,attr"`
	Repository string `xml:"repository,attr"`
}

type reportDoc struct {
	XMLName  xml.Name       `xml:"report"`
	Binaries []reportBinary `xml:"binary"`
}

// ParseReportFile reads an OBS .report file (XML with one <binary>
// element per installed package).
func ParseReportFile(path string) ([]Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report file: %w", err)
	}

	var doc reportDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing report file %s: %w", path, err)
	}

	pkgs := make([]Package, 0, len(doc.Binaries))
	for _, b := range doc.Binaries {
		if b.Name == "" {
			continue
		}
		pkgs = append(pkgs, Package{
			Name:    b.Name,
			Version: b.Version,
			Release: b.Release,
			Arch:    b.BinaryArch,
			Source:  b.DistURL,
			Repo:    filepath.Join(b.Project, b.Repository),
		})
	}
	return pkgs, nil
}

// ParsePackagesFile reads a KIWI/DOCKER .packages file. Each line is a
// pipe-separated record: name|epoch|version|release|arch|disturl|...
// Packages without source information are skipped; they cannot be
// grouped by source package.
func ParsePackagesFile(path string, log *output.Logger) ([]Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading packages file: %w", err)
	}
	defer f.Close()

	var pkgs []Package
	lineNo := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		records := strings.Split(scanner.Text(), "|")
		if len(records) < 6 {
			log.Warnf("line %d in %s does not have expected format, skipping", lineNo, path)
			continue
		}
		if records[5] == "(none)" || records[5] == "" {
			log.Debugf("ignoring package %q, no source information", records[0])
			continue
		}
		pkgs = append(pkgs, Package{
			Name:    records[0],
			Version: records[2],
			Release: records[3],
			Arch:    records[4],
			Source:  records[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading packages file %s: %w", path, err)
	}
	return pkgs, nil
}

// ParseFile dispatches on the report file extension.
func ParseFile(path string, log *output.Logger) ([]Package, error) {
	switch {
	case strings.HasSuffix(path, ".report"):
		return ParseReportFile(path)
	case strings.HasSuffix(path, ".packages"):
		return ParsePackagesFile(path, log)
	default:
		return nil, fmt.Errorf("%s: unknown report file format", path)
	}
}
