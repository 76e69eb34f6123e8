// Package config resolves the release-compare options using koanf.
// Values are loaded with priority: environment variables >
// release_compare.{yml,json} > _release_compare (legacy OBS service XML
// control file) > defaults. The legacy control file is what the build
// service places next to the image sources; the YAML/JSON forms are
// preferred for new setups.
package config

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Control file names looked up in the image sources directory. The YAML
// form takes precedence over the JSON one.
const (
	LegacyControlFile = "_release_compare"
	YAMLControlFile   = "release_compare.yml"
	JSONControlFile   = "release_compare.json"
)

// envPrefix for overrides, e.g. RELCOMPARE_PACKAGE_LIST=always.
const envPrefix = "RELCOMPARE_"

// Configuration holds the resolved release-compare options. The
// comparison core only consumes PackageList and AnonymizeChanges; the
// output toggles govern which artifact formats are written.
type Configuration struct {
	OutputText       bool   `koanf:"output_text"`
	OutputYAML       bool   `koanf:"output_yaml"`
	OutputJSON       bool   `koanf:"output_json"`
	PackageList      string `koanf:"package_list"`
	AnonymizeChanges bool   `koanf:"anonymize_changes"`
	Debug            bool   `koanf:"debug"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// SourcesDir is the directory searched for control files.
	SourcesDir string
	// WarningWriter receives unknown-parameter warnings (default: os.Stderr).
	WarningWriter io.Writer
}

// Load resolves the configuration for a build rooted at the given
// sources directory.
func Load(sourcesDir string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{SourcesDir: sourcesDir})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if opts.SourcesDir != "" {
		legacyPath := filepath.Join(opts.SourcesDir, LegacyControlFile)
		if fileExists(legacyPath) {
			if err := loadLegacyControlFile(k, legacyPath, warningWriter); err != nil {
				return nil, fmt.Errorf("loading control file: %w", err)
			}
		}

		yamlPath := filepath.Join(opts.SourcesDir, YAMLControlFile)
		jsonPath := filepath.Join(opts.SourcesDir, JSONControlFile)
		switch {
		case fileExists(yamlPath):
			if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("loading %s: %w", yamlPath, err)
			}
		case fileExists(jsonPath):
			if err := k.Load(file.Provider(jsonPath), kjson.Parser()); err != nil {
				return nil, fmt.Errorf("loading %s: %w", jsonPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated option values.
func Validate(cfg *Configuration) error {
	switch cfg.PackageList {
	case "always", "new", "never":
		return nil
	default:
		return fmt.Errorf("unknown config value %q for parameter \"package_list\"", cfg.PackageList)
	}
}

// controlParam is one <param name="...">value</param> element of the
// legacy OBS service control file.
type controlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type controlDoc struct {
	Params []controlParam `xml:"param"`
}

// loadLegacyControlFile folds the XML control file's parameters into the
// koanf tree. Unknown parameters are warned about and ignored, so newer
// control files keep working with older hook versions.
func loadLegacyControlFile(k *koanf.Koanf, path string, warningWriter io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc controlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	known := Defaults()
	for _, p := range doc.Params {
		value := strings.TrimSpace(p.Value)
		if _, ok := known[p.Name]; !ok {
			fmt.Fprintf(warningWriter, "Warning: unknown config parameter %q\n", p.Name)
			continue
		}
		if p.Name == "package_list" {
			k.Set(p.Name, value)
			continue
		}
		k.Set(p.Name, strings.EqualFold(value, "true"))
	}
	return nil
}

// envTransform maps RELCOMPARE_OUTPUT_TEXT to output_text.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
