// Package history handles the optional image version-history documents
// ([<profile>.]changes.{json,yaml}) shipped with a build. Two documents
// (current and previous build) are compared to find configuration
// changes that are new in the current image version history.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one dated change record under a version tag.
type Entry struct {
	Date    string `yaml:"date" json:"date"`
	Change  string `yaml:"change" json:"change"`
	Details string `yaml:"details,omitempty" json:"details,omitempty"`
}

// Document maps a version tag to its ordered change entries.
type Document map[string][]Entry

// MalformedDocumentError reports a history file whose top-level shape is
// not a mapping from version tag to entry list. Callers recover by
// treating config-changes as absent.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed version history %s: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// Load reads a version-history document, choosing the parser by file
// extension.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading version history: %w", err)
	}

	var doc Document
	switch {
	case strings.HasSuffix(path, ".json"):
		err = json.Unmarshal(data, &doc)
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, &MalformedDocumentError{
			Path: path,
			Err:  fmt.Errorf("unknown format, cannot parse image history"),
		}
	}
	if err != nil {
		return nil, &MalformedDocumentError{Path: path, Err: err}
	}
	return doc, nil
}

// Merge returns, per version tag, the entries present in current but
// absent in previous. Entries are compared by full content, not date
// alone, since identical dates may recur across rebuilds.
//
// A nil previous means first build: all current entries are new. A nil
// current produces nothing. Tags only in previous describe a history
// branch no longer present and are ignored.
func Merge(current, previous Document) map[string][]Entry {
	if current == nil {
		return nil
	}

	changes := make(map[string][]Entry)
	for tag, entries := range current {
		old := previous[tag]
		var fresh []Entry
		for _, e := range entries {
			if !containsEntry(old, e) {
				fresh = append(fresh, e)
			}
		}
		if len(fresh) > 0 {
			changes[tag] = fresh
		}
	}
	return changes
}

func containsEntry(entries []Entry, e Entry) bool {
	for _, have := range entries {
		if have == e {
			return true
		}
	}
	return false
}
