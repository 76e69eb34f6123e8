package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteText renders the report as the human-readable ChangeLog layout
// with fixed sections, empty ones included.
func WriteText(r *Report, w io.Writer) error {
	var sb strings.Builder

	writeSection(&sb, "Removed rpms", r.Removed)
	sb.WriteString("\n")
	writeSection(&sb, "Added rpms", r.Added)
	sb.WriteString("\n")

	writeHeading(&sb, "Package Source Changes")
	if len(r.SourceChanges) > 0 {
		sb.WriteString("\n")
		for _, src := range sortedKeys(r.SourceChanges) {
			sb.WriteString(src + "\n")
			writeIndented(&sb, r.SourceChanges[src])
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	writeSection(&sb, "References", r.References)

	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteYAML renders the report as YAML with the artifact key layout.
func WriteYAML(r *Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report YAML: %w", err)
	}
	return nil
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(r *Report, w io.Writer) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func writeHeading(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n")
}

func writeSection(sb *strings.Builder, title string, items []string) {
	writeHeading(sb, title)
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString(" - " + item + "\n")
	}
}

// writeIndented prefixes every diff line with "+ ", marking the text as
// added changelog content.
func writeIndented(sb *strings.Builder, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		sb.WriteString("+ " + line + "\n")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
