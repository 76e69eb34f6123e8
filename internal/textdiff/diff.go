// Package textdiff computes addition-only diffs between two changelog
// texts. Changelog entries are prepended (newest first) and existing
// entries are not supposed to be altered, so only inserted lines are
// ever reported; deletions and the old content are dropped.
package textdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Additions returns the lines present in new but not in old, in order,
// each terminated by a newline. The common case is a pure prepend, where
// the result is exactly the new entries before the point where the old
// text resumes. The general case (entries reordered, edited, or fully
// superseded) goes through a line-based sequence match restricted to
// insertions.
//
// An empty old text means no prior data: the full new text is returned.
// Additions never fails; input that cannot be split into lines
// deterministically is diffed as a single opaque line.
func Additions(old, new string) string {
	if new == "" {
		return ""
	}
	if old == "" {
		return new
	}
	if old == new {
		return ""
	}

	a := splitLines(old)
	b := splitLines(new)

	var sb strings.Builder
	matcher := difflib.NewMatcher(a, b)
	for _, op := range matcher.GetOpCodes() {
		// 'i' is an insertion; 'r' replaces old lines with new ones, of
		// which only the new side is reported.
		if op.Tag == 'i' || op.Tag == 'r' {
			for _, line := range b[op.J1:op.J2] {
				sb.WriteString(line)
			}
		}
	}
	return sb.String()
}

// splitLines splits a text for diffing, keeping line terminators so the
// output can be reassembled verbatim. Text containing NUL bytes has no
// deterministic line structure and is treated as one opaque line.
func splitLines(s string) []string {
	if strings.ContainsRune(s, '\x00') {
		return []string{s}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
