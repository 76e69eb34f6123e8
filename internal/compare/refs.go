package compare

import (
	"regexp"
	"sort"
	"strings"
)

// cveRe matches security-advisory identifiers in changelog text. The
// prefix is matched case-insensitively; identifiers are normalized to
// upper case before reporting.
var cveRe = regexp.MustCompile(`(?i)CVE-\d{4}-\d+`)

// ExtractReferences returns the deduplicated, sorted set of
// security-advisory identifiers found in text, in canonical upper-case
// form. There is no false-positive suppression beyond the pattern match.
func ExtractReferences(text string) []string {
	matches := cveRe.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		seen[strings.ToUpper(m)] = struct{}{}
	}

	refs := make([]string, 0, len(seen))
	for ref := range seen {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}
