package compare

import "regexp"

// Packager identities in rpm changelog headers appear as a name segment
// followed by an angle-bracketed email address. namedEmailRe catches the
// usual "Jane Doe <jane@example.com>" form; bareEmailRe sweeps up
// addresses whose name segment did not match (lower-case or missing
// names).
var (
	namedEmailRe = regexp.MustCompile(`[A-Z][\w'.-]*(?:[ \t]+[A-Z][\w'.-]*)*[ \t]*<[^<>\s]+@[^<>\s]+>`)
	bareEmailRe  = regexp.MustCompile(`<[^<>\s]+@[^<>\s]+>`)
)

// Anonymize strips packager name/email segments from changelog text.
// This is a pure text transform applied to diff texts (and bundled
// changelogs) before they are placed into the report.
func Anonymize(text string) string {
	text = namedEmailRe.ReplaceAllString(text, "")
	return bareEmailRe.ReplaceAllString(text, "")
}
