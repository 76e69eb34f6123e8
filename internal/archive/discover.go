package archive

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/raveheart1/relcompare/internal/output"
)

var (
	buildNumberRe = regexp.MustCompile(`(Build)([0-9]+(\.[0-9]+)?)`)
	versionRe     = regexp.MustCompile(`(-)([0-9]+(\.[0-9]+)+)(-)`)
	// quotedVersionRe finds the quoted version portion inside a
	// candidate pattern, so the pattern can be relaxed to match older
	// versions as well.
	quotedVersionRe = regexp.MustCompile(`-[0-9]+(\\\.[0-9]+)+-`)
)

// CandidatePattern derives the file-name pattern selecting previous
// snapshot bundles for the given image name. The build number is
// replaced with a wildcard; image names without one are only handled
// for Media1 tree reports. Returns an empty string when no pattern can
// be derived.
func CandidatePattern(imageName string, log *output.Logger) string {
	if m := buildNumberRe.FindStringIndex(imageName); m != nil {
		return regexp.QuoteMeta(imageName[:m[0]]) +
			`Build[0-9]+(\.[0-9]+)?` +
			regexp.QuoteMeta(imageName[m[1]:]) +
			`\.obsgendiff`
	}
	log.Debugf("%s does not contain a build number", imageName)
	if strings.HasSuffix(imageName, "-Media1") {
		return regexp.QuoteMeta(strings.TrimSuffix(imageName, "-Media1")) +
			`-Build[0-9]+(\.[0-9]+)?-Media1\.obsgendiff`
	}
	log.Warnf("%s: no build number and not a Media report file, skipping", imageName)
	return ""
}

// RelaxVersionPattern widens a candidate pattern so bundles of older
// image versions match too. Returns an empty string when the pattern
// carries no version to relax.
func RelaxVersionPattern(pattern string) string {
	loc := quotedVersionRe.FindStringIndex(pattern)
	if loc == nil {
		return ""
	}
	return pattern[:loc[0]] + `-[0-9]+(\.[0-9]+)+-` + pattern[loc[1]:]
}

// FindPrevious locates the previous snapshot bundle for imageName in
// sourcesDir. It first matches bundles of the same image version with
// any build number, then retries with the version relaxed. Among the
// matches, the newest by version and build number wins. Returns an
// empty string when there is no previous bundle.
func FindPrevious(sourcesDir, imageName string, log *output.Logger) string {
	pattern := CandidatePattern(imageName, log)
	if pattern == "" {
		return ""
	}

	log.Debugf("using pattern %q to select previous bundle", pattern)
	matches := matchFiles(sourcesDir, pattern)
	if len(matches) == 0 {
		log.Debugf("no previous bundle for %q, trying older versions", imageName)
		relaxed := RelaxVersionPattern(pattern)
		if relaxed == "" {
			log.Warnf("no version number found in %q", imageName)
			return ""
		}
		log.Debugf("using pattern %q to select previous bundle", relaxed)
		matches = matchFiles(sourcesDir, relaxed)
	}

	latest := latestBundle(matches, log)
	if latest == "" {
		log.Warnf("no previous bundle found for %q", imageName)
		return ""
	}
	return filepath.Join(sourcesDir, latest)
}

// matchFiles returns the directory entries fully matching the pattern.
func matchFiles(dir, pattern string) []string {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var matches []string
	for _, e := range entries {
		if re.MatchString(e.Name()) {
			matches = append(matches, e.Name())
		}
	}
	return matches
}

// latestBundle picks the candidate with the highest image version,
// build number breaking ties.
func latestBundle(names []string, log *output.Logger) string {
	if len(names) == 1 {
		return names[0]
	}
	var (
		latest      string
		lastVersion = "0.0.0"
		lastBuild   = "0.0"
	)
	log.Debugf("finding latest bundle")
	for _, name := range names {
		log.Debugf("  considering %s", name)
		curVersion, curBuild := "0", "0"
		if m := versionRe.FindStringSubmatch(name); m != nil {
			curVersion = m[2]
		}
		if m := buildNumberRe.FindStringSubmatch(name); m != nil {
			curBuild = m[2]
		}
		if v := compareVersions(curVersion, lastVersion); v > 0 ||
			(v == 0 && compareVersions(curBuild, lastBuild) > 0) {
			latest = name
			lastVersion = curVersion
			lastBuild = curBuild
			log.Debugf("  new candidate %s", name)
		}
	}
	return latest
}

// MatchChangesFile finds the image version-history file for an image in
// sourcesDir, following the [<profile>.]changes.{json,yaml} naming
// convention. With several candidates, the profile name must occur in
// the image name. Returns an empty string when nothing matches.
func MatchChangesFile(imageName, sourcesDir string, log *output.Logger) string {
	candidates, _ := filepath.Glob(filepath.Join(sourcesDir, "*changes.json"))
	if len(candidates) == 0 {
		candidates, _ = filepath.Glob(filepath.Join(sourcesDir, "*changes.yaml"))
	}
	if len(candidates) == 0 {
		log.Warnf("no version history file in %s", sourcesDir)
		return ""
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, candidate := range candidates {
		profile := strings.SplitN(filepath.Base(candidate), ".", 2)[0]
		if strings.Contains(imageName, "-"+profile+"-") {
			return candidate
		}
	}
	log.Warnf("no changes file in %s matches %s", sourcesDir, imageName)
	return ""
}
