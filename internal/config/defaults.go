package config

// Defaults returns the default configuration values. Text and JSON
// artifacts are written by default; YAML is opt-in.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"output_text": true,
		"output_yaml": false,
		"output_json": true,
		// package_list: include the full package list only for net-new
		// images (no previous snapshot to compare against).
		// Valid values: "always", "new", "never".
		"package_list": "new",
		// anonymize_changes: strip packager name/email segments from
		// changelog diffs before they reach the report.
		"anonymize_changes": true,
		"debug":             false,
	}
}
