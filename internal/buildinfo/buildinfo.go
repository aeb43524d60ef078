// Package buildinfo carries release metadata for the spd binary.
package buildinfo

// Injected via ldflags for release builds; empty in dev builds, where
// the version command falls back to module build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
