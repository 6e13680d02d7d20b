package models

import "fmt"

// BuildInfo carries the build metadata injected through linker flags,
// reported at startup for release traceability.
type BuildInfo struct {
	Version string
	Date    string
	Commit  string
}

// NewBuildInfo normalizes empty linker-flag values to "N/A".
func NewBuildInfo(version, date, commit string) BuildInfo {
	return BuildInfo{
		Version: orNA(version),
		Date:    orNA(date),
		Commit:  orNA(commit),
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", b.Version, b.Date, b.Commit)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
