// Package version carries build information stamped in with ldflags, e.g.
// -ldflags "-X controlreport/internal/version.Version=1.2.0".
package version

import "runtime"

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// String returns the bare version.
func String() string {
	return Version
}

// FullString returns the version prefixed with the binary name.
func FullString() string {
	if Version == "dev" {
		return "controlreport development version"
	}
	return "controlreport " + Version
}

// Info returns all build information as a map.
func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
		"goVersion": runtime.Version(),
	}
}
