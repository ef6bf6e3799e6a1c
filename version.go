// Package yamlcase generates configuration variants from one YAML template.
//
// The engine lives in the document, docpath, override and cases packages; this
// package hosts the Fx application used by the serve command and the build
// information printed by the version command.
package yamlcase

import "fmt"

//nolint:gochecknoglobals // set via ldflags at build time.
var (
	// Version is the application version, set via ldflags.
	Version = "dev"
	// Commit is the source revision, set via ldflags.
	Commit = "none"
	// CompiledAt is the build timestamp, set via ldflags.
	CompiledAt = "unknown"
)

// VersionString formats the build information on one line.
func VersionString() string {
	return fmt.Sprintf("yamlcase %s (commit %s, built %s)", Version, Commit, CompiledAt)
}
