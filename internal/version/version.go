// Package version holds the supervisor's build identity, printed once at
// startup (spec section 1 purpose: a container-oriented init/supervisor).
package version

var (
	Name    = "regilo"
	Version = "0.1.0"
)

// HumanVersion is the version string written to the log at startup.
var HumanVersion = Name + " v" + Version
