// Package autopilot provides the version information for autopilot.
package autopilot

// Version is the current version of autopilot.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
