package app

import "fmt"

// Build information populated via -ldflags at build time.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString is printed by -version and logged at startup.
func VersionString() string {
	return fmt.Sprintf("painresearch %s (%s, %s)", BuildVersion, BuildCommit, BuildDate)
}
