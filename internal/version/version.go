// Package version holds build metadata injected with -ldflags, e.g.
//
//	-X github.com/MrSnakeDoc/bundlepitch/internal/version.Version=v1.0.0
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"     // ex: v0.1.0
	Commit    = "none"    // ex: abcd123
	BuildDate = "unknown" // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version()
)

// String is the one-line form printed by `bundlepitch version`.
func String() string {
	return fmt.Sprintf("%s (commit=%s, built=%s, %s)", Version, Commit, BuildDate, GoVersion)
}
