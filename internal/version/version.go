package version

import (
	"fmt"
	"runtime"
)

// Populated at build time via -ldflags. The defaults mark a local,
// untagged build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns a single-line version summary suitable for the
// version subcommand.
func String() string {
	return fmt.Sprintf("dcat-launcher %s (commit %s, built %s, %s/%s)",
		Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
