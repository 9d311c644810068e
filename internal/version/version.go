// Package version carries the arena server's build metadata, stamped with
// -ldflags by the release pipeline. The zero values identify a local
// development build.
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)
