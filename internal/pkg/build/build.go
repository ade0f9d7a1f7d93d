// Package build contains values set at build time by "-ldflags -X".
package build

const DevVersionValue = "dev"

var (
	BuildVersion = DevVersionValue
	GitCommit    = "-"
	BuildDate    = "-"
)
