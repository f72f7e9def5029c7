// Package version carries the build metadata shown by `srcmark version`
// and the root command's --version flag.
package version

import "github.com/fatih/color"

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the srcmark CLI.
	Version = versionMajorColor.Sprint("0") + "." + versionMinorColor.Sprint("1") + "." + versionPatchColor.Sprint("0") + "-dev"

	// GitCommit is the commit the binary was built from. Release builds
	// stamp it via -ldflags "-X srcmark/internal/version.GitCommit=...".
	GitCommit = ""

	// BuildDate is the build timestamp in ISO-8601, stamped like GitCommit.
	BuildDate = ""
)
