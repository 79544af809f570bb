package app

import (
	"fmt"
	"io"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// ShowVersion writes version information to out
func ShowVersion(out io.Writer) {
	fmt.Fprintf(out, "go429 ARINC 429 word tool\n")
	fmt.Fprintf(out, "Version: %s\n", Version)
	fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
}
