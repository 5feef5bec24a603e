// Package main is the entry point for the suprss CLI
package main

import (
	"os"

	"github.com/ElouanDeriaux/suprss/cmd"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

// set at build time via ldflags
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	cmd.SetVersion(version)
	cmd.SetBuildInfo(commit, buildTime)
	if err := cmd.Execute(); err != nil {
		os.Exit(output.ExitCodeOf(err))
	}
}
