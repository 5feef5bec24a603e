package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo records the values injected with -ldflags at build time.
func SetBuildInfo(c, bt string) {
	commit = c
	buildTime = bt
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:   version,
		Commit:    commit,
		Built:     buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the suprss client version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		w := cmd.OutOrStdout()
		switch short, _ := cmd.Flags().GetBool("short"); {
		case short:
			fmt.Fprintln(w, info.Version)
		case wantJSON(cmd):
			return newPrinter(cmd).JSON(info)
		default:
			fmt.Fprintf(w, "suprss version %s\n", info.Version)
			for _, f := range [][2]string{
				{"commit", info.Commit},
				{"built", info.Built},
				{"go version", info.GoVersion},
				{"platform", info.Platform},
			} {
				fmt.Fprintf(w, "  %-11s %s\n", f[0]+":", f[1])
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().Bool("short", false, "print the version number only")
	versionCmd.Flags().Bool("json", false, "output as JSON")
}
