package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/build"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information for chlog",
	Example: `  # Show version info
  chlog version

  # Plain output (for scripts)
  chlog version --plain`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if plainFlag {
			printPlainVersion(cmd)
		} else {
			printPrettyVersion(cmd)
		}
	},
}

func init() {
	versionCmd.GroupID = GroupGettingStarted
	rootCmd.AddCommand(versionCmd)
}

// printPlainVersion prints a simple version output for scripting.
func printPlainVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "chlog %s\n", build.Version)
	fmt.Fprintf(out, "commit: %s\n", build.Commit)
	fmt.Fprintf(out, "built: %s\n", build.BuildDate)
	fmt.Fprintf(out, "go: %s\n", runtime.Version())
	fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// printPrettyVersion prints a styled version output.
func printPrettyVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	version := build.Version
	if build.IsDevBuild() {
		version = version + " (development build)"
	}

	fmt.Fprintf(out, "%s %s\n", bold("chlog"), version)
	fmt.Fprintf(out, "%s %s\n", dim("commit:  "), build.Commit)
	fmt.Fprintf(out, "%s %s\n", dim("built:   "), build.BuildDate)
	fmt.Fprintf(out, "%s %s\n", dim("go:      "), runtime.Version())
	fmt.Fprintf(out, "%s %s/%s\n", dim("platform:"), runtime.GOOS, runtime.GOARCH)
}
