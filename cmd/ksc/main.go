package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ksc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ksc",
	Short: "Schema compiler for .ks files",
	Long:  `ksc checks .ks schema packages: namespaces, imports, type algebra, tagging.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("jobs", 0, "parse parallelism (0 = number of CPUs)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// useColor resolves the --color flag against the fatih/color default, which
// already accounts for NO_COLOR and non-terminal stdout.
func useColor(cmd *cobra.Command) bool {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return !color.NoColor
	}
}
