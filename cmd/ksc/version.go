package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ksc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the ksc build fingerprint",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
