package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with the current git sha.
var Version = "dev"

var versionCmd = cobra.Command{
	Use: "version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}
