package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s (%s, %s)\n", c.BuildVersion, c.BuildHash, c.BuildTime)
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
