package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sidejit/jitd/pkg/cmd/server"
)

// serveAPICmd represents the serve api command
var serveAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the JIT enablement API",
	Run:   server.RunServeAPI(c),
}

func init() {
	serveCmd.AddCommand(serveAPICmd)
}
