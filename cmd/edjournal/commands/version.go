package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edrh-tools/edjournal/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("edjournal %s\n", version.String())
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
