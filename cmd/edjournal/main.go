package main

import (
	"os"

	"github.com/edrh-tools/edjournal/cmd/edjournal/commands"
	"github.com/edrh-tools/edjournal/internal/utils/logger"
)

func main() {
	defer logger.Sync()

	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
