package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edrh-tools/edjournal/internal/config"
	"github.com/edrh-tools/edjournal/internal/utils/logger"
)

var (
	configPath string
	journalDir string

	cfgManager *config.Manager
)

var RootCmd = &cobra.Command{
	Use:   "edjournal",
	Short: "Tail and decode Elite Dangerous journal files",
	Long: `edjournal watches an Elite Dangerous journal directory, follows the
newest journal file across rotations, and maintains the current commander
and star system derived from the event stream.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgManager = config.NewManager(configPath)
		if err := cfgManager.Load(); err != nil {
			return fmt.Errorf("load config %s: %w", cfgManager.Path(), err)
		}

		cfg := cfgManager.Get()
		logger.Init(cfg.Logging)

		ctx := logger.WithContext(cmd.Context(), logger.Get(nil))
		cmd.SetContext(ctx)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to configuration file (default: per-user config dir)")
	RootCmd.PersistentFlags().StringVarP(&journalDir, "dir", "d", "",
		"Journal directory (overrides config and auto-detection)")
}

// resolveJournalDir picks the journal directory from the flag, the config,
// or auto-detection, in that order.
func resolveJournalDir() (string, error) {
	if journalDir != "" {
		return journalDir, nil
	}
	cfg := cfgManager.Get()
	if cfg.JournalDir != "" {
		return cfg.JournalDir, nil
	}
	if dir := config.DetectJournalDir(); dir != "" {
		return dir, nil
	}
	return "", fmt.Errorf("no journal directory configured and none auto-detected; use --dir")
}
