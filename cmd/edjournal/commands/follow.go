package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/edrh-tools/edjournal/internal/journal"
	"github.com/edrh-tools/edjournal/internal/utils/logger"
	ejerrors "github.com/edrh-tools/edjournal/pkg/errors"
)

var (
	followFile      string
	followFromStart bool
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Stream raw lines from the active journal file",
	Long: `Resolve the newest journal file and stream its raw lines to stdout as
they are written. Unlike monitor, this follows a single file; restart it
after the game rotates to a new journal.`,
	RunE: runFollow,
}

func init() {
	followCmd.Flags().StringVarP(&followFile, "file", "f", "",
		"Journal file to follow (default: newest in the journal directory)")
	followCmd.Flags().BoolVar(&followFromStart, "from-start", false,
		"Print the whole file before following new lines")
	RootCmd.AddCommand(followCmd)
}

func runFollow(cmd *cobra.Command, args []string) error {
	log := logger.Get(cmd.Context())

	path := followFile
	if path == "" {
		dir, err := resolveJournalDir()
		if err != nil {
			return err
		}
		ref, ok := journal.Latest(dir)
		if !ok {
			return fmt.Errorf("%w in %s", ejerrors.ErrNoJournals, dir)
		}
		path = ref.Path
	}

	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	}
	if !followFromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: 2}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return ejerrors.NewJournalError(path, err)
	}
	log.Infof("following %s", path)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigCh:
			t.Stop()
			t.Cleanup()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				log.Warnf("read error: %v", line.Err)
				continue
			}
			fmt.Println(line.Text)
		}
	}
}
