package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edrh-tools/edjournal/internal/journal"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Analyze the journal directory",
	Long: `One-shot scan of the journal directory: how many journal files exist,
which is the newest, and which commander names appear across them.`,
	RunE: runScan,
}

func init() {
	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	dir, err := resolveJournalDir()
	if err != nil {
		return err
	}

	sum := journal.Summarize(dir)

	fmt.Printf("Directory:  %s\n", sum.Dir)
	fmt.Printf("Journals:   %d\n", sum.JournalCount)
	if sum.Latest != nil {
		fmt.Printf("Newest:     %s (%s)\n", sum.Latest.Path, sum.Latest.Stamp.Format("2006-01-02 15:04:05"))
	}
	if len(sum.Commanders) > 0 {
		fmt.Printf("Commanders: %s\n", strings.Join(sum.Commanders, ", "))
	} else {
		fmt.Println("Commanders: none found")
	}
	return nil
}
