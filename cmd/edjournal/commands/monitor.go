package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edrh-tools/edjournal/internal/filter"
	"github.com/edrh-tools/edjournal/internal/journal"
	"github.com/edrh-tools/edjournal/internal/metrics"
	"github.com/edrh-tools/edjournal/internal/statefile"
	"github.com/edrh-tools/edjournal/internal/utils/logger"
)

var metricsAddr string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the journal directory and print state changes",
	Long: `Run the ingestion engine against the journal directory. Each change to
the derived state (commander, star system, coordinates) is printed as it
happens. Configured filters additionally surface matching raw events.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"Expose Prometheus metrics on this address (overrides config)")
	RootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	log := logger.Get(cmd.Context())
	cfg := cfgManager.Get()

	dir, err := resolveJournalDir()
	if err != nil {
		return err
	}

	var filters filter.Set
	for _, fc := range cfg.Filters {
		f, err := filter.Compile(fc.Name, fc.When)
		if err != nil {
			return err
		}
		filters = append(filters, f)
	}

	opts := journal.Options{
		Dir:              dir,
		Interval:         cfg.PollInterval.Std(),
		Backoff:          cfg.Backoff.Std(),
		FailureWarnAfter: cfg.FailureWarnAfter,
		Logger:           log,
	}
	if cfg.StateFile != "" {
		opts.StateFile = statefile.New(cfg.StateFile)
	}
	mon := journal.NewMonitor(opts)

	mon.Subscribe(func(snap journal.Snapshot) {
		line := fmt.Sprintf("commander=%s system=%q version=%d", snap.Commander, snap.System, snap.Version)
		if snap.Coords != nil {
			line += fmt.Sprintf(" coords=[%.2f, %.2f, %.2f]", snap.Coords[0], snap.Coords[1], snap.Coords[2])
		}
		fmt.Println(line)
	}, func(rec journal.Record) {
		if len(filters) == 0 {
			return
		}
		if name, ok := filters.Match(rec); ok {
			fmt.Printf("[%s] %s\n", name, string(rec.Raw))
		}
	})

	var metricsSrv *metrics.Server
	addr := metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Listen
	}
	if addr != "" {
		metricsSrv = metrics.NewServer(addr)
		metricsSrv.Start()
		log.Infof("metrics listening on %s", addr)
	}

	mon.Start()
	log.Infof("monitoring %s (interval %s)", dir, opts.Interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Infof("shutting down")
	mon.Stop()
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = metricsSrv.Stop(ctx)
	}
	return nil
}
