package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/runtime/terminal/export"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/spf13/cobra"
)

// Scanner runs one scan to completion. Satisfied by *scan.Orchestrator.
type Scanner interface {
	Run(ctx context.Context) (domain.ScanStatus, error)
}

type ScanCmd struct {
	timeout   time.Duration
	scanner   Scanner
	snapshots snapshot.Store
	reporter  *export.Reporter
}

func NewScanCmd(scanner Scanner, snapshots snapshot.Store, reporter *export.Reporter) *cobra.Command {
	sc := &ScanCmd{scanner: scanner, snapshots: snapshots, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan all configured regions and print the resulting snapshot",
		RunE:  sc.run,
	}

	cmd.Flags().DurationVar(&sc.timeout, "timeout", 10*time.Minute, "Maximum time to wait for the scan")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), sc.timeout)
	defer cancel()

	status, err := sc.scanner.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scan %s completed: %d resources in %s\n",
		status.RunID, status.ResourceCount, status.FinishedAt.Sub(status.StartedAt).Round(time.Second))

	summary, err := sc.snapshots.GetLatestSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot summary: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("scan recorded no snapshot")
	}

	records, err := sc.snapshots.GetResources(ctx, summary.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to load snapshot resources: %w", err)
	}

	return sc.reporter.Handle(summary, records)
}
