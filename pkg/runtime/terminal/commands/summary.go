package commands

import (
	"fmt"

	"github.com/costwatch/costwatch/pkg/runtime/terminal/export"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/spf13/cobra"
)

type SummaryCmd struct {
	snapshots snapshot.Store
	reporter  *export.Reporter
}

func NewSummaryCmd(snapshots snapshot.Store, reporter *export.Reporter) *cobra.Command {
	sc := &SummaryCmd{snapshots: snapshots, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the latest recorded cost snapshot",
		RunE:  sc.run,
	}

	return cmd
}

func (sc *SummaryCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	summary, err := sc.snapshots.GetLatestSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot summary: %w", err)
	}
	if summary == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet. Run `costwatch scan` first.")
		return nil
	}

	records, err := sc.snapshots.GetResources(ctx, summary.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to load snapshot resources: %w", err)
	}

	return sc.reporter.Handle(summary, records)
}
