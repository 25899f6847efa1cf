package commands

import (
	"fmt"
	"time"

	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/store/costdb/monthly"
	"github.com/spf13/cobra"
)

// MonthReporter renders one monthly summary. Satisfied by
// *terminal.Reporter.
type MonthReporter interface {
	Handle(summary *domain.MonthlySummary) error
}

type MonthCmd struct {
	yearMonth string
	monthly   monthly.Store
	reporter  MonthReporter
}

func NewMonthCmd(store monthly.Store, reporter MonthReporter) *cobra.Command {
	mc := &MonthCmd{monthly: store, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print a month-to-date cost summary",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.yearMonth, "month", "", "Month to print as YYYY-MM (default is the current month)")

	return cmd
}

func (mc *MonthCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	yearMonth := mc.yearMonth
	if yearMonth == "" {
		yearMonth = time.Now().UTC().Format("2006-01")
	}

	summary, err := mc.monthly.GetMonth(ctx, yearMonth)
	if err != nil {
		return fmt.Errorf("failed to load monthly summary: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "No data recorded for %s yet.\n", yearMonth)
		return nil
	}

	return mc.reporter.Handle(summary)
}
