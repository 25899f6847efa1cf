package terminal

import (
	"io"
	"os"

	"github.com/costwatch/costwatch/pkg/runtime/terminal/commands"
	"github.com/costwatch/costwatch/pkg/runtime/terminal/export"
	"github.com/costwatch/costwatch/pkg/store/costdb/monthly"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	snapshots snapshot.Store
	monthly   monthly.Store
	scanner   commands.Scanner
	reporter  *export.Reporter
	monthRep  *Reporter
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Snapshots snapshot.Store
	Monthly   monthly.Store
	Scanner   commands.Scanner
	Output    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		snapshots: opts.Snapshots,
		monthly:   opts.Monthly,
		scanner:   opts.Scanner,
		reporter:  export.NewReporter(opts.Output),
		monthRep:  NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "costwatch",
		Short: "Cloud cost monitoring tool",
	}

	cmd.AddCommand(commands.NewScanCmd(cli.scanner, cli.snapshots, cli.reporter))
	cmd.AddCommand(commands.NewSummaryCmd(cli.snapshots, cli.reporter))
	cmd.AddCommand(commands.NewMonthCmd(cli.monthly, cli.monthRep))

	return cmd
}
