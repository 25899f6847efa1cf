package main

import (
	"context"
	"fmt"
	"os"

	"github.com/costwatch/costwatch/pkg/metrics"
	"github.com/costwatch/costwatch/pkg/runtime/terminal"
	"github.com/costwatch/costwatch/pkg/services/collectors"
	"github.com/costwatch/costwatch/pkg/services/config"
	awsinventory "github.com/costwatch/costwatch/pkg/services/inventory/aws"
	"github.com/costwatch/costwatch/pkg/services/pricing"
	"github.com/costwatch/costwatch/pkg/services/scan"
	"github.com/costwatch/costwatch/pkg/store/costdb"
	"github.com/costwatch/costwatch/pkg/store/costdb/monthly"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Keep structured logs off the report output.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load(os.Getenv("COSTWATCH_CONFIG"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	metrics.Init()

	db, err := costdb.NewDB(costdb.Settings{
		DbPath: cfg.Database.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	snapshotStore, err := snapshot.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}
	monthlyStore, err := monthly.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create monthly store: %w", err)
	}

	awsCfg, err := awsinventory.LoadConfig(ctx, cfg.AWS.Profile)
	if err != nil {
		return fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	resolver := pricing.NewResolver(awsinventory.NewPriceList(*awsCfg), logger, pricing.Options{
		CacheTTL:          cfg.Pricing.CacheTTL,
		MessagingFreeTier: cfg.Pricing.MessagingFreeTier,
	})

	cloudwatch := awsinventory.NewCloudWatch(*awsCfg)
	compute := awsinventory.NewCompute(*awsCfg)
	edge := awsinventory.NewEdge(*awsCfg)
	regions := cfg.AWS.Regions

	cs := []collectors.Collector{
		collectors.NewCompute(compute, cloudwatch, resolver, regions),
		collectors.NewDatabase(awsinventory.NewDatabase(*awsCfg), resolver, regions),
		collectors.NewBlockStorage(compute, resolver, regions),
		collectors.NewObjectStorage(awsinventory.NewObjectStorage(*awsCfg, cloudwatch), resolver),
		collectors.NewLoadBalancer(awsinventory.NewNetwork(*awsCfg), regions),
		collectors.NewFunctions(awsinventory.NewServerless(*awsCfg, cloudwatch), regions),
		collectors.NewCDN(edge),
		collectors.NewDNS(edge),
		collectors.NewPublicIP(compute, regions),
		collectors.NewNATGateway(compute, cloudwatch, regions),
		collectors.NewVPCEndpoint(compute, cloudwatch, regions),
		collectors.NewMessaging(awsinventory.NewMessaging(*awsCfg), resolver, regions),
	}

	orchestrator := scan.NewOrchestrator(cs, snapshotStore, monthlyStore, resolver, logger, scan.Options{
		Workers: cfg.Scan.Workers,
		Timeout: cfg.Scan.Timeout,
	})

	cli := terminal.NewCLI(terminal.Options{
		Snapshots: snapshotStore,
		Monthly:   monthlyStore,
		Scanner:   orchestrator,
		Output:    os.Stdout,
	})

	return cli.Execute()
}
