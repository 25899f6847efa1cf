package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/costwatch/costwatch/pkg/metrics"
	"github.com/costwatch/costwatch/pkg/server"
	"github.com/costwatch/costwatch/pkg/services/collectors"
	"github.com/costwatch/costwatch/pkg/services/config"
	awsinventory "github.com/costwatch/costwatch/pkg/services/inventory/aws"
	"github.com/costwatch/costwatch/pkg/services/pricing"
	"github.com/costwatch/costwatch/pkg/services/scan"
	"github.com/costwatch/costwatch/pkg/store/costdb"
	"github.com/costwatch/costwatch/pkg/store/costdb/monthly"
	"github.com/costwatch/costwatch/pkg/store/costdb/snapshot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the CostWatch web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file (default is ./costwatch.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
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
	scan.NewScheduler(orchestrator, cfg.Scan.Interval, logger).Start(ctx)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Snapshots: snapshotStore,
			Monthly:   monthlyStore,
			Scanner:   orchestrator,
		},
	})

	return api.Start()
}
