package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/dmitrijs2005/autobody/internal/buildinfo"
	"github.com/dmitrijs2005/autobody/internal/client/archive"
	"github.com/dmitrijs2005/autobody/internal/client/cli"
	"github.com/dmitrijs2005/autobody/internal/client/config"
	"github.com/dmitrijs2005/autobody/internal/client/services"
	"github.com/dmitrijs2005/autobody/internal/client/store"
	"github.com/dmitrijs2005/autobody/internal/export"
	"github.com/dmitrijs2005/autobody/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig(os.Args[1:])

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := logging.NewConsoleLogger(os.Stderr, level)

	repos, err := store.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer repos.Close()

	apiClient, err := archive.New(cfg.ServerEndpointAddr)
	if err != nil {
		log.Fatalf("error creating archive client: %v", err)
	}
	defer apiClient.Close()

	pipeline := export.New(cfg.ExportConfig(), &export.FileDeliverer{Dir: cfg.OutputDir},
		export.WithLogger(logger.With("component", "export")))

	app := cli.NewApp(cfg, cli.Services{
		Customers: services.NewCustomerService(repos.Customers),
		Invoices:  services.NewInvoiceService(repos.DB, pipeline, cfg.DefaultTaxRate),
		Archive:   services.NewSyncService(apiClient, repos.Invoices, repos.Settings, logger.With("component", "sync")),
	}, logger)

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "client stopped", "error", err)
		os.Exit(1)
	}

}
