package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/labaccess/internal/buildinfo"
	"github.com/dmitrijs2005/labaccess/internal/client/cli"
	"github.com/dmitrijs2005/labaccess/internal/client/config"
	"github.com/dmitrijs2005/labaccess/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "generator stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
