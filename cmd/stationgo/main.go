package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"

	"github.com/zachfi/zkit/pkg/tracing"

	"github.com/zachfi/stationgo/app"
)

const appName = "stationgo"

// Version is set via build flag -ldflags -X main.Version
var (
	Version  string
	Branch   string
	Revision string
)

func init() {
	version.Version = Version
	version.Branch = Branch
	version.Revision = Revision
	prometheus.MustRegister(version.NewCollector(appName))
}

func main() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := app.LoadConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Error("failed to load config file", "err", err)
		os.Exit(1)
	}

	l, err := cfg.SlogLevel()
	if err != nil {
		logger.Error("invalid log level", "err", err)
		os.Exit(1)
	}
	level.Set(l)

	shutdownTracer, err := tracing.InstallOpenTelemetryTracer(&cfg.Tracing, logger, appName, Version)
	if err != nil {
		logger.Error("error initialising tracer", "err", err)
		os.Exit(1)
	}
	defer shutdownTracer()

	a, err := app.New(*cfg, *logger)
	if err != nil {
		logger.Error("failed to create", "app", appName, "err", err)
		os.Exit(1)
	}

	if err := a.Run(context.Background()); err != nil {
		logger.Error("error running", "app", appName, "err", err)
		os.Exit(1)
	}
}
