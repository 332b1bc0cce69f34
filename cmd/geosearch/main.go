package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/geosearch/internal/app"
	"github.com/mohammed-shakir/geosearch/internal/core/config"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/core/server"
	"github.com/mohammed-shakir/geosearch/internal/logger"
	"github.com/mohammed-shakir/geosearch/internal/metrics"
	"github.com/mohammed-shakir/geosearch/internal/sessions"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	envFile := flag.String("env", ".env", "optional dotenv file")
	addr := flag.String("addr", "", "listen address (overrides ADDR)")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	cfg := config.FromEnv()
	if *addr != "" {
		cfg.Addr = *addr
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		Component: "geosearch",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	p := metrics.Init(metrics.Config{
		Enabled: cfg.MetricsEnabled,
		Build: metrics.BuildInfo{
			Version:   Version,
			Revision:  os.Getenv("BUILD_REVISION"),
			BuildDate: os.Getenv("BUILD_DATE"),
		},
	})
	observability.Init(p.Registerer(), cfg.MetricsEnabled)
	observability.ExposeBuildInfo(Version)

	appLog.Info("starting geosearch",
		"addr", cfg.Addr,
		"version", Version,
		"overpass", cfg.OverpassURL,
		"nominatim", cfg.NominatimURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("setup failed", "err", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			appLog.Warn("shutdown", "err", err)
		}
	}()

	reg := sessions.New(appLog, a.Engine, cfg.SessionMax, cfg.SessionTTL)
	defer reg.Close()

	if err := server.Run(ctx, cfg, appLog, server.Deps{
		Searcher: a.Engine,
		Sessions: reg,
		Ready:    a.Ready,
		Metrics:  p,
	}); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
