package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
	"github.com/mohammed-shakir/resource-radius/internal/core/config"
	"github.com/mohammed-shakir/resource-radius/internal/core/httpclient"
	"github.com/mohammed-shakir/resource-radius/internal/core/observability"
	"github.com/mohammed-shakir/resource-radius/internal/core/server"
	"github.com/mohammed-shakir/resource-radius/internal/logger"
	"github.com/mohammed-shakir/resource-radius/internal/metrics"
	"github.com/mohammed-shakir/resource-radius/internal/proxy"
	"github.com/mohammed-shakir/resource-radius/internal/upstream"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.FromEnv()

	addrFlag := flag.String("addr", "", "listen address (overrides ADDR)")
	dataFlag := flag.String("data", "", "category data directory (overrides DATA_DIR)")
	flag.Parse()
	if *addrFlag != "" {
		cfg.Addr = strings.TrimSpace(*addrFlag)
	}
	if *dataFlag != "" {
		cfg.DataDir = strings.TrimSpace(*dataFlag)
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Service:   "resource-radius",
		Component: "proxy",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	observability.ExposeBuildInfo(Version)
	appLog.Info("starting proxy",
		"addr", cfg.Addr,
		"version", Version,
		"geocode_url", cfg.GeocodeURL,
		"isochrone_url", cfg.IsochroneURL,
		"data_dir", cfg.DataDir,
		"upstream_timeout", cfg.UpstreamTimeout,
		"upstream_retries", cfg.UpstreamRetries)

	if ready, missing := cfg.Readiness(); !ready {
		appLog.Warn("provider api keys missing; upstream calls will fail", "missing", missing)
	}

	httpClient := httpclient.NewOutbound(cfg.UpstreamTimeout)

	geo, err := upstream.NewGeocoder(appLog, httpClient, cfg.GeocodeURL, cfg.GeocodeAPIKey,
		upstream.WithRetries(cfg.UpstreamRetries))
	if err != nil {
		appLog.Error("failed to initialize geocoder", "err", err)
		return 1
	}
	iso, err := upstream.NewIsochroner(appLog, httpClient, cfg.IsochroneURL, cfg.IsochroneAPIKey,
		upstream.WithRetries(cfg.UpstreamRetries))
	if err != nil {
		appLog.Error("failed to initialize isochrone client", "err", err)
		return 1
	}

	data := os.DirFS(cfg.DataDir)
	svc := proxy.New(appLog, geo, iso)
	handlers := server.Handlers{
		Isochrone: svc,
		Resources: proxy.NewComposer(appLog, svc, catalog.NewDatasets(appLog, data, cfg.DatasetCacheSize)),
		Data:      data,
		Ready:     cfg,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		p := metrics.Init(metrics.Config{
			Addr: cfg.Metrics.Addr,
			Path: cfg.Metrics.Path,
			Build: metrics.BuildInfo{
				Version:   Version,
				Revision:  os.Getenv("BUILD_REVISION"),
				BuildDate: os.Getenv("BUILD_DATE"),
			},
		}, observability.Collectors()...)
		go func() {
			if err := p.Serve(ctx, appLog); err != nil {
				appLog.Error("metrics server exited", "err", err)
			}
		}()
	}

	if err := server.Run(ctx, cfg, appLog, handlers); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
