package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fixgw/api/grpcserver"
	"fixgw/engine"
	"fixgw/infra/config"
	"fixgw/infra/logging"
	"fixgw/infra/metrics"
	"fixgw/infra/streams"
	"fixgw/jobs/archiver"
	"fixgw/jobs/broadcaster"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults and FIXGW_* env apply without one)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New("info").Fatal("config load failed", zap.Error(err))
	}
	logger := logging.New(cfg.Log.Level)
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	m := metrics.NewEngine(reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- Relief valve ----------------

	var valve streams.ReliefValve
	var bcast *broadcaster.Broadcaster
	if cfg.Kafka.Enabled {
		bcast, err = broadcaster.New(cfg.Kafka.Brokers, cfg.Kafka.ReliefTopic, m, logger.Named("broadcaster"))
		if err != nil {
			logger.Fatal("broadcaster init failed", zap.Error(err))
		}
		valve = bcast
	}

	// ---------------- Engine ----------------

	eng, err := engine.Launch(cfg, engine.Options{
		Logger:  logger,
		Metrics: m,
		Valve:   valve,
	})
	if err != nil {
		logger.Fatal("engine launch failed", zap.Error(err))
	}

	// ---------------- Admin API ----------------

	adminLis, err := net.Listen("tcp", cfg.Engine.AdminAddress)
	if err != nil {
		logger.Fatal("admin bind failed", zap.Error(err))
	}
	adminSrv := grpcserver.NewServer(eng, logger.Named("admin")).Serve(adminLis)

	// ---------------- Metrics ----------------

	var metricsSrv *http.Server
	if cfg.Engine.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{Addr: cfg.Engine.MetricsAddress, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// ---------------- Background jobs ----------------

	var bcastDone, archDone <-chan struct{}
	if bcast != nil {
		bcastDone = bcast.Start(ctx)
	}
	if cfg.Kafka.Enabled {
		arch, err := archiver.New(
			cfg.Kafka.Brokers,
			cfg.Kafka.ArchiveTopic,
			eng.StreamDir(streams.InboundData),
			eng.StreamDir(streams.OutboundData),
			logger.Named("archiver"),
		)
		if err != nil {
			logger.Fatal("archiver init failed", zap.Error(err))
		}
		archDone = arch.Start(ctx)
	}

	logger.Info("gateway running",
		zap.String("fix", cfg.Engine.BindAddress),
		zap.String("admin", cfg.Engine.AdminAddress))

	<-ctx.Done()
	logger.Info("shutting down")

	adminSrv.GracefulStop()
	_ = eng.Close()
	if archDone != nil {
		<-archDone
	}
	if bcastDone != nil {
		<-bcastDone
		_ = bcast.Close()
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(context.Background())
	}
}
