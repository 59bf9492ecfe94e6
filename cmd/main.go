package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/certledger/internal/api/admin"
	"github.com/dtroode/certledger/internal/api/grpc/handler"
	"github.com/dtroode/certledger/internal/api/grpc/router"
	"github.com/dtroode/certledger/internal/config"
	"github.com/dtroode/certledger/internal/events"
	"github.com/dtroode/certledger/internal/logger"
	"github.com/dtroode/certledger/internal/metrics"
	"github.com/dtroode/certledger/internal/model"
	"github.com/dtroode/certledger/internal/server"
	"github.com/dtroode/certledger/internal/service"
	"github.com/dtroode/certledger/internal/storage"
	"github.com/dtroode/certledger/internal/tracing"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig(".env")
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	logAppVersion()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize store", "backend", cfg.Store.Backend, "error", err)
	}
	defer backend.Close()
	logger.Info("store ready", "backend", backend.Name)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	publisher, closePublisher := newPublisher(cfg.Kafka, logger)
	defer closePublisher()

	tracerProvider, err := tracing.NewProvider(ctx, cfg.Tracing, os.Stdout)
	if err != nil {
		logger.Fatal("failed to initialize tracing", "exporter", cfg.Tracing.Exporter, "error", err)
	}
	otel.SetTracerProvider(tracerProvider)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to flush spans", "error", err)
		}
	}()

	accounts := service.NewAccount(backend.Store, logger)
	courses := service.NewCourse(backend.Store, accounts, logger)
	certificates := service.NewCertificate(backend.Store, logger)
	issuance := service.NewIssuance(courses, accounts, certificates, publisher, m, tracerProvider, logger)

	ledger := handler.NewLedger(accounts, courses, certificates, issuance, m, logger)
	grpcServer := server.NewGRPCServer(router.New(ledger, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port))
	httpServer := server.NewHTTPServer(admin.New(backend.Store, registry, logger).Router(), cfg.HTTP.Addr)

	grpcSecurity := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	plain := server.NewPlainListener()

	g, gCtx := errgroup.WithContext(ctx)
	start := func(s model.Server, securityLayer model.SecurityLayer, name string) {
		g.Go(func() error {
			logger.Info("starting server", "server", name, "address", s.Address())
			if err := s.Start(securityLayer); err != nil {
				return fmt.Errorf("%s server: %w", name, err)
			}
			return nil
		})
	}
	start(grpcServer, grpcSecurity, "grpc")
	start(httpServer, plain, "http")

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			grpcServer.Stop(shutdownCtx),
			httpServer.Stop(shutdownCtx),
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", "error", err)
	}
	logger.Info("shutdown complete")
}

func newPublisher(cfg config.Kafka, logger *logger.Logger) (model.EventPublisher, func()) {
	if len(cfg.Brokers) == 0 {
		logger.Info("no kafka brokers configured, certificate events are dropped")
		return events.Noop{}, func() {}
	}

	publisher, err := events.NewKafka(cfg.Brokers, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to create kafka publisher", "error", err)
	}
	logger.Info("publishing certificate events", "topic", cfg.Topic)
	return publisher, publisher.Close
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
