package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/config"
	"github.com/culturatoken/ctk-platform/internal/distributor"
	"github.com/culturatoken/ctk-platform/internal/logger"
	"github.com/culturatoken/ctk-platform/internal/notify"
	"github.com/culturatoken/ctk-platform/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadDistributorConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "distributor",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting royalty distributor")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}

	// Initialize store
	dataStore := store.NewPGStore(db, cfg.Ledger.Rates())

	// Connect to NATS JetStream when configured
	var publisher notify.Publisher = notify.NoopPublisher{}
	if cfg.NATS.URL != "" {
		publisher, err = notify.NewPublisher(notify.PublisherConfig{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: "culturatoken-distributor",
		}, adapter.NewNatsJetStream(), adapter.NewJSON())
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to NATS", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to NATS", zap.String("url", cfg.NATS.URL))
	} else {
		logger.WarnCtx(ctx, "NATS URL not configured, distribution events will not be published")
	}
	defer publisher.Close()

	// Initialize the revenue sweeper
	sweeper := distributor.NewSweeper(distributor.Config{
		SweepInterval: cfg.SweepInterval,
		PoolSize:      cfg.PoolSize,
		MaxRetryWait:  cfg.MaxRetryWait,
	}, dataStore, publisher, adapter.NewClock())

	logger.InfoCtx(ctx, "Initialized revenue sweeper",
		zap.Duration("sweep_interval", cfg.SweepInterval),
		zap.Int("pool_size", cfg.PoolSize),
	)

	// Run the sweeper until interrupted
	errCh := make(chan error, 1)
	go func() {
		errCh <- sweeper.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err, zap.String("component", "sweeper"))
		}
	}

	logger.Info("Royalty distributor stopped")
}
