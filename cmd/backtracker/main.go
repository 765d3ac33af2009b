package main

import (
	"context"
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

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/backtracking"
	"github.com/reef-chain/explorer-backtracker/internal/config"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/metrics"
	"github.com/reef-chain/explorer-backtracker/internal/providers/ethereum"
	"github.com/reef-chain/explorer-backtracker/internal/providers/jetstream"
	"github.com/reef-chain/explorer-backtracker/internal/providers/upstream"
	"github.com/reef-chain/explorer-backtracker/internal/store"
	"github.com/reef-chain/explorer-backtracker/internal/tracker"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadBacktrackerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		Service:         "backtracker",
		Network:         string(cfg.Network),
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting backtracker",
		zap.String("network", string(cfg.Network)),
		zap.String("source", cfg.Source),
	)

	// Initialize adapters
	clockAdapter := adapter.NewClock()
	httpClient := adapter.NewHTTPClient(cfg.Upstream.Timeout)

	// Initialize ethereum client. Head tracking needs a websocket endpoint.
	rpcURL := cfg.Ethereum.WebSocketURL
	if rpcURL == "" {
		rpcURL = cfg.Ethereum.RPCURL
	}
	adapterEthClient, err := adapter.NewEthClientDialer().Dial(ctx, rpcURL)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to dial Ethereum RPC", zap.Error(err), zap.String("rpc_url", rpcURL))
	}
	ethereumClient := ethereum.NewClient(adapterEthClient)
	defer ethereumClient.Close()

	// Initialize upstream GraphQL client
	upstreamClient, err := upstream.NewClient(upstream.Config{
		URL:       cfg.Upstream.GraphQLURL,
		JWTSecret: cfg.Upstream.JWTSecret,
	}, httpClient)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create upstream client", zap.Error(err))
	}
	repository := upstream.NewRepository(upstreamClient)

	// Select the queue source, the record sinks and the address resolver
	accountResolver := upstream.NewAccountResolver(upstreamClient, upstream.AccountCacheConfig{
		SizeMB:     cfg.AddressCache.SizeMB,
		TTL:        cfg.AddressCache.TTL,
		UnboundTTL: cfg.AddressCache.UnboundTTL,
	})
	var (
		source   backtracking.Source            = repository
		sink     backtracking.Sink              = repository
		resolver backtracking.AddressResolver   = accountResolver
		reporter tracker.FinalizedBlockReporter = repository
	)
	if cfg.Source == config.SourcePostgres {
		db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		if err != nil {
			logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
		}
		if err := store.ConfigureConnectionPool(db,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
			cfg.Database.ConnMaxLifetime,
			cfg.Database.ConnMaxIdleTime,
		); err != nil {
			logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
		}
		logger.InfoCtx(ctx, "Connected to database")

		dataStore := store.NewPGStore(db)
		source, sink, resolver, reporter = dataStore, dataStore, dataStore, dataStore
	}

	// Initialize retry policy
	var retry backtracking.RetryPolicy = backtracking.NewRetryForever()
	if cfg.Backtracking.Retry.Strategy == config.RetryStrategyExponential {
		retry = backtracking.NewExponentialRetry(backtracking.ExponentialRetryConfig{
			InitialInterval: cfg.Backtracking.Retry.InitialInterval,
			MaxInterval:     cfg.Backtracking.Retry.MaxInterval,
		})
	}

	// Initialize NATS publisher when configured
	var notifier backtracking.Notifier
	if cfg.NATS.URL != "" {
		natsPublisher, err := jetstream.NewPublisher(jetstream.Config{
			URL:            cfg.NATS.URL,
			SubjectPrefix:  cfg.NATS.SubjectPrefix,
			Network:        string(cfg.Network),
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), clockAdapter)
		if err != nil {
			logger.FatalCtx(ctx, "Failed to create NATS publisher", zap.Error(err), zap.String("url", cfg.NATS.URL))
		}
		defer natsPublisher.Close()
		notifier = natsPublisher
		logger.InfoCtx(ctx, "Connected to NATS JetStream")
	}

	// Start metrics endpoint
	pullService := metrics.NewPullService(cfg.Metrics.Address)
	pullService.Start()

	bt := backtracking.NewBacktracker(
		backtracking.Config{
			ChunkSize:    cfg.Backtracking.ChunkSize,
			MutationSize: cfg.Backtracking.MutationSize,
			QueueLimit:   cfg.Backtracking.QueueLimit,
			PollInterval: cfg.Backtracking.PollInterval,
		},
		source,
		sink,
		resolver,
		ethereumClient,
		retry,
		notifier,
		clockAdapter,
	)

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel for component errors
	errCh := make(chan error, 2)

	go func() {
		if err := bt.Start(ctx); err != nil {
			errCh <- fmt.Errorf("%s: %w", bt.Name(), err)
		}
	}()

	if cfg.TrackFinalizedBlocks {
		headTracker := tracker.New(ethereum.NewSubscriber(ethereumClient), reporter)
		go func() {
			if err := headTracker.Run(ctx); err != nil {
				errCh <- fmt.Errorf("tracker: %w", err)
			}
		}()
	}

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "backtracker"))
	}

	// Let the contract in progress finish before canceling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := bt.Stop(shutdownCtx); err != nil {
		logger.Error(err, zap.String("message", "Failed to stop backtracker gracefully"))
	}
	cancel()

	if err := pullService.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, zap.String("message", "Failed to stop metrics endpoint"))
	}

	// Use non-context logger for final shutdown message since context is already canceled
	logger.Info("Backtracker stopped")
}
