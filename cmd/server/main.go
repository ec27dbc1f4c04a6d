// Command server runs the control-plane HTTP API: cluster and subscription
// CRUD plus the Metadata Manager that keeps every registered cluster's
// metadata cache warm.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/seekr-io/seekr/internal/config"
	"github.com/seekr-io/seekr/internal/idgen"
	httpserver "github.com/seekr-io/seekr/internal/interfaces/http"
	"github.com/seekr-io/seekr/internal/interfaces/http/handlers"
	"github.com/seekr-io/seekr/internal/metadata"
	"github.com/seekr-io/seekr/internal/metadata/manager"
	"github.com/seekr-io/seekr/internal/platform/logging"
	"github.com/seekr-io/seekr/internal/platform/metrics"
	"github.com/seekr-io/seekr/internal/store/postgres"
)

const (
	defaultConfigPath = "configs/config.yaml"
	bootTimeout       = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	host := flag.String("host", "", "HTTP listen host (overrides config)")
	port := flag.Int("port", 0, "HTTP listen port (overrides config)")
	logLevel := flag.String("log", "", "log level: trace|debug|info|warn|error (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	applyOverrides(cfg, *host, *port, *logLevel)

	logger, err := logging.NewLogger(logging.Config{Level: cfg.Server.Log, Format: "json"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger.Info("starting seekr control plane",
		logging.String("host", cfg.Server.Host), logging.Int("port", cfg.Server.Port))

	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	pool, err := postgres.NewPool(ctx, databaseURL(cfg), int32(cfg.Database.MaxConns))
	cancel()
	if err != nil {
		logger.Error("failed to open database pool", logging.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	migrationsPath := cfg.Database.MigrationPath
	if migrationsPath == "" {
		migrationsPath = "file://internal/store/postgres/migrations"
	}
	if err := postgres.RunMigrations(databaseURL(cfg), migrationsPath); err != nil {
		logger.Error("failed to run migrations", logging.Err(err))
		os.Exit(1)
	}

	ids, err := idgen.New(0, 0)
	if err != nil {
		logger.Error("failed to construct id generator", logging.Err(err))
		os.Exit(1)
	}

	clusterStore := postgres.NewClusterStore(pool, ids)
	subscriptionStore := postgres.NewSubscriptionStore(pool, ids)

	metricsCollector := metrics.NewCollector()
	mgr := manager.New(clusterStore, metadata.NewSaramaFetcher,
		manager.WithLogger(logger.Named("metadata.manager")),
		manager.WithMetrics(metrics.NewManagerMetrics(metricsCollector)))

	bootCtx, bootCancel := context.WithTimeout(context.Background(), bootTimeout)
	defer bootCancel()
	if err := mgr.Start(bootCtx); err != nil {
		logger.Error("failed to start metadata manager", logging.Err(err))
		os.Exit(1)
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ClusterHandler:      handlers.NewClusterHandler(clusterStore, mgr),
		SubscriptionHandler: handlers.NewSubscriptionHandler(clusterStore, subscriptionStore),
		HealthHandler:       handlers.NewHealthHandler(),
		Logger:              logger,
		MetricsHandler:      metricsCollector.Handler(),
	})

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, router, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveCtx, serveCancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start(serveCtx) }()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", logging.String("signal", sig.String()))
		serveCancel()
		if err := <-serveErr; err != nil {
			logger.Error("http server shutdown error", logging.Err(err))
		}
	case err := <-serveErr:
		serveCancel()
		if err != nil {
			logger.Error("http server exited unexpectedly", logging.Err(err))
			mgr.Stop()
			os.Exit(1)
		}
	}

	mgr.Stop()
	logger.Info("seekr control plane stopped")
}

// applyOverrides layers --host/--port/--log flag values over cfg, matching
// the documented precedence: SEEKER_HOST/SEEKER_PORT/SEEKER_LOG and their
// equivalent flags always win over whatever the config file set.
func applyOverrides(cfg *config.Config, host string, port int, logLevel string) {
	if v, ok := os.LookupEnv("SEEKER_HOST"); ok && host == "" {
		host = v
	}
	if v, ok := os.LookupEnv("SEEKER_PORT"); ok && port == 0 {
		if parsed, err := strconv.Atoi(v); err == nil {
			port = parsed
		}
	}
	if v, ok := os.LookupEnv("SEEKER_LOG"); ok && logLevel == "" {
		logLevel = v
	}

	if host != "" {
		cfg.Server.Host = host
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if logLevel != "" {
		cfg.Server.Log = logLevel
	}
	config.ApplyDefaults(cfg)
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return config.Load(path)
}

func databaseURL(cfg *config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User, cfg.Database.Password,
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.DBName, cfg.Database.SSLMode)
}
