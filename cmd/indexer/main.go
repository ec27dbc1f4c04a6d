// Command indexer runs the background daemon that maintains one streams
// worker per registered subscription. It serves no public API beyond a
// health/metrics endpoint; the control plane's REST surface lives in
// cmd/server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/seekr-io/seekr/internal/config"
	"github.com/seekr-io/seekr/internal/idgen"
	"github.com/seekr-io/seekr/internal/platform/logging"
	"github.com/seekr-io/seekr/internal/platform/metrics"
	"github.com/seekr-io/seekr/internal/store/postgres"
	"github.com/seekr-io/seekr/internal/streams"
)

const (
	defaultConfigPath = "configs/config.yaml"
	defaultHealthPort = 8081
	bootTimeout       = 30 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	host := flag.String("host", "", "health server listen host (overrides config)")
	port := flag.Int("port", 0, "health server listen port (overrides config)")
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
	logger.Info("starting seekr indexer")

	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	pool, err := postgres.NewPool(ctx, databaseURL(cfg), int32(cfg.Database.MaxConns))
	cancel()
	if err != nil {
		logger.Error("failed to open database pool", logging.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	ids, err := idgen.New(0, 1)
	if err != nil {
		logger.Error("failed to construct id generator", logging.Err(err))
		os.Exit(1)
	}

	clusterStore := postgres.NewClusterStore(pool, ids)
	subscriptionStore := postgres.NewSubscriptionStore(pool, ids)

	scheduler := streams.New(clusterStore, subscriptionStore, streams.NewKafkaWorker,
		streams.WithLogger(logger.Named("streams.scheduler")))

	bootCtx, bootCancel := context.WithTimeout(context.Background(), bootTimeout)
	defer bootCancel()
	if err := scheduler.Start(bootCtx); err != nil {
		logger.Error("failed to start streams scheduler", logging.Err(err))
		os.Exit(1)
	}

	metricsCollector := metrics.NewCollector()
	healthSrv := startHealthServer(cfg, logger, metricsCollector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", logging.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}

	scheduler.Stop()
	logger.Info("seekr indexer stopped")
}

func startHealthServer(cfg *config.Config, logger logging.Logger, collector *metrics.Collector) *http.Server {
	port := cfg.Server.Port
	if port == 0 {
		port = defaultHealthPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, port),
		Handler: mux,
	}

	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()

	return srv
}

// applyOverrides layers --host/--port/--log flag values (and their
// SEEKER_HOST/SEEKER_PORT/SEEKER_LOG environment equivalents) over cfg.
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
