// Package manager implements the Metadata Manager: a lifecycle-managed
// registry of per-cluster pollers that mirror each cluster's live metadata
// into a cache readable by concurrent HTTP requests. It is the control
// plane's core component; see internal/metadata for the Fetcher capability
// it polls and the cache entry shape it maintains.
package manager

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/metadata"
	"github.com/seekr-io/seekr/internal/platform/logging"
	"github.com/seekr-io/seekr/internal/shutdown"
	"github.com/seekr-io/seekr/internal/store"
)

const defaultPollIntervalMillis = 30000

// Metrics is the subset of internal/platform/metrics the manager reports
// poll outcomes to. Defined here (rather than importing the metrics package
// directly) so the manager can be unit tested without a Prometheus
// registry; NopMetrics below is the zero-dependency default.
type Metrics interface {
	ObservePollSuccess(clusterID int64, duration time.Duration)
	ObservePollFailure(clusterID int64, duration time.Duration)
	SetCacheSize(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObservePollSuccess(int64, time.Duration) {}
func (nopMetrics) ObservePollFailure(int64, time.Duration) {}
func (nopMetrics) SetCacheSize(int)                        {}

// NopMetrics is a Metrics implementation that discards every observation.
var NopMetrics Metrics = nopMetrics{}

// consumerContext ties a cluster's Fetcher to the latch that signals its
// poller to stop. Shared by the control path (Register/Remove) and the
// background poller; the poller treats it as read-only after creation.
type consumerContext struct {
	fetcher metadata.Fetcher
	latch   *shutdown.Latch
}

type state struct {
	context map[int64]*consumerContext
	cache   map[int64]metadata.CachedMetadataEntry
}

// Manager owns every per-cluster poller and the cache their results are
// published into. A single RWMutex protects both the context map and the
// cache so registration/removal (writers) and HTTP reads (readers) stay
// internally consistent without readers ever blocking on network I/O.
type Manager struct {
	store   store.ClusterStore
	factory metadata.FetcherFactory
	logger  logging.Logger
	metrics Metrics

	mu    sync.RWMutex
	state state
}

// Option configures optional Manager dependencies.
type Option func(*Manager)

// WithLogger overrides the manager's logger (default: logging.Default()).
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithMetrics overrides the manager's Metrics sink (default: NopMetrics).
func WithMetrics(metrics Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// New constructs a Manager backed by the given ClusterStore and Fetcher
// factory. No pollers are running until Start or Register is called.
func New(s store.ClusterStore, factory metadata.FetcherFactory, opts ...Option) *Manager {
	m := &Manager{
		store:   s,
		factory: factory,
		logger:  logging.Default().Named("metadata.manager"),
		metrics: NopMetrics,
		state: state{
			context: make(map[int64]*consumerContext),
			cache:   make(map[int64]metadata.CachedMetadataEntry),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start loads every cluster from the store and registers a poller for each.
// It is called once at process boot; a store error is fatal since the
// control plane cannot serve without its registry.
func (m *Manager) Start(ctx context.Context) error {
	clusters, err := m.store.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("manager: start: list clusters: %w", err)
	}

	m.logger.Info("starting metadata manager", logging.Int("clusters", len(clusters)))
	for _, c := range clusters {
		if err := m.Register(c); err != nil {
			m.logger.Warn("failed to register cluster at boot",
				logging.Int64("cluster_id", c.ID), logging.Err(err))
		}
	}
	return nil
}

// Register installs a poller for c if one is not already running.
// Idempotent: if c.ID already has a context, this logs and returns success
// without disturbing the existing poller or cache entry. On fetcher
// construction failure the cache is left untouched and the error returned.
func (m *Manager) Register(c *cluster.Cluster) error {
	m.mu.Lock()
	if _, exists := m.state.context[c.ID]; exists {
		m.mu.Unlock()
		m.logger.Warn("metadata consumer already registered", logging.Int64("cluster_id", c.ID))
		return nil
	}
	m.mu.Unlock()

	fetcher, err := m.factory(c)
	if err != nil {
		return fmt.Errorf("manager: register cluster %d: build fetcher: %w", c.ID, err)
	}

	latch := shutdown.New()
	ctxEntry := &consumerContext{fetcher: fetcher, latch: latch}

	m.mu.Lock()
	if _, exists := m.state.context[c.ID]; exists {
		// Lost a race with a concurrent Register for the same id.
		m.mu.Unlock()
		_ = fetcher.Close()
		return nil
	}
	m.state.context[c.ID] = ctxEntry
	m.state.cache[c.ID] = metadata.NewProcessing()
	cacheSize := len(m.state.cache)
	m.mu.Unlock()

	m.metrics.SetCacheSize(cacheSize)
	m.logger.Info("registered metadata consumer", logging.Int64("cluster_id", c.ID))

	go m.poll(c, ctxEntry)
	return nil
}

// Remove stops the poller for id, if any, and clears its cache entry. It
// does not wait for the poller to observe the signal; the poller notices on
// its next select iteration. Safe to call more than once for the same id.
func (m *Manager) Remove(id int64) {
	m.mu.Lock()
	ctxEntry, exists := m.state.context[id]
	delete(m.state.context, id)
	delete(m.state.cache, id)
	cacheSize := len(m.state.cache)
	m.mu.Unlock()

	m.metrics.SetCacheSize(cacheSize)

	if !exists {
		return
	}
	m.logger.Info("removing metadata consumer", logging.Int64("cluster_id", id))
	ctxEntry.latch.Begin()
}

// Get returns the cached entry for id, or false if no context exists for
// it (the Unknown variant by contract).
func (m *Manager) Get(id int64) (metadata.CachedMetadataEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.state.cache[id]
	return entry, ok
}

// Stop begins every live poller's latch and waits for each to complete.
// Safe to call at most once per process; after it returns, no poller is
// live. Pollers react at their next select boundary, so Stop is bounded in
// wall time by the slowest in-flight fetch across all pollers.
func (m *Manager) Stop() {
	m.mu.RLock()
	group := shutdown.NewGroup()
	for id, ctxEntry := range m.state.context {
		group.Add(strconv.FormatInt(id, 10), ctxEntry.latch)
	}
	m.mu.RUnlock()

	m.logger.Info("stopping metadata manager", logging.Int("pollers", group.Len()))
	group.Shutdown()
	m.logger.Info("metadata manager stopped")
}

// pollInterval resolves a cluster's configured poll cadence, falling back
// to the documented default on a missing or unparsable value.
func pollInterval(c *cluster.Cluster) time.Duration {
	raw := c.ConfigValue(cluster.ConfigMetadataPollInterval, cluster.DefaultMetadataPollInterval)
	millis, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		millis = defaultPollIntervalMillis
	}
	return time.Duration(millis) * time.Millisecond
}

// poll is the per-cluster background loop: it fetches on a timer that fires
// immediately on registration and thereafter at the configured cadence,
// publishing each result into the cache, until the context's latch begins.
func (m *Manager) poll(c *cluster.Cluster, ctxEntry *consumerContext) {
	refresh := pollInterval(c)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			start := time.Now()
			fetchCtx, cancel := context.WithTimeout(context.Background(), metadata.FetchTimeout)
			result, err := ctxEntry.fetcher.Fetch(fetchCtx)
			cancel()
			elapsed := time.Since(start)

			if err != nil {
				reason := fmt.Sprintf("metadata fetch failed for cluster %d: %v", c.ID, err)
				m.logger.Error("poll failed", logging.Int64("cluster_id", c.ID), logging.Err(err))
				m.applyResult(c.ID, metadata.NewFailed(reason))
				m.metrics.ObservePollFailure(c.ID, elapsed)
			} else {
				m.logger.Debug("poll succeeded", logging.Int64("cluster_id", c.ID),
					logging.Int("topics", len(result.Topics)))
				m.applyResult(c.ID, metadata.NewMeta(result))
				m.metrics.ObservePollSuccess(c.ID, elapsed)
			}

			// Coalesce a missed tick: if the fetch outran refresh, the timer
			// already fired zero times while we were blocked, so restart at
			// the full interval rather than accumulating backlog.
			timer.Reset(refresh)

		case <-ctxEntry.latch.WaitBegin():
			m.logger.Debug("poll shutdown started", logging.Int64("cluster_id", c.ID))
			_ = ctxEntry.fetcher.Close()
			ctxEntry.latch.Complete()
			return
		}
	}
}

func (m *Manager) applyResult(id int64, entry metadata.CachedMetadataEntry) {
	m.mu.Lock()
	// Only write if the context is still live: a concurrent Remove may have
	// already torn this id down, and we must not resurrect its cache entry.
	if _, exists := m.state.context[id]; exists {
		m.state.cache[id] = entry
	}
	m.mu.Unlock()
}
