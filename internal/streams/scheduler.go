package streams

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/platform/logging"
	"github.com/seekr-io/seekr/internal/shutdown"
	"github.com/seekr-io/seekr/internal/store"
)

// Scheduler owns one Worker per subscription. It has the same lifecycle
// shape as the metadata manager: a single bootstrap that loads every
// subscription and the clusters they reference, and a cooperative,
// bounded shutdown of every live worker.
type Scheduler struct {
	clusters      store.ClusterStore
	subscriptions store.SubscriptionStore
	factory       Factory
	logger        logging.Logger

	mu      sync.RWMutex
	workers map[int64]Worker
}

// Option configures optional Scheduler dependencies.
type Option func(*Scheduler)

// WithLogger overrides the scheduler's logger (default: logging.Default()).
func WithLogger(l logging.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New constructs a Scheduler. No workers run until Start is called.
func New(cs store.ClusterStore, ss store.SubscriptionStore, factory Factory, opts ...Option) *Scheduler {
	s := &Scheduler{
		clusters:      cs,
		subscriptions: ss,
		factory:       factory,
		logger:        logging.Default().Named("streams.scheduler"),
		workers:       make(map[int64]Worker),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads every subscription and the clusters they reference in a
// single batched lookup, then spawns one worker per subscription whose
// cluster resolved. A subscription referencing a missing cluster is
// skipped with a warning rather than failing the whole boot.
func (s *Scheduler) Start(ctx context.Context) error {
	subs, err := s.subscriptions.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("scheduler: start: list subscriptions: %w", err)
	}

	ids := make([]int64, 0, len(subs))
	seen := make(map[int64]struct{})
	for _, sub := range subs {
		if _, ok := seen[sub.ClusterID]; ok {
			continue
		}
		seen[sub.ClusterID] = struct{}{}
		ids = append(ids, sub.ClusterID)
	}

	clusters, err := s.clusters.List(ctx, ids)
	if err != nil {
		return fmt.Errorf("scheduler: start: list clusters: %w", err)
	}
	byID := make(map[int64]*cluster.Cluster, len(clusters))
	for _, c := range clusters {
		byID[c.ID] = c
	}

	s.logger.Info("starting streams scheduler", logging.Int("subscriptions", len(subs)))
	for _, sub := range subs {
		c, ok := byID[sub.ClusterID]
		if !ok {
			s.logger.Warn("subscription references unknown cluster, skipping",
				logging.Int64("subscription_id", sub.ID), logging.Int64("cluster_id", sub.ClusterID))
			continue
		}

		worker, err := s.factory(c, sub)
		if err != nil {
			s.logger.Warn("failed to build stream worker",
				logging.Int64("subscription_id", sub.ID), logging.Err(err))
			continue
		}

		s.mu.Lock()
		s.workers[sub.ID] = worker
		s.mu.Unlock()

		go worker.Run()
	}
	return nil
}

// Stop begins every live worker's latch and waits for each to complete,
// bounding total shutdown time by the slowest worker rather than the sum
// of all of them.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	group := shutdown.NewGroup()
	for id, w := range s.workers {
		group.Add(strconv.FormatInt(id, 10), w.Latch())
	}
	s.mu.RUnlock()

	s.logger.Info("stopping streams scheduler", logging.Int("workers", group.Len()))
	group.Shutdown()
	s.logger.Info("streams scheduler stopped")
}
