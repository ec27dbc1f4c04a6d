// Package streams implements the Subscription Scheduler: a sibling of the
// metadata manager that owns one background worker per subscription,
// continuously draining its topic on the owning cluster.
package streams

import (
	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/domain/subscription"
	"github.com/seekr-io/seekr/internal/shutdown"
)

// Worker is a single subscription's background consume loop. Run blocks
// until the worker's latch begins, at which point it must stop promptly
// and call latch.Complete() before returning. The worker's internal
// message handling is not otherwise constrained by callers.
type Worker interface {
	Run()
	Latch() *shutdown.Latch
}

// Factory builds a Worker for a given cluster/subscription pair. Defined
// here so the Scheduler can be tested without a live Kafka broker.
type Factory func(c *cluster.Cluster, s *subscription.Subscription) (Worker, error)
