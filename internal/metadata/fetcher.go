package metadata

import (
	"context"
	"time"

	"github.com/seekr-io/seekr/internal/domain/cluster"
)

// FetchTimeout bounds a single fetch() call: metadata describe plus group
// list must both complete within this deadline or the fetch is a failure.
const FetchTimeout = 15 * time.Second

// Fetcher is the per-cluster capability the Metadata Manager polls. A
// Fetcher is built once from a Cluster's configuration and is expected to
// hold a lazily-opened connection for its lifetime; Close releases it.
// A failed Fetch must not poison the Fetcher -- the next call retries on a
// fresh network attempt.
type Fetcher interface {
	// Fetch returns a fully populated, canonically sorted ClusterMetadata
	// snapshot, or an error if the underlying cluster could not be reached
	// or did not respond within FetchTimeout.
	Fetch(ctx context.Context) (ClusterMetadata, error)

	// Close releases the Fetcher's underlying connection. Safe to call
	// more than once.
	Close() error
}

// FetcherFactory builds a Fetcher from a cluster's persisted configuration.
// Kept as a function type (rather than a concrete constructor reference) so
// the Metadata Manager can be unit tested with a stub factory and never
// needs to import a Kafka client library directly.
type FetcherFactory func(c *cluster.Cluster) (Fetcher, error)
