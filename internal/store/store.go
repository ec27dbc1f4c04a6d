// Package store defines the persistence contracts the Metadata Manager and
// Subscription Scheduler depend on. A single Postgres-backed implementation
// lives in internal/store/postgres; the interfaces exist so the core
// lifecycle logic never imports a database driver directly.
package store

import (
	"context"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/domain/subscription"
)

// ClusterStore persists Cluster records. Implementations must return a
// *pkg/errors.AppError with CodeClusterNotFound from Get when the id is
// absent, so callers can distinguish "not found" from a transport error.
type ClusterStore interface {
	// List returns clusters matching ids. A nil or empty ids restricts to
	// "all, capped at 100"; a non-empty ids restricts to exactly those
	// records (each absent id is simply omitted from the result).
	List(ctx context.Context, ids []int64) ([]*cluster.Cluster, error)

	// Get returns the cluster with the given id, or a CodeClusterNotFound
	// error if none exists.
	Get(ctx context.Context, id int64) (*cluster.Cluster, error)

	// Insert assigns a new id to c, persists it, and returns the id.
	Insert(ctx context.Context, c *cluster.Cluster) (int64, error)

	// Update persists changes to an existing cluster and returns its id.
	Update(ctx context.Context, c *cluster.Cluster) (int64, error)

	// Remove deletes the cluster with the given id and returns it.
	Remove(ctx context.Context, id int64) (int64, error)
}

// SubscriptionStore persists Subscription records.
type SubscriptionStore interface {
	// List returns subscriptions for clusterID, or every subscription when
	// clusterID is nil.
	List(ctx context.Context, clusterID *int64) ([]*subscription.Subscription, error)

	// Get returns the subscription identified by (clusterID, id), or a
	// CodeSubscriptionNotFound error if none exists.
	Get(ctx context.Context, clusterID, id int64) (*subscription.Subscription, error)

	// Insert assigns a new id to s, persists it, and returns the id.
	Insert(ctx context.Context, s *subscription.Subscription) (int64, error)

	// Update persists changes to an existing subscription and returns its id.
	Update(ctx context.Context, s *subscription.Subscription) (int64, error)

	// Remove deletes the subscription identified by (clusterID, id) and
	// returns its id.
	Remove(ctx context.Context, clusterID, id int64) (int64, error)
}

// MaxListResults bounds the number of records ClusterStore.List returns when
// no explicit id filter is given. SubscriptionStore.List is not bounded.
const MaxListResults = 100
