// Package cluster defines the Cluster entity tracked by the control plane:
// the configuration record describing an external streaming cluster, plus
// the canonically-ordered metadata snapshot types a poller fills in from a
// live fetch.
package cluster

import "time"

// Kind identifies the wire protocol a Cluster speaks. Kafka is the only
// kind implemented. KindUnknown and the empty zero value both fail
// validation, so a Cluster built without an explicit kind is rejected
// rather than silently behaving like Kafka.
type Kind string

const (
	KindUnknown Kind = "Unknown"
	KindKafka   Kind = "Kafka"
)

// Recognised configuration keys. Missing keys resolve to the documented
// defaults in the metadata fetcher rather than failing registration.
const (
	ConfigBootstrapServers     = "bootstrap.servers"
	ConfigGroupID              = "seekr.group.id"
	ConfigMetadataPollInterval = "metadata.poll.interval.ms"
	ConfigMetricsPollInterval  = "metrics.poll.interval.ms"

	DefaultBootstrapServers     = "localhost:9092"
	DefaultGroupID              = "seekr.io"
	DefaultMetadataPollInterval = "30000"
)

// Cluster is a registered streaming cluster. Config carries free-form
// key/value tuning understood by the Metadata Fetcher for this Kind.
type Cluster struct {
	ID        int64             `json:"id"`
	Kind      Kind              `json:"kind"`
	Name      string            `json:"name"`
	Config    map[string]string `json:"config"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Summary is the read-shape returned by the list/get HTTP endpoints. It
// mirrors Cluster but exists as a distinct type so the wire contract can
// diverge from the persisted shape without touching storage code.
type Summary struct {
	ID        int64             `json:"id"`
	Kind      Kind              `json:"kind"`
	Name      string            `json:"name"`
	Config    map[string]string `json:"config"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToSummary projects a Cluster into its read shape.
func (c *Cluster) ToSummary() Summary {
	return Summary{
		ID:        c.ID,
		Kind:      c.Kind,
		Name:      c.Name,
		Config:    c.Config,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ConfigValue returns cfg[key] or def if the key is absent or empty.
func (c *Cluster) ConfigValue(key, def string) string {
	if c.Config == nil {
		return def
	}
	if v, ok := c.Config[key]; ok && v != "" {
		return v
	}
	return def
}

// Validate checks the invariants required before a Cluster may be
// persisted: a non-empty name and a recognised kind. ID is not checked
// here since it is unset prior to insertion.
func (c *Cluster) Validate() error {
	if c.Name == "" {
		return errClusterNameRequired
	}
	switch c.Kind {
	case KindKafka:
	case KindUnknown:
		return errClusterKindRequired
	default:
		return errClusterKindUnsupported
	}
	return nil
}
