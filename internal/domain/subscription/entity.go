// Package subscription defines the Subscription entity: an operator's
// request to have a given topic on a given cluster continuously indexed
// by a StreamsWorker.
package subscription

import "time"

// Subscription ties a topic on a cluster to a set of worker tuning
// parameters. ClusterID must resolve to an existing Cluster at creation
// time; the store and HTTP layers are responsible for enforcing that
// foreign reference.
type Subscription struct {
	ID        int64             `json:"id"`
	ClusterID int64             `json:"cluster_id"`
	TopicName string            `json:"topic_name"`
	Config    map[string]string `json:"config"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ConfigValue returns cfg[key] or def if the key is absent or empty.
func (s *Subscription) ConfigValue(key, def string) string {
	if s.Config == nil {
		return def
	}
	if v, ok := s.Config[key]; ok && v != "" {
		return v
	}
	return def
}

// Validate checks the invariants required before a Subscription may be
// persisted.
func (s *Subscription) Validate() error {
	if s.ClusterID <= 0 {
		return errSubscriptionClusterIDRequired
	}
	if s.TopicName == "" {
		return errSubscriptionTopicRequired
	}
	return nil
}
