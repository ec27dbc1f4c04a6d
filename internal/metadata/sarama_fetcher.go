package metadata

import (
	"context"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"github.com/seekr-io/seekr/internal/domain/cluster"
)

// saramaFetcher is the Kafka-backed Fetcher. It opens a sarama.ClusterAdmin
// lazily on the first Fetch call and reuses it for the Fetcher's lifetime;
// a failed admin call does not tear the client down, matching the contract
// that a fetch failure must not poison the Fetcher.
type saramaFetcher struct {
	clusterID int64
	addrs     []string
	groupID   string

	mu    sync.Mutex
	admin sarama.ClusterAdmin
}

// NewSaramaFetcher builds a Fetcher backed by sarama's ClusterAdmin for the
// given cluster. It reads bootstrap.servers and seekr.group.id from the
// cluster's config, falling back to the documented defaults.
func NewSaramaFetcher(c *cluster.Cluster) (Fetcher, error) {
	bootstrap := c.ConfigValue(cluster.ConfigBootstrapServers, cluster.DefaultBootstrapServers)
	groupID := c.ConfigValue(cluster.ConfigGroupID, cluster.DefaultGroupID)

	return &saramaFetcher{
		clusterID: c.ID,
		addrs:     splitAddrs(bootstrap),
		groupID:   groupID,
	}, nil
}

func splitAddrs(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if len(out) == 0 {
		out = []string{s}
	}
	return out
}

func (f *saramaFetcher) adminClient() (sarama.ClusterAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.admin != nil {
		return f.admin, nil
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Admin.Timeout = FetchTimeout
	cfg.ClientID = f.groupID

	admin, err := sarama.NewClusterAdmin(f.addrs, cfg)
	if err != nil {
		return nil, fmt.Errorf("metadata: connect to cluster %d: %w", f.clusterID, err)
	}
	f.admin = admin
	return admin, nil
}

// Fetch describes the cluster's brokers and topics and lists its consumer
// groups, assembling and canonically sorting a ClusterMetadata snapshot.
// Fetch returns an error as soon as ctx is done, even if the admin calls
// are still running in the background; those calls are bounded only by
// sarama's own Admin.Timeout (set to FetchTimeout above) since
// ClusterAdmin's synchronous calls do not accept a context.
func (f *saramaFetcher) Fetch(ctx context.Context) (ClusterMetadata, error) {
	admin, err := f.adminClient()
	if err != nil {
		return ClusterMetadata{}, err
	}

	type result struct {
		meta ClusterMetadata
		err  error
	}
	done := make(chan result, 1)

	go func() {
		meta, err := fetchAll(admin)
		done <- result{meta: meta, err: err}
	}()

	select {
	case <-ctx.Done():
		return ClusterMetadata{}, fmt.Errorf("metadata: fetch for cluster %d: %w", f.clusterID, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return ClusterMetadata{}, fmt.Errorf("metadata: fetch for cluster %d: %w", f.clusterID, r.err)
		}
		return *r.meta.Sort(), nil
	}
}

func fetchAll(admin sarama.ClusterAdmin) (ClusterMetadata, error) {
	brokers, _, err := admin.DescribeCluster()
	if err != nil {
		return ClusterMetadata{}, fmt.Errorf("describe cluster: %w", err)
	}

	topicDetails, err := admin.ListTopics()
	if err != nil {
		return ClusterMetadata{}, fmt.Errorf("list topics: %w", err)
	}
	names := make([]string, 0, len(topicDetails))
	for name := range topicDetails {
		names = append(names, name)
	}
	topicMeta, err := admin.DescribeTopics(names)
	if err != nil {
		return ClusterMetadata{}, fmt.Errorf("describe topics: %w", err)
	}

	groupNames, err := admin.ListConsumerGroups()
	if err != nil {
		return ClusterMetadata{}, fmt.Errorf("list consumer groups: %w", err)
	}
	names = names[:0]
	for name := range groupNames {
		names = append(names, name)
	}
	groupDescs, err := admin.DescribeConsumerGroups(names)
	if err != nil {
		return ClusterMetadata{}, fmt.Errorf("describe consumer groups: %w", err)
	}

	return ClusterMetadata{
		Brokers: parseBrokers(brokers),
		Topics:  parseTopics(topicMeta),
		Groups:  parseGroups(groupDescs),
	}, nil
}

func parseBrokers(brokers []*sarama.Broker) []BrokerMetadata {
	out := make([]BrokerMetadata, 0, len(brokers))
	for _, b := range brokers {
		host, port := splitHostPort(b.Addr())
		out = append(out, BrokerMetadata{ID: b.ID(), Host: host, Port: port})
	}
	return out
}

func splitHostPort(addr string) (string, int32) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			var port int32
			for _, c := range addr[i+1:] {
				if c < '0' || c > '9' {
					return addr, 0
				}
				port = port*10 + int32(c-'0')
			}
			return addr[:i], port
		}
	}
	return addr, 0
}

func parseTopics(topics []*sarama.TopicMetadata) []TopicMetadata {
	out := make([]TopicMetadata, 0, len(topics))
	for _, t := range topics {
		parts := make([]PartitionMetadata, 0, len(t.Partitions))
		for _, p := range t.Partitions {
			var errStr *string
			if p.Err != sarama.ErrNoError {
				s := p.Err.Error()
				errStr = &s
			}
			parts = append(parts, PartitionMetadata{
				ID:       p.ID,
				Leader:   p.Leader,
				Replicas: p.Replicas,
				ISR:      p.Isr,
				Error:    errStr,
			})
		}
		out = append(out, TopicMetadata{Name: t.Name, Partitions: parts})
	}
	return out
}

func parseGroups(groups []*sarama.GroupDescription) []GroupMetadata {
	out := make([]GroupMetadata, 0, len(groups))
	for _, g := range groups {
		members := make([]GroupMember, 0, len(g.Members))
		for id, m := range g.Members {
			members = append(members, GroupMember{
				ID:         id,
				ClientID:   m.ClientId,
				ClientHost: m.ClientHost,
			})
		}
		out = append(out, GroupMetadata{Name: g.GroupId, State: g.State, Members: members})
	}
	return out
}

// Close releases the underlying sarama admin client, if one was opened.
func (f *saramaFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.admin == nil {
		return nil
	}
	err := f.admin.Close()
	f.admin = nil
	return err
}
