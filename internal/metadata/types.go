// Package metadata defines the snapshot types a Fetcher produces and the
// tagged cache entry the Metadata Manager stores them in. Ordering of the
// nested sequences is part of the contract: Sort normalizes a ClusterMetadata
// into the canonical brokers-by-host / topics-by-name / groups-by-name /
// partitions-by-id / members-by-id order so two fetches of an unchanged cluster compare
// equal and external diffs are stable.
package metadata

import (
	"encoding/json"
	"sort"
)

// BrokerMetadata describes a single broker in a cluster.
type BrokerMetadata struct {
	ID   int32  `json:"id"`
	Host string `json:"host"`
	Port int32  `json:"port"`
}

// PartitionMetadata describes one partition of a topic.
type PartitionMetadata struct {
	ID       int32   `json:"id"`
	Leader   int32   `json:"leader"`
	Replicas []int32 `json:"replicas"`
	ISR      []int32 `json:"isr"`
	Error    *string `json:"error,omitempty"`
}

// TopicMetadata describes a topic and its partitions.
type TopicMetadata struct {
	Name       string              `json:"name"`
	Partitions []PartitionMetadata `json:"partitions"`
}

// GroupMember describes one member of a consumer group.
type GroupMember struct {
	ID         string `json:"id"`
	ClientID   string `json:"client_id"`
	ClientHost string `json:"client_host"`
}

// GroupMetadata describes a consumer group and its members.
type GroupMetadata struct {
	Name    string        `json:"name"`
	State   string        `json:"state"`
	Members []GroupMember `json:"members"`
}

// ClusterMetadata is the full snapshot a Fetcher returns: every broker,
// consumer group, and topic observed on a cluster at one instant.
type ClusterMetadata struct {
	Brokers []BrokerMetadata `json:"brokers"`
	Groups  []GroupMetadata  `json:"groups"`
	Topics  []TopicMetadata  `json:"topics"`
}

// Sort reorders every sequence in m into the canonical ordering required by
// the data model: brokers by host, topics by name with partitions by id,
// groups by name. It mutates m in place and returns it for chaining.
func (m *ClusterMetadata) Sort() *ClusterMetadata {
	sort.Slice(m.Brokers, func(i, j int) bool { return m.Brokers[i].Host < m.Brokers[j].Host })
	sort.Slice(m.Groups, func(i, j int) bool { return m.Groups[i].Name < m.Groups[j].Name })
	sort.Slice(m.Topics, func(i, j int) bool { return m.Topics[i].Name < m.Topics[j].Name })
	for i := range m.Topics {
		parts := m.Topics[i].Partitions
		sort.Slice(parts, func(a, b int) bool { return parts[a].ID < parts[b].ID })
	}
	for i := range m.Groups {
		members := m.Groups[i].Members
		sort.Slice(members, func(a, b int) bool { return members[a].ID < members[b].ID })
	}
	return m
}

// EntryKind discriminates the variants of CachedMetadataEntry.
type EntryKind int

const (
	EntryUnknown EntryKind = iota
	EntryProcessing
	EntryMeta
	EntryFailed
)

// CachedMetadataEntry is the tagged union the Metadata Manager stores per
// cluster: Unknown (no context registered), Processing (context registered,
// no successful fetch yet), Meta (the last successful snapshot), or Failed
// (the reason the last fetch did not succeed). Exactly one of Meta/Reason
// is meaningful, selected by Kind.
type CachedMetadataEntry struct {
	Kind   EntryKind
	Meta   ClusterMetadata
	Reason string
}

// Unknown reports whether the entry represents an unregistered cluster.
func (e CachedMetadataEntry) Unknown() bool { return e.Kind == EntryUnknown }

// NewProcessing returns a Processing entry.
func NewProcessing() CachedMetadataEntry {
	return CachedMetadataEntry{Kind: EntryProcessing}
}

// NewMeta returns a Meta entry wrapping m.
func NewMeta(m ClusterMetadata) CachedMetadataEntry {
	return CachedMetadataEntry{Kind: EntryMeta, Meta: m}
}

// NewFailed returns a Failed entry with the given reason.
func NewFailed(reason string) CachedMetadataEntry {
	return CachedMetadataEntry{Kind: EntryFailed, Reason: reason}
}

// MarshalJSON externally tags the entry to match the wire contract:
// "Unknown", "Processing", {"Meta": ClusterMetadata}, {"Failed": "reason"}.
func (e CachedMetadataEntry) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EntryProcessing:
		return json.Marshal("Processing")
	case EntryMeta:
		return json.Marshal(map[string]ClusterMetadata{"Meta": e.Meta})
	case EntryFailed:
		return json.Marshal(map[string]string{"Failed": e.Reason})
	default:
		return json.Marshal("Unknown")
	}
}

// UnmarshalJSON parses the externally-tagged wire format produced by
// MarshalJSON.
func (e *CachedMetadataEntry) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		switch tag {
		case "Processing":
			*e = CachedMetadataEntry{Kind: EntryProcessing}
		default:
			*e = CachedMetadataEntry{Kind: EntryUnknown}
		}
		return nil
	}

	var meta struct {
		Meta *ClusterMetadata `json:"Meta"`
	}
	if err := json.Unmarshal(data, &meta); err == nil && meta.Meta != nil {
		*e = NewMeta(*meta.Meta)
		return nil
	}

	var failed struct {
		Failed *string `json:"Failed"`
	}
	if err := json.Unmarshal(data, &failed); err == nil && failed.Failed != nil {
		*e = NewFailed(*failed.Failed)
		return nil
	}

	*e = CachedMetadataEntry{Kind: EntryUnknown}
	return nil
}
