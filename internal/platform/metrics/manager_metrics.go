package metrics

import (
	"strconv"
	"time"
)

// ManagerMetrics adapts Collector to the manager.Metrics interface without
// internal/metadata/manager importing this package directly.
type ManagerMetrics struct {
	c *Collector
}

// NewManagerMetrics wraps c for consumption by the metadata manager.
func NewManagerMetrics(c *Collector) *ManagerMetrics {
	return &ManagerMetrics{c: c}
}

func (m *ManagerMetrics) ObservePollSuccess(clusterID int64, duration time.Duration) {
	id := strconv.FormatInt(clusterID, 10)
	m.c.pollSuccessTotal.WithLabelValues(id).Inc()
	m.c.pollDuration.WithLabelValues(id, "success").Observe(duration.Seconds())
}

func (m *ManagerMetrics) ObservePollFailure(clusterID int64, duration time.Duration) {
	id := strconv.FormatInt(clusterID, 10)
	m.c.pollFailureTotal.WithLabelValues(id).Inc()
	m.c.pollDuration.WithLabelValues(id, "failure").Observe(duration.Seconds())
}

func (m *ManagerMetrics) SetCacheSize(n int) {
	m.c.cacheSize.Set(float64(n))
}
