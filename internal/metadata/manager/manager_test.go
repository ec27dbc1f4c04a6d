package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/metadata"
)

// mockClusterStore implements store.ClusterStore for Start().
type mockClusterStore struct {
	mock.Mock
}

func (m *mockClusterStore) List(ctx context.Context, ids []int64) ([]*cluster.Cluster, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cluster.Cluster), args.Error(1)
}

func (m *mockClusterStore) Get(ctx context.Context, id int64) (*cluster.Cluster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cluster.Cluster), args.Error(1)
}

func (m *mockClusterStore) Insert(ctx context.Context, c *cluster.Cluster) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClusterStore) Update(ctx context.Context, c *cluster.Cluster) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClusterStore) Remove(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// stubFetcher is a deterministic test double for metadata.Fetcher: it waits
// `delay` then either returns `result` or `err`, and counts how many times
// Fetch/Close were called.
type stubFetcher struct {
	mu     sync.Mutex
	delay  time.Duration
	result metadata.ClusterMetadata
	err    error

	fetches int
	closed  bool
}

func (f *stubFetcher) Fetch(ctx context.Context) (metadata.ClusterMetadata, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return metadata.ClusterMetadata{}, ctx.Err()
	}
	if f.err != nil {
		return metadata.ClusterMetadata{}, f.err
	}
	return f.result, nil
}

func (f *stubFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *stubFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func newCluster(id int64, pollIntervalMillis string) *cluster.Cluster {
	return &cluster.Cluster{
		ID:   id,
		Kind: cluster.KindKafka,
		Name: "c",
		Config: map[string]string{
			cluster.ConfigMetadataPollInterval: pollIntervalMillis,
		},
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	if !cond() {
		t.Fatalf("condition not met within %s", timeout)
	}
}

func TestManagerBootWithTwoClusters(t *testing.T) {
	c1 := newCluster(1, "50")
	c2 := newCluster(2, "50")
	st := &mockClusterStore{}
	st.On("List", mock.Anything, []int64(nil)).Return([]*cluster.Cluster{c1, c2}, nil)

	fetcher := &stubFetcher{delay: 10 * time.Millisecond}
	factory := func(c *cluster.Cluster) (metadata.Fetcher, error) { return fetcher, nil }

	m := New(st, factory)
	require.NoError(t, m.Start(context.Background()))

	waitFor(t, 200*time.Millisecond, func() bool {
		e1, ok1 := m.Get(1)
		e2, ok2 := m.Get(2)
		return ok1 && ok2 && e1.Kind == metadata.EntryMeta && e2.Kind == metadata.EntryMeta
	})

	m.Stop()
}

func TestManagerRegisterAfterBoot(t *testing.T) {
	st := &mockClusterStore{}
	st.On("List", mock.Anything, []int64(nil)).Return([]*cluster.Cluster{}, nil)

	fetcher := &stubFetcher{delay: 5 * time.Millisecond}
	factory := func(c *cluster.Cluster) (metadata.Fetcher, error) { return fetcher, nil }

	m := New(st, factory)
	require.NoError(t, m.Start(context.Background()))

	c7 := newCluster(7, "20")
	require.NoError(t, m.Register(c7))

	waitFor(t, 100*time.Millisecond, func() bool {
		e, ok := m.Get(7)
		return ok && e.Kind == metadata.EntryMeta
	})

	m.Remove(7)
	_, ok := m.Get(7)
	assert.False(t, ok, "expected cache entry to be cleared immediately after Remove")
}

func TestManagerFailingFetcher(t *testing.T) {
	fetcher := &stubFetcher{delay: time.Millisecond, err: errors.New("i/o timeout")}
	factory := func(c *cluster.Cluster) (metadata.Fetcher, error) { return fetcher, nil }

	m := New(&mockClusterStore{}, factory)
	c3 := newCluster(3, "20")
	require.NoError(t, m.Register(c3))

	waitFor(t, 200*time.Millisecond, func() bool {
		e, ok := m.Get(3)
		return ok && e.Kind == metadata.EntryFailed
	})

	time.Sleep(120 * time.Millisecond)
	e, ok := m.Get(3)
	assert.True(t, ok)
	assert.Equal(t, metadata.EntryFailed, e.Kind)
	assert.Contains(t, e.Reason, "timeout")

	m.Stop()
}

func TestManagerShutdownBounds(t *testing.T) {
	factory := func(c *cluster.Cluster) (metadata.Fetcher, error) {
		return &stubFetcher{delay: 100 * time.Millisecond}, nil
	}
	m := New(&mockClusterStore{}, factory)

	for i := int64(1); i <= 10; i++ {
		require.NoError(t, m.Register(newCluster(i, "1000")))
	}

	start := time.Now()
	m.Stop()
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 300*time.Millisecond, "stop should bound by slowest in-flight fetch")
}

func TestManagerRegisterIsIdempotent(t *testing.T) {
	calls := 0
	factory := func(c *cluster.Cluster) (metadata.Fetcher, error) {
		calls++
		return &stubFetcher{delay: 50 * time.Millisecond}, nil
	}
	m := New(&mockClusterStore{}, factory)

	c := newCluster(42, "1000")
	require.NoError(t, m.Register(c))
	require.NoError(t, m.Register(c))

	assert.Equal(t, 1, calls, "second Register on a live id must be a no-op")
	m.Stop()
}

func TestPollIntervalFallsBackOnParseError(t *testing.T) {
	cases := map[string]time.Duration{
		"50":           50 * time.Millisecond,
		"not-a-number": 30000 * time.Millisecond,
		"":             30000 * time.Millisecond,
		"-1":           30000 * time.Millisecond,
	}
	for raw, want := range cases {
		c := newCluster(1, raw)
		if raw == "" {
			c.Config = nil
		}
		assert.Equal(t, want, pollInterval(c), "interval %q", raw)
	}
}

func TestManagerRemoveThenRegisterGetsFreshContext(t *testing.T) {
	factory := func(c *cluster.Cluster) (metadata.Fetcher, error) {
		return &stubFetcher{delay: 200 * time.Millisecond}, nil
	}
	m := New(&mockClusterStore{}, factory)

	c := newCluster(9, "1000")
	require.NoError(t, m.Register(c))
	m.Remove(9)
	_, ok := m.Get(9)
	assert.False(t, ok)

	require.NoError(t, m.Register(c))
	e, ok := m.Get(9)
	assert.True(t, ok)
	assert.Equal(t, metadata.EntryProcessing, e.Kind)

	m.Stop()
}
