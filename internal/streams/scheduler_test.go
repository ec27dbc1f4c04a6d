package streams

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/domain/subscription"
	"github.com/seekr-io/seekr/internal/shutdown"
)

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

type mockSubscriptionStore struct {
	mock.Mock
}

func (m *mockSubscriptionStore) List(ctx context.Context, clusterID *int64) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, clusterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionStore) Get(ctx context.Context, clusterID, id int64) (*subscription.Subscription, error) {
	args := m.Called(ctx, clusterID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.Subscription), args.Error(1)
}

func (m *mockSubscriptionStore) Insert(ctx context.Context, s *subscription.Subscription) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSubscriptionStore) Update(ctx context.Context, s *subscription.Subscription) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSubscriptionStore) Remove(ctx context.Context, clusterID, id int64) (int64, error) {
	args := m.Called(ctx, clusterID, id)
	return args.Get(0).(int64), args.Error(1)
}

// stubWorker is a deterministic Worker test double: Run blocks until its
// latch begins, then completes after sleeping for delay.
type stubWorker struct {
	mu    sync.Mutex
	runs  int
	latch *shutdown.Latch
	delay time.Duration
}

func newStubWorker(delay time.Duration) *stubWorker {
	return &stubWorker{latch: shutdown.New(), delay: delay}
}

func (w *stubWorker) Latch() *shutdown.Latch { return w.latch }

func (w *stubWorker) Run() {
	w.mu.Lock()
	w.runs++
	w.mu.Unlock()

	<-w.latch.WaitBegin()
	time.Sleep(w.delay)
	w.latch.Complete()
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

func TestSchedulerStartSkipsSubscriptionsWithMissingCluster(t *testing.T) {
	sub1 := &subscription.Subscription{ID: 1, ClusterID: 10, TopicName: "orders"}
	sub2 := &subscription.Subscription{ID: 2, ClusterID: 99, TopicName: "missing-cluster"}

	cs := &mockClusterStore{}
	ss := &mockSubscriptionStore{}
	ss.On("List", mock.Anything, (*int64)(nil)).Return([]*subscription.Subscription{sub1, sub2}, nil)
	cs.On("List", mock.Anything, []int64{10, 99}).Return([]*cluster.Cluster{{ID: 10, Name: "c10"}}, nil)

	built := make(map[int64]*stubWorker)
	var mu sync.Mutex
	factory := func(c *cluster.Cluster, s *subscription.Subscription) (Worker, error) {
		w := newStubWorker(0)
		mu.Lock()
		built[s.ID] = w
		mu.Unlock()
		return w, nil
	}

	sched := New(cs, ss, factory)
	require.NoError(t, sched.Start(context.Background()))

	mu.Lock()
	_, gotSub1 := built[1]
	_, gotSub2 := built[2]
	mu.Unlock()
	assert.True(t, gotSub1, "worker for resolvable subscription should be built")
	assert.False(t, gotSub2, "worker for subscription with missing cluster should be skipped")

	sched.Stop()
}

func TestSchedulerStopBoundedBySlowestWorker(t *testing.T) {
	subs := make([]*subscription.Subscription, 0, 5)
	for i := int64(1); i <= 5; i++ {
		subs = append(subs, &subscription.Subscription{ID: i, ClusterID: 1, TopicName: "t"})
	}
	cs := &mockClusterStore{}
	ss := &mockSubscriptionStore{}
	ss.On("List", mock.Anything, (*int64)(nil)).Return(subs, nil)
	cs.On("List", mock.Anything, []int64{1}).Return([]*cluster.Cluster{{ID: 1, Name: "c1"}}, nil)

	factory := func(c *cluster.Cluster, s *subscription.Subscription) (Worker, error) {
		return newStubWorker(50 * time.Millisecond), nil
	}

	sched := New(cs, ss, factory)
	require.NoError(t, sched.Start(context.Background()))

	waitFor(t, 100*time.Millisecond, func() bool {
		sched.mu.RLock()
		defer sched.mu.RUnlock()
		return len(sched.workers) == 5
	})

	start := time.Now()
	sched.Stop()
	elapsed := time.Since(start)
	assert.Less(t, elapsed, 200*time.Millisecond, "stop should bound by slowest worker, not sum of all")
}
