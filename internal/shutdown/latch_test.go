package shutdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatch_InitialState(t *testing.T) {
	l := New()
	assert.Equal(t, NotStarted, l.State())
	assert.False(t, l.IsShutdown())
}

func TestLatch_Begin(t *testing.T) {
	l := New()
	l.Begin()

	assert.True(t, l.IsShutdown())
	assert.Equal(t, Started, l.State())

	select {
	case <-l.WaitBegin():
	case <-time.After(time.Second):
		t.Fatal("WaitBegin did not unblock after Begin")
	}
}

func TestLatch_Begin_Idempotent(t *testing.T) {
	l := New()
	l.Begin()
	assert.NotPanics(t, func() { l.Begin() })
	assert.Equal(t, Started, l.State())
}

func TestLatch_Complete(t *testing.T) {
	l := New()
	l.Complete()

	assert.Equal(t, Complete, l.State())
	select {
	case <-l.WaitBegin():
	case <-time.After(time.Second):
		t.Fatal("Complete did not implicitly begin the latch")
	}
	select {
	case <-l.WaitComplete():
	case <-time.After(time.Second):
		t.Fatal("WaitComplete did not unblock after Complete")
	}
}

// TestLatch_LateSubscriberDoesNotHang: a waiter arriving after the
// transition has already happened must still observe it.
func TestLatch_LateSubscriberDoesNotHang(t *testing.T) {
	l := New()
	l.Begin()
	l.Complete()

	done := make(chan struct{})
	go func() {
		<-l.WaitBegin()
		<-l.WaitComplete()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("late subscriber hung waiting on an already-completed latch")
	}
}

func TestLatch_MultipleWaiters(t *testing.T) {
	l := New()
	const n = 8
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			<-l.WaitComplete()
			done <- struct{}{}
		}()
	}

	l.Complete()

	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("waiter %d never observed completion", i)
		}
	}
}

func TestLatch_String(t *testing.T) {
	require.Equal(t, "NotStarted", NotStarted.String())
	require.Equal(t, "Started", Started.String())
	require.Equal(t, "Complete", Complete.String())
}
