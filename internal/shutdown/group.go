package shutdown

import "sync"

// Group coordinates shutdown of a dynamic set of latches, such as one
// per registered cluster poller or one per subscription worker. Shutdown
// signals every latch currently in the group to start shutting down, then
// blocks until every one of those latches has completed.
//
// Group begins every member before waiting on any of them, so members
// drain concurrently: total shutdown time is bounded by the slowest member
// rather than the sum of every member's drain time.
type Group struct {
	mu      sync.Mutex
	members map[string]*Latch
}

// NewGroup returns an empty Group.
func NewGroup() *Group {
	return &Group{members: make(map[string]*Latch)}
}

// Add registers a latch under key. If key is already present it is
// replaced.
func (g *Group) Add(key string, l *Latch) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.members[key] = l
}

// Remove drops key from the group without affecting the latch itself.
func (g *Group) Remove(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.members, key)
}

// Len reports the number of members currently in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// Shutdown begins every member's latch, then waits for every member to
// complete.
func (g *Group) Shutdown() {
	g.mu.Lock()
	latches := make([]*Latch, 0, len(g.members))
	for _, l := range g.members {
		latches = append(latches, l)
	}
	g.mu.Unlock()

	for _, l := range latches {
		l.Begin()
	}
	for _, l := range latches {
		<-l.WaitComplete()
	}
}
