package idgen

import (
	"sync"
	"sync/atomic"

	"golang.design/x/lockfree"
)

// An id generator that reuses released ids without taking a lock. Released
// ids go through a lock-free queue, so Next and Release never block on a
// mutex, at the cost of boxing every id into an interface value.
//
// Reuse order follows the queue and may diverge from strict FIFO under
// contention.
type LockFreeReusableIDGenerator struct {
	initOnce sync.Once
	queue    *lockfree.Queue
	next     atomic.Uint64
}

func (g *LockFreeReusableIDGenerator) init() {
	g.queue = lockfree.NewQueue()
}

// Next returns a previously released id when there is one, otherwise a
// fresh id. Fresh ids are strictly increasing.
func (g *LockFreeReusableIDGenerator) Next() uint64 {
	g.initOnce.Do(g.init)

	if v := g.queue.Dequeue(); v != nil {
		return v.(uint64)
	}
	return g.next.Add(1) - 1
}

// Release makes id available for reuse by a later Next call. Like
// ReusableIDGenerator.Release, it does not validate id.
func (g *LockFreeReusableIDGenerator) Release(id uint64) {
	g.initOnce.Do(g.init)

	g.queue.Enqueue(id)
}
