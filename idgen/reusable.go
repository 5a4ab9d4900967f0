package idgen

import (
	"sync"
	"sync/atomic"
)

// An id generator that reuses released ids. Released ids are queued and
// handed out again in release order, which bounds the id space to the
// high-water mark of ids simultaneously in use.
//
// The zero value is ready to use. The first fresh id is 0.
type ReusableIDGenerator struct {
	next  atomic.Uint64
	mutex sync.Mutex
	free  []uint64
}

// Next returns the oldest released id when there is one, otherwise a fresh
// id. Fresh ids are strictly increasing.
func (g *ReusableIDGenerator) Next() uint64 {
	g.mutex.Lock()
	if len(g.free) != 0 {
		id := g.free[0]
		g.free = g.free[1:]
		g.mutex.Unlock()
		return id
	}
	g.mutex.Unlock()

	return g.next.Add(1) - 1
}

// Release makes id available for reuse by a later Next call.
//
// id must have been returned by Next on this generator and must not have
// been released since. Violations are not detected and make id eligible for
// reuse more than once. See StrictReusableIDGenerator for a validating
// variant.
func (g *ReusableIDGenerator) Release(id uint64) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.free = append(g.free, id)
}
