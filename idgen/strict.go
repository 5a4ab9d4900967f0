package idgen

import (
	"sync"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

// A validating variant of ReusableIDGenerator that tracks the ids currently
// in use. It trades a map lookup and extra memory per id for detection of
// double releases and releases of ids it never issued.
type StrictReusableIDGenerator struct {
	next  atomic.Uint64
	mutex sync.Mutex
	free  []uint64
	inUse map[uint64]struct{}
}

// Next returns the oldest released id when there is one, otherwise a fresh
// id, and marks it in use.
func (g *StrictReusableIDGenerator) Next() uint64 {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.inUse == nil {
		g.inUse = make(map[uint64]struct{})
	}

	var id uint64
	if len(g.free) != 0 {
		id = g.free[0]
		g.free = g.free[1:]
	} else {
		id = g.next.Add(1) - 1
	}

	g.inUse[id] = struct{}{}
	return id
}

// Release makes id available for reuse by a later Next call. It returns an
// error when id is not currently in use.
func (g *StrictReusableIDGenerator) Release(id uint64) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.inUse[id]; !ok {
		return errors.New("id is not in use").WithTag("id", id)
	}
	delete(g.inUse, id)

	g.free = append(g.free, id)
	return nil
}

// InUseCount returns the number of ids currently in use.
func (g *StrictReusableIDGenerator) InUseCount() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	return len(g.inUse)
}
