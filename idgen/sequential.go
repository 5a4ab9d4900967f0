package idgen

import "sync/atomic"

// A strictly monotonic id generator. Ids are never reused.
//
// The zero value is ready to use. The first id is 0.
type SequentialIDGenerator struct {
	next atomic.Uint64
}

// Next returns an id strictly greater than every id previously returned by
// this generator. It never blocks.
func (g *SequentialIDGenerator) Next() uint64 {
	return g.next.Add(1) - 1
}
