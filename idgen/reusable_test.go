package idgen

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReusableIDGeneratorNext(t *testing.T) {
	t.Run("fresh ids start at zero and increase", func(t *testing.T) {
		var idGen ReusableIDGenerator

		for i := 0; i < 5; i++ {
			require.Equal(t, uint64(i), idGen.Next())
		}
	})

	t.Run("a released id is returned before a fresh one", func(t *testing.T) {
		var idGen ReusableIDGenerator

		for i := 0; i < 5; i++ {
			idGen.Next()
		}

		idGen.Release(2)
		require.Equal(t, uint64(2), idGen.Next())
		require.Equal(t, uint64(5), idGen.Next())
	})

	t.Run("released ids are reused in release order", func(t *testing.T) {
		var idGen ReusableIDGenerator

		for i := 0; i < 5; i++ {
			idGen.Next()
		}

		idGen.Release(3)
		idGen.Release(0)
		idGen.Release(4)

		require.Equal(t, uint64(3), idGen.Next())
		require.Equal(t, uint64(0), idGen.Next())
		require.Equal(t, uint64(4), idGen.Next())
	})

	t.Run("reuse bounds the id space", func(t *testing.T) {
		var idGen ReusableIDGenerator

		// At most 4 ids are in use at any time, so no id above 3 is ever
		// handed out.
		var held []uint64
		for i := 0; i < 1000; i++ {
			id := idGen.Next()
			require.Less(t, id, uint64(4))

			held = append(held, id)
			if len(held) == 4 {
				idGen.Release(held[0])
				held = held[1:]
			}
		}
	})
}

func TestReusableIDGeneratorConcurrent(t *testing.T) {
	const idsPerGoroutine = 500

	var idGen ReusableIDGenerator

	ids := make([][]uint64, 2)

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			for n := 0; n < idsPerGoroutine; n++ {
				ids[i] = append(ids[i], idGen.Next())
			}
		}(i)
	}
	wg.Wait()

	all := append(append([]uint64{}, ids[0]...), ids[1]...)
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	for n, id := range all {
		require.Equal(t, uint64(n), id)
	}

	// Release half of the issued ids, then reallocate them. The new ids must
	// be exactly the released ones, in release order, with nothing fresh.
	released := all[:idsPerGoroutine]
	for _, id := range released {
		idGen.Release(id)
	}

	for _, want := range released {
		require.Equal(t, want, idGen.Next())
	}
}

func TestReusableIDGeneratorConcurrentRelease(t *testing.T) {
	const totalIDs = 1000

	var idGen ReusableIDGenerator

	issued := make(chan uint64, totalIDs)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		for i := 0; i < totalIDs; i++ {
			issued <- idGen.Next()
		}
		close(issued)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		for i := 0; i < totalIDs/2; i++ {
			idGen.Release(<-issued)
		}
	}()
	wg.Wait()

	// Half of the ids are back in the free list. Reallocating that many must
	// complete the range [0, totalIDs) without issuing anything fresh.
	ids := make(map[uint64]struct{}, totalIDs)
	for id := range issued {
		ids[id] = struct{}{}
	}
	for i := 0; i < totalIDs/2; i++ {
		id := idGen.Next()
		_, ok := ids[id]
		require.False(t, ok)
		ids[id] = struct{}{}
	}

	require.Len(t, ids, totalIDs)
	for i := 0; i < totalIDs; i++ {
		require.Contains(t, ids, uint64(i))
	}
}
