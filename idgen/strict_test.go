package idgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrictReusableIDGeneratorNext(t *testing.T) {
	t.Run("fresh ids start at zero and increase", func(t *testing.T) {
		var idGen StrictReusableIDGenerator

		for i := 0; i < 5; i++ {
			require.Equal(t, uint64(i), idGen.Next())
		}
		require.Equal(t, 5, idGen.InUseCount())
	})

	t.Run("released ids are reused in release order", func(t *testing.T) {
		var idGen StrictReusableIDGenerator

		for i := 0; i < 3; i++ {
			idGen.Next()
		}

		require.NoError(t, idGen.Release(1))
		require.NoError(t, idGen.Release(0))

		require.Equal(t, uint64(1), idGen.Next())
		require.Equal(t, uint64(0), idGen.Next())
	})
}

func TestStrictReusableIDGeneratorRelease(t *testing.T) {
	t.Run("releasing an id in use succeeds", func(t *testing.T) {
		var idGen StrictReusableIDGenerator

		id := idGen.Next()
		require.NoError(t, idGen.Release(id))
		require.Zero(t, idGen.InUseCount())
	})

	t.Run("releasing an id twice returns an error", func(t *testing.T) {
		var idGen StrictReusableIDGenerator

		id := idGen.Next()
		require.NoError(t, idGen.Release(id))
		require.Error(t, idGen.Release(id))
	})

	t.Run("releasing a never issued id returns an error", func(t *testing.T) {
		var idGen StrictReusableIDGenerator

		idGen.Next()
		require.Error(t, idGen.Release(42))
	})

	t.Run("a rejected release does not pollute the free list", func(t *testing.T) {
		var idGen StrictReusableIDGenerator

		idGen.Next()
		require.Error(t, idGen.Release(42))
		require.Equal(t, uint64(1), idGen.Next())
	})
}
