package selftest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/idalloc/idgen"
)

// RunOptions configures a self test run.
type RunOptions struct {
	// The number of goroutines allocating ids concurrently. Defaults to 2.
	Goroutines int

	// The number of ids each goroutine allocates. Defaults to 500.
	IDsPerGoroutine int
}

// Results reports the outcome of a self test run.
type Results struct {
	Passed     bool          `json:"passed"`
	Error      string        `json:"error,omitempty"`
	Goroutines int           `json:"goroutines"`
	IDCount    int           `json:"id_count"`
	Duration   time.Duration `json:"duration"`
}

// RunSelfTest exercises the reusable id generator with concurrent
// allocations, then releases half of the ids and verifies that reallocation
// returns exactly the released ids, in release order.
func RunSelfTest(ctx context.Context, opts RunOptions) Results {
	if opts.Goroutines <= 0 {
		opts.Goroutines = 2
	}
	if opts.IDsPerGoroutine <= 0 {
		opts.IDsPerGoroutine = 500
	}

	start := time.Now()
	err := run(ctx, opts)

	res := Results{
		Passed:     err == nil,
		Goroutines: opts.Goroutines,
		IDCount:    opts.Goroutines * opts.IDsPerGoroutine,
		Duration:   time.Since(start),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func run(ctx context.Context, opts RunOptions) error {
	var idGen idgen.ReusableIDGenerator

	ids := make([][]uint64, opts.Goroutines)

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			for n := 0; n < opts.IDsPerGoroutine; n++ {
				ids[i] = append(ids[i], idGen.Next())
			}
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	total := opts.Goroutines * opts.IDsPerGoroutine

	all := make([]uint64, 0, total)
	for _, seq := range ids {
		all = append(all, seq...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	for n, id := range all {
		if id != uint64(n) {
			return errors.New("issued ids do not form a contiguous range").
				WithTag("index", n).
				WithTag("id", id)
		}
	}

	released := all[:total/2]
	for _, id := range released {
		idGen.Release(id)
	}

	for _, want := range released {
		if got := idGen.Next(); got != want {
			return errors.New("ids are not reused in release order").
				WithTag("want", want).
				WithTag("got", got)
		}
	}

	return nil
}
