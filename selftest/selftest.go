package selftest

import (
	"context"
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"
)

// Options configures the self test handler.
type Options struct {
	Run RunOptions

	// Called with the results of every run. Optional.
	SendResult func(context.Context, Results)
}

// Handle returns a handler that runs the allocation self test and responds
// with its JSON results.
func Handle(ctx context.Context, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := RunSelfTest(ctx, opts.Run)

		if !res.Passed {
			logs.WithTag("error", res.Error).Warn("self test failed")
		}

		if opts.SendResult != nil {
			opts.SendResult(ctx, res)
		}

		b, err := json.Marshal(res)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if !res.Passed {
			w.WriteHeader(http.StatusInternalServerError)
		}
		w.Write(b)
	}
}
