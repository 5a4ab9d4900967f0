package http

import (
	"net/http"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/idalloc/domains"
	"github.com/segmentio/encoding/json"
)

// HandleDomainStats returns a handler that responds with a JSON snapshot of
// every open allocation domain.
func HandleDomainStats(store *domains.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := json.Marshal(store.Stats())
		if err != nil {
			logs.Warn(errors.New("encoding domain stats failed").Wrap(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}
