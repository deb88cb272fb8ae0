package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/diarynotes/internal/logging"
	"github.com/2beens/diarynotes/internal/telemetry/metrics"
	"github.com/2beens/diarynotes/pkg"
)

// PanicRecovery turns a handler panic into a generic 500 response.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					logging.FromContext(req.Context()).Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					pkg.WriteMessage(respWriter, http.StatusInternalServerError, "Something went wrong!")
				}
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}
