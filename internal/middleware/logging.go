package middleware

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/diarynotes/internal/logging"
	"github.com/2beens/diarynotes/pkg"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID or generates one, echoes it back,
// and stores a request scoped log entry in the request context.
func RequestID() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > 128 {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			entry := log.WithFields(log.Fields{
				logging.RequestIDField: reqID,
				"client_ip":            pkg.ClientIP(r),
			})
			next.ServeHTTP(w, r.WithContext(logging.NewContext(r.Context(), entry)))
		})
	}
}

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Tracef(
				" ====> request [%s] path: [%s] [UA: %s]",
				r.Method, r.URL.Path, r.Header.Get("User-Agent"),
			)
			next.ServeHTTP(w, r)
		})
	}
}
