package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sharehub/internal/metrics"
)

const requestIDHeader = "X-Request-Id"

// requestIDMiddleware assigns a request id when the caller (usually the
// gateway) did not already supply one, and echoes it back.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(logger *zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(start)

		logger.Info().
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("elapsed", elapsed).
			Msg("http request")

		metrics.ObserveHTTP(r.Method, routeLabel(r.URL.Path), recorder.status, elapsed)
	})
}

// routeLabel keeps metric cardinality bounded by collapsing paths to
// their first segment.
func routeLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}
