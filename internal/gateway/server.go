package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sharehub/internal/metrics"
)

const (
	userHeader      = "X-Sharer-User-Id"
	requestIDHeader = "X-Request-Id"
)

// Server is the validation-and-throttling edge in front of the core.
// It never touches storage: requests that pass its checks are relayed
// unchanged.
type Server struct {
	proxy    *Proxy
	limiter  Limiter
	validate *validator.Validate
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(addr string, proxy *Proxy, limiter Limiter, logger *zerolog.Logger) *Server {
	s := &Server{
		proxy:    proxy,
		limiter:  limiter,
		validate: newValidator(),
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", validated[createUserBody](s, nil))
	mux.HandleFunc("PATCH /users/{id}", validated[updateUserBody](s, nil))
	mux.HandleFunc("POST /items", validated[createItemBody](s, nil))
	mux.HandleFunc("POST /items/{id}/comment", validated[createCommentBody](s, nil))
	mux.HandleFunc("POST /requests", validated[createRequestBody](s, nil))
	mux.HandleFunc("POST /bookings", validated(s, func(body *createBookingBody) error {
		return checkBookingDates(*body, time.Now())
	}))

	mux.HandleFunc("GET /bookings", s.paginated)
	mux.HandleFunc("GET /bookings/owner", s.paginated)
	mux.HandleFunc("GET /items", s.paginated)
	mux.HandleFunc("GET /requests/all", s.paginated)

	// Everything else forwards untouched.
	mux.HandleFunc("/", s.forward)

	handler := s.requestID(s.rateLimit(s.logging(mux)))

	s.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return s
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("gateway listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("gateway server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	s.proxy.Forward(w, r)
}

func (s *Server) paginated(w http.ResponseWriter, r *http.Request) {
	if err := checkPagination(r); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.proxy.Forward(w, r)
}

// validated builds a handler that decodes the body into T, runs tag
// validation plus the extra check, and forwards the original bytes on
// success.
func validated[T any](s *Server, extra func(body *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read body")
			return
		}

		var body T
		if err := json.Unmarshal(raw, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.validate.Struct(&body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if extra != nil {
			if err := extra(&body); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		r.Body = io.NopCloser(bytes.NewReader(raw))
		r.ContentLength = int64(len(raw))
		s.proxy.Forward(w, r)
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
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

// rateLimit throttles per acting user; anonymous requests share a
// per-address budget.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := s.limiter.Allow(r.Context(), s.limiterKey(r))
		if err != nil {
			s.logger.Error().Err(err).Msg("rate limiter failed")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			metrics.IncRateLimited()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiterKey(r *http.Request) string {
	if userID := r.Header.Get(userHeader); userID != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "addr:unknown"
	}
	return "addr:" + host
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("elapsed", time.Since(start)).
			Msg("gateway request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
