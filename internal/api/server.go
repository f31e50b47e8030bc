package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sharehub/internal/domain"
)

// Server is the core HTTP tier. It trusts that shape validation has
// already happened at the gateway and focuses on business rules.
type Server struct {
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
	requests domain.RequestService
	logger   *zerolog.Logger
	server   *http.Server
}

func NewServer(addr string, users domain.UserService, items domain.ItemService, bookings domain.BookingService, requests domain.RequestService, logger *zerolog.Logger) *Server {
	s := &Server{
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("GET /items", s.handleListOwnerItems)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("PATCH /items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	mux.HandleFunc("POST /items/{id}/comment", s.handleCreateComment)

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /bookings", s.handleListBookings)
	mux.HandleFunc("GET /bookings/owner", s.handleListOwnerBookings)
	mux.HandleFunc("GET /bookings/owner/export", s.handleExportOwnerBookings)
	mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("PATCH /bookings/{id}", s.handleUpdateBookingStatus)

	mux.HandleFunc("POST /requests", s.handleCreateRequest)
	mux.HandleFunc("GET /requests", s.handleListOwnRequests)
	mux.HandleFunc("GET /requests/all", s.handleListOtherRequests)
	mux.HandleFunc("GET /requests/{id}", s.handleGetRequest)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	handler := requestIDMiddleware(loggingMiddleware(logger, mux))

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
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
