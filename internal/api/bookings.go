package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sharehub/internal/export"
	"sharehub/internal/models"
)

type createBookingRequest struct {
	ItemID int64            `json:"itemId"`
	Start  *models.DateTime `json:"start"`
	End    *models.DateTime `json:"end"`
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.Create(r.Context(), body.ItemID, body.Start, body.End, bookerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBookingResponse(*booking))
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := s.bookings.Get(r.Context(), bookingID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(*booking))
}

func (s *Server) handleUpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	approve, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "approved parameter must be true or false")
		return
	}

	booking, err := s.bookings.UpdateStatus(r.Context(), bookingID, approve, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponse(*booking))
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleBooker)
}

func (s *Server) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleOwner)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, role models.BookingRole) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, size, ok := paginationParams(w, r)
	if !ok {
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		state = string(models.StateAll)
	}

	bookings, err := s.bookings.List(r.Context(), userID, role, state, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBookingResponses(bookings))
}

// handleExportOwnerBookings streams an xlsx report of every booking on
// the owner's items.
func (s *Server) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := actingUser(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.List(r.Context(), userID, models.RoleOwner, string(models.StateAll), nil, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	workbook, err := export.BookingsWorkbook(bookings)
	if err != nil {
		s.logger.Error().Err(err).Msg("build bookings workbook")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := workbook.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("write bookings workbook")
	}
}
