package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gpubook/internal/metrics"
	"gpubook/internal/models"
	"gpubook/internal/scheduler"
)

// SubmitRequest is the request body for POST /api/bookings.
type SubmitRequest struct {
	Email         string `json:"email"`
	Node          int    `json:"node"`
	GPU           int    `json:"gpu"`
	StartDate     string `json:"start_date"` // Format: YYYY-MM-DD
	StartHour     int    `json:"start_hour"`
	DurationHours int    `json:"duration_hours"`
}

// ConflictResponse reports the booking already holding the slot.
type ConflictResponse struct {
	Error    string          `json:"error"`
	Conflict *models.Booking `json:"conflict"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r)
	case http.MethodGet:
		s.handleBookingsByEmail(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSubmit creates a booking.
// POST /api/bookings
func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("submit")

	var req SubmitRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}

	startDate, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date format; expected YYYY-MM-DD")
		return
	}

	booking, err := s.sched.Submit(r.Context(), scheduler.Request{
		Email:         req.Email,
		Node:          req.Node,
		GPU:           req.GPU,
		StartDate:     startDate,
		StartHour:     req.StartHour,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		var ce *scheduler.ConflictError
		switch {
		case errors.As(err, &ce):
			writeJSON(w, http.StatusConflict, ConflictResponse{
				Error:    ce.Error(),
				Conflict: &ce.Existing,
			})
		case errors.Is(err, scheduler.ErrPastDate), errors.Is(err, scheduler.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.log.Error().Err(err).Msg("submit failed")
			writeError(w, http.StatusInternalServerError, "failed to create booking")
		}
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// handleBookingsByEmail lists bookings held by a contact email.
// GET /api/bookings?email=user@example.com
func (s *HTTPServer) handleBookingsByEmail(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_by_email")

	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	bookings, err := s.sched.BookingsByEmail(r.Context(), email)
	if err != nil {
		s.log.Error().Err(err).Msg("list bookings failed")
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// handleBookingByID cancels a booking.
// DELETE /api/bookings/{id}?email=user@example.com
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("cancel")

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/bookings/"
	idStr := strings.TrimPrefix(r.URL.Path, prefix)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := s.sched.Cancel(r.Context(), id, email); err != nil {
		if errors.Is(err, scheduler.ErrNotFound) {
			writeError(w, http.StatusNotFound, "booking not found")
			return
		}
		s.log.Error().Err(err).Int64("booking_id", id).Msg("cancel failed")
		writeError(w, http.StatusInternalServerError, "failed to cancel booking")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
