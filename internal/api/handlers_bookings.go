package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/dto"
	"shareit/internal/export"
	"shareit/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dto.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	booking, err := s.svc.Bookings.CreateBooking(r.Context(), bookerID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	raw := r.URL.Query().Get("approved")
	approved, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request", fmt.Sprintf("approved must be true or false, got %q", raw))
		return
	}
	booking, err := s.svc.Bookings.ApproveBooking(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	booking, err := s.svc.Bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleBookerBookings(w http.ResponseWriter, r *http.Request) {
	bookerID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	state, ok := parseState(w, r)
	if !ok {
		return
	}
	bookings, err := s.svc.Bookings.GetBookerBookings(r.Context(), bookerID, state)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleOwnerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, ok := s.ownerBookings(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	bookings, ok := s.ownerBookings(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, s.exportName, bookings); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *HTTPServer) ownerBookings(w http.ResponseWriter, r *http.Request) ([]*dto.BookingResponse, bool) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return nil, false
	}
	state, ok := parseState(w, r)
	if !ok {
		return nil, false
	}
	bookings, err := s.svc.Bookings.GetOwnerBookings(r.Context(), ownerID, state)
	if err != nil {
		writeServiceError(w, r, err)
		return nil, false
	}
	return bookings, true
}

func parseState(w http.ResponseWriter, r *http.Request) (models.BookingState, bool) {
	raw := r.URL.Query().Get("state")
	state, err := models.ParseBookingState(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown state: "+raw, "")
		return "", false
	}
	return state, true
}
