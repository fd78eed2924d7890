package handler

import (
	"net/http"
	"strings"
	"time"

	bookingdomain "dna-clinic-go/internal/domain/booking"
	userdomain "dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/transport/httpserver/middleware"
)

type bookingResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	StaffID    *string   `json:"staff_id"`
	ServiceID  string    `json:"service_id"`
	Date       time.Time `json:"date"`
	Address    string    `json:"address"`
	Method     string    `json:"method"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type createBookingRequest struct {
	CustomerID string `json:"customer_id"`
	StaffID    string `json:"staff_id"`
	ServiceID  string `json:"service_id"`
	Date       Date   `json:"date"`
	Address    string `json:"address"`
	Method     string `json:"method"`
}

type updateBookingRequest struct {
	Date    Date   `json:"date"`
	Address string `json:"address"`
	StaffID string `json:"staff_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.List(r.Context())
	if err != nil {
		h.fail(w, "appointments.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (h *Handlers) ListBookingsByService(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	bookings, err := h.Bookings.ListByService(r.Context(), id)
	if err != nil {
		h.fail(w, "appointments.by_service", err, "service_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (h *Handlers) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	bookings, err := h.Bookings.ListByCustomer(r.Context(), principal.UserID)
	if err != nil {
		h.fail(w, "appointments.mine", err, "user_id", principal.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

// Schedule lists bookings in [from, to); staff callers see only their own
// unless all=true.
func (h *Handlers) Schedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	staffID := strings.TrimSpace(query.Get("staff_id"))
	if staffID == "" && principal.Role == userdomain.RoleStaff && query.Get("all") != "true" {
		staffID = principal.UserID
	}

	var fromValue, toValue time.Time
	if from != nil {
		fromValue = *from
	}
	if to != nil {
		toValue = *to
	}
	bookings, err := h.Bookings.Schedule(r.Context(), fromValue, toValue, staffID)
	if err != nil {
		h.fail(w, "appointments.schedule", err, "staff_id", staffID)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	result, err := h.Bookings.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "appointments.get", err, "booking_id", id)
		return
	}
	if !isStaff(principal) && result.CustomerID != principal.UserID {
		h.fail(w, "appointments.get", bookingdomain.ErrNotOwner, "booking_id", id, "user_id", principal.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(*result))
}

// CreateBooking is public. A signed-in customer always books for themself.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !h.decode(w, r, &req) {
		return
	}
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok && !isStaff(principal) {
		req.CustomerID = principal.UserID
		req.StaffID = ""
	}

	result, err := h.Bookings.Create(r.Context(), bookingdomain.CreateInput{
		CustomerID: req.CustomerID,
		StaffID:    req.StaffID,
		ServiceID:  req.ServiceID,
		Date:       req.Date.Time,
		Address:    req.Address,
		Method:     req.Method,
	})
	if err != nil {
		h.fail(w, "appointments.create", err, "customer_id", req.CustomerID, "service_id", req.ServiceID)
		return
	}
	writeMessage(w, http.StatusCreated, "Đặt lịch thành công", toBookingResponse(*result))
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req updateBookingRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.Bookings.Update(r.Context(), id, bookingdomain.UpdateInput{
		Date:    req.Date.Time,
		Address: req.Address,
		StaffID: req.StaffID,
	})
	if err != nil {
		h.fail(w, "appointments.update", err, "booking_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật lịch hẹn thành công", toBookingResponse(*result))
}

func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.Bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, "appointments.update_status", err, "booking_id", id, "status", req.Status)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật trạng thái thành công", toBookingResponse(*result))
}

func (h *Handlers) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	report, err := h.Bookings.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, "appointments.delete", err, "booking_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa lịch hẹn thành công", toCascadeResponse(report))
}

func toBookingResponses(bookings []bookingdomain.Booking) []bookingResponse {
	response := make([]bookingResponse, 0, len(bookings))
	for _, item := range bookings {
		response = append(response, toBookingResponse(item))
	}
	return response
}

func toBookingResponse(item bookingdomain.Booking) bookingResponse {
	return bookingResponse{
		ID:         item.ID,
		CustomerID: item.CustomerID,
		StaffID:    item.StaffID,
		ServiceID:  item.ServiceID,
		Date:       item.Date,
		Address:    item.Address,
		Method:     string(item.Method),
		Status:     string(item.Status),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
