package handler

import (
	"net/http"
	"time"

	relativedomain "dna-clinic-go/internal/domain/relative"
)

type relativeResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BookingID    *string   `json:"booking_id"`
	Fullname     string    `json:"fullname"`
	Gender       string    `json:"gender"`
	Birthdate    *string   `json:"birthdate"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
}

type relativeRequest struct {
	UserID       string `json:"user_id"`
	BookingID    string `json:"booking_id"`
	Fullname     string `json:"fullname"`
	Gender       string `json:"gender"`
	Birthdate    *Date  `json:"birthdate"`
	Relationship string `json:"relationship"`
}

func (h *Handlers) ListRelatives(w http.ResponseWriter, r *http.Request) {
	relatives, err := h.Relatives.List(r.Context())
	if err != nil {
		h.fail(w, "relatives.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toRelativeResponses(relatives))
}

func (h *Handlers) ListRelativesByBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	if !isStaff(principal) {
		if err := h.Bookings.EnsureOwner(r.Context(), id, principal.UserID); err != nil {
			h.fail(w, "relatives.by_booking", err, "booking_id", id, "user_id", principal.UserID)
			return
		}
	}
	relatives, err := h.Relatives.ListByBooking(r.Context(), id)
	if err != nil {
		h.fail(w, "relatives.by_booking", err, "booking_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toRelativeResponses(relatives))
}

func (h *Handlers) ListRelativesByUser(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if !h.ownerOrStaff(w, r, id) {
		return
	}
	relatives, err := h.Relatives.ListByUser(r.Context(), id)
	if err != nil {
		h.fail(w, "relatives.by_user", err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toRelativeResponses(relatives))
}

func (h *Handlers) GetRelative(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	relative, err := h.Relatives.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "relatives.get", err, "relative_id", id)
		return
	}
	if !h.ownerOrStaff(w, r, relative.UserID) {
		return
	}
	writeJSON(w, http.StatusOK, toRelativeResponse(*relative))
}

func (h *Handlers) CreateRelative(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req relativeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserID == "" || !isStaff(principal) {
		req.UserID = principal.UserID
	}
	relative, err := h.Relatives.Create(r.Context(), req.input())
	if err != nil {
		h.fail(w, "relatives.create", err, "user_id", req.UserID)
		return
	}
	writeMessage(w, http.StatusCreated, "Thêm người thân thành công", toRelativeResponse(*relative))
}

func (h *Handlers) UpdateRelative(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	existing, err := h.Relatives.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "relatives.update", err, "relative_id", id)
		return
	}
	if !h.ownerOrStaff(w, r, existing.UserID) {
		return
	}
	var req relativeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserID == "" || !isStaff(principal) {
		req.UserID = existing.UserID
	}
	relative, err := h.Relatives.Update(r.Context(), id, req.input())
	if err != nil {
		h.fail(w, "relatives.update", err, "relative_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật người thân thành công", toRelativeResponse(*relative))
}

func (h *Handlers) DeleteRelative(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	existing, err := h.Relatives.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "relatives.delete", err, "relative_id", id)
		return
	}
	if !h.ownerOrStaff(w, r, existing.UserID) {
		return
	}
	if err := h.Relatives.Delete(r.Context(), id); err != nil {
		h.fail(w, "relatives.delete", err, "relative_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa người thân thành công", nil)
}

func (req relativeRequest) input() relativedomain.Input {
	return relativedomain.Input{
		UserID:       req.UserID,
		BookingID:    req.BookingID,
		Fullname:     req.Fullname,
		Gender:       req.Gender,
		Birthdate:    req.Birthdate.Ptr(),
		Relationship: req.Relationship,
	}
}

func toRelativeResponses(relatives []relativedomain.Relative) []relativeResponse {
	response := make([]relativeResponse, 0, len(relatives))
	for _, relative := range relatives {
		response = append(response, toRelativeResponse(relative))
	}
	return response
}

func toRelativeResponse(relative relativedomain.Relative) relativeResponse {
	return relativeResponse{
		ID:           relative.ID,
		UserID:       relative.UserID,
		BookingID:    relative.BookingID,
		Fullname:     relative.Fullname,
		Gender:       relative.Gender,
		Birthdate:    formatDate(relative.Birthdate),
		Relationship: relative.Relationship,
		CreatedAt:    relative.CreatedAt,
	}
}
