package handler

import (
	"net/http"
	"time"

	kitdomain "dna-clinic-go/internal/domain/kit"
)

type kitResponse struct {
	ID          string     `json:"id"`
	CustomerID  *string    `json:"customer_id"`
	StaffID     *string    `json:"staff_id"`
	BookingID   string     `json:"booking_id"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	ReceiveDate *time.Time `json:"receive_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type kitTrackingResponse struct {
	kitResponse
	BookingDate   time.Time `json:"booking_date"`
	ServiceID     string    `json:"service_id"`
	Method        string    `json:"method"`
	BookingStatus string    `json:"booking_status"`
}

type createKitRequest struct {
	BookingID   string `json:"booking_id"`
	StaffID     string `json:"staff_id"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateKitRequest struct {
	StaffID     string `json:"staff_id"`
	Description string `json:"description"`
}

func (h *Handlers) ListKits(w http.ResponseWriter, r *http.Request) {
	kits, err := h.Kits.List(r.Context())
	if err != nil {
		h.fail(w, "kits.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toKitResponses(kits))
}

func (h *Handlers) KitCollection(w http.ResponseWriter, r *http.Request) {
	kits, err := h.Kits.Collection(r.Context())
	if err != nil {
		h.fail(w, "kits.collection", err)
		return
	}
	writeJSON(w, http.StatusOK, toKitResponses(kits))
}

// KitTracking lists the caller's kits with their booking context.
func (h *Handlers) KitTracking(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	customerID := principal.UserID
	if requested := r.URL.Query().Get("customer_id"); requested != "" && isStaff(principal) {
		customerID = requested
	}

	tracking, err := h.Kits.Tracking(r.Context(), customerID)
	if err != nil {
		h.fail(w, "kits.tracking", err, "customer_id", customerID)
		return
	}
	response := make([]kitTrackingResponse, 0, len(tracking))
	for _, item := range tracking {
		response = append(response, kitTrackingResponse{
			kitResponse:   toKitResponse(item.Kit),
			BookingDate:   item.BookingDate,
			ServiceID:     item.ServiceID,
			Method:        string(item.Method),
			BookingStatus: string(item.BookingStatus),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetKit(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	kit, err := h.Kits.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "kits.get", err, "kit_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toKitResponse(*kit))
}

func (h *Handlers) GetKitByBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	kit, err := h.Kits.GetByBooking(r.Context(), id)
	if err != nil {
		h.fail(w, "kits.by_booking", err, "booking_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toKitResponse(*kit))
}

func (h *Handlers) CreateKit(w http.ResponseWriter, r *http.Request) {
	var req createKitRequest
	if !h.decode(w, r, &req) {
		return
	}
	kit, err := h.Kits.Create(r.Context(), kitdomain.CreateInput{
		BookingID:   req.BookingID,
		StaffID:     req.StaffID,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, "kits.create", err, "booking_id", req.BookingID)
		return
	}
	writeMessage(w, http.StatusCreated, "Tạo kit thành công", toKitResponse(*kit))
}

func (h *Handlers) UpdateKit(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req updateKitRequest
	if !h.decode(w, r, &req) {
		return
	}
	kit, err := h.Kits.Update(r.Context(), id, kitdomain.UpdateInput{StaffID: req.StaffID, Description: req.Description})
	if err != nil {
		h.fail(w, "kits.update", err, "kit_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật kit thành công", toKitResponse(*kit))
}

func (h *Handlers) UpdateKitStatus(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req statusRequest
	if !h.decode(w, r, &req) {
		return
	}
	kit, err := h.Kits.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, "kits.update_status", err, "kit_id", id, "status", req.Status)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật trạng thái kit thành công", toKitResponse(*kit))
}

func (h *Handlers) DeleteKit(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.Kits.Delete(r.Context(), id); err != nil {
		h.fail(w, "kits.delete", err, "kit_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa kit thành công", nil)
}

func toKitResponses(kits []kitdomain.Kit) []kitResponse {
	response := make([]kitResponse, 0, len(kits))
	for _, kit := range kits {
		response = append(response, toKitResponse(kit))
	}
	return response
}

func toKitResponse(kit kitdomain.Kit) kitResponse {
	return kitResponse{
		ID:          kit.ID,
		CustomerID:  kit.CustomerID,
		StaffID:     kit.StaffID,
		BookingID:   kit.BookingID,
		Description: kit.Description,
		Status:      string(kit.Status),
		ReceiveDate: kit.ReceiveDate,
		CreatedAt:   kit.CreatedAt,
		UpdatedAt:   kit.UpdatedAt,
	}
}
