package handler

import (
	"net/http"
	"time"

	invoicedomain "dna-clinic-go/internal/domain/invoice"
	"github.com/shopspring/decimal"
)

type invoiceDetailResponse struct {
	ID        string          `json:"id"`
	ServiceID string          `json:"service_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type invoiceResponse struct {
	ID        string                  `json:"id"`
	BookingID string                  `json:"booking_id"`
	Date      time.Time               `json:"date"`
	Price     decimal.Decimal         `json:"price"`
	Details   []invoiceDetailResponse `json:"details"`
	CreatedAt time.Time               `json:"created_at"`
}

type invoiceDetailRequest struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

type createInvoiceRequest struct {
	BookingID string                 `json:"booking_id"`
	Date      Date                   `json:"date"`
	Price     *decimal.Decimal       `json:"price"`
	Details   []invoiceDetailRequest `json:"details"`
}

type updateInvoiceRequest struct {
	Date  Date             `json:"date"`
	Price *decimal.Decimal `json:"price"`
}

func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Invoices.List(r.Context())
	if err != nil {
		h.fail(w, "invoices.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponses(invoices))
}

func (h *Handlers) ListInvoicesByBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	if !isStaff(principal) {
		if err := h.Bookings.EnsureOwner(r.Context(), id, principal.UserID); err != nil {
			h.fail(w, "invoices.by_booking", err, "booking_id", id, "user_id", principal.UserID)
			return
		}
	}
	invoices, err := h.Invoices.ListByBooking(r.Context(), id)
	if err != nil {
		h.fail(w, "invoices.by_booking", err, "booking_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponses(invoices))
}

func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	invoice, err := h.Invoices.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "invoices.get", err, "invoice_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(*invoice))
}

func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}
	details := make([]invoicedomain.DetailInput, 0, len(req.Details))
	for _, detail := range req.Details {
		details = append(details, invoicedomain.DetailInput{ServiceID: detail.ServiceID, Quantity: detail.Quantity})
	}
	invoice, err := h.Invoices.Create(r.Context(), invoicedomain.CreateInput{
		BookingID: req.BookingID,
		Date:      req.Date.Time,
		Price:     req.Price,
		Details:   details,
	})
	if err != nil {
		h.fail(w, "invoices.create", err, "booking_id", req.BookingID)
		return
	}
	writeMessage(w, http.StatusCreated, "Tạo hóa đơn thành công", toInvoiceResponse(*invoice))
}

func (h *Handlers) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req updateInvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}
	invoice, err := h.Invoices.Update(r.Context(), id, invoicedomain.UpdateInput{Date: req.Date.Time, Price: req.Price})
	if err != nil {
		h.fail(w, "invoices.update", err, "invoice_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật hóa đơn thành công", toInvoiceResponse(*invoice))
}

func (h *Handlers) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.Invoices.Delete(r.Context(), id); err != nil {
		h.fail(w, "invoices.delete", err, "invoice_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa hóa đơn thành công", nil)
}

func toInvoiceResponses(invoices []invoicedomain.Invoice) []invoiceResponse {
	response := make([]invoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		response = append(response, toInvoiceResponse(invoice))
	}
	return response
}

func toInvoiceResponse(invoice invoicedomain.Invoice) invoiceResponse {
	details := make([]invoiceDetailResponse, 0, len(invoice.Details))
	for _, detail := range invoice.Details {
		details = append(details, invoiceDetailResponse{
			ID:        detail.ID,
			ServiceID: detail.ServiceID,
			Quantity:  detail.Quantity,
			Price:     detail.Price,
		})
	}
	return invoiceResponse{
		ID:        invoice.ID,
		BookingID: invoice.BookingID,
		Date:      invoice.Date,
		Price:     invoice.Price,
		Details:   details,
		CreatedAt: invoice.CreatedAt,
	}
}
