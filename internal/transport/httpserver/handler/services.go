package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	catalogdomain "dna-clinic-go/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

type serviceResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type serviceRequest struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

type dependentResponse struct {
	Table string `json:"table"`
	Count int64  `json:"count"`
}

func (h *Handlers) ListServices(w http.ResponseWriter, r *http.Request) {
	var (
		offerings []catalogdomain.Offering
		err       error
	)
	if offeringType := strings.TrimSpace(r.URL.Query().Get("type")); offeringType != "" {
		offerings, err = h.Catalog.ListByType(r.Context(), offeringType)
	} else {
		offerings, err = h.Catalog.List(r.Context())
	}
	if err != nil {
		h.fail(w, "services.list", err)
		return
	}
	response := make([]serviceResponse, 0, len(offerings))
	for _, offering := range offerings {
		response = append(response, toServiceResponse(offering))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) ServiceCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.Categories(r.Context())
	if err != nil {
		h.fail(w, "services.categories", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handlers) GetService(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	offering, err := h.Catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "services.get", err, "service_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toServiceResponse(*offering))
}

func (h *Handlers) CreateService(w http.ResponseWriter, r *http.Request) {
	var req serviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	offering, err := h.Catalog.Create(r.Context(), req.input())
	if err != nil {
		h.fail(w, "services.create", err, "name", req.Name)
		return
	}
	writeMessage(w, http.StatusCreated, "Tạo dịch vụ thành công", toServiceResponse(*offering))
}

func (h *Handlers) UpdateService(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req serviceRequest
	if !h.decode(w, r, &req) {
		return
	}
	offering, err := h.Catalog.Update(r.Context(), id, req.input())
	if err != nil {
		h.fail(w, "services.update", err, "service_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật dịch vụ thành công", toServiceResponse(*offering))
}

// DeleteService refuses while bookings, feedback, invoice lines or results
// still reference the service.
func (h *Handlers) DeleteService(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	err := h.Catalog.Delete(r.Context(), id)
	var dependents *catalogdomain.DependentsError
	if errors.As(err, &dependents) {
		h.log.BusinessError("services.delete: has dependents", err, "service_id", id)
		response := make([]dependentResponse, 0, len(dependents.Dependents))
		for _, dependent := range dependents.Dependents {
			response = append(response, dependentResponse{Table: string(dependent.Table), Count: dependent.Count})
		}
		writeJSON(w, http.StatusConflict, struct {
			errorBody
			Dependents []dependentResponse `json:"dependents"`
		}{
			errorBody:  errorBody{Code: "has_dependents", Message: err.Error()},
			Dependents: response,
		})
		return
	}
	if err != nil {
		h.fail(w, "services.delete", err, "service_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa dịch vụ thành công", nil)
}

func (h *Handlers) DeleteServiceCascade(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	report, err := h.Catalog.DeleteCascade(r.Context(), id)
	if err != nil {
		h.fail(w, "services.delete_cascade", err, "service_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa dịch vụ và dữ liệu liên quan thành công", toCascadeResponse(report))
}

func (req serviceRequest) input() catalogdomain.OfferingInput {
	return catalogdomain.OfferingInput{
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
	}
}

func toServiceResponse(offering catalogdomain.Offering) serviceResponse {
	return serviceResponse{
		ID:          offering.ID,
		Type:        offering.Type,
		Name:        offering.Name,
		Description: offering.Description,
		Price:       offering.Price,
		Image:       offering.Image,
		CreatedAt:   offering.CreatedAt,
		UpdatedAt:   offering.UpdatedAt,
	}
}
