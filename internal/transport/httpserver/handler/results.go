package handler

import (
	"net/http"
	"strconv"
	"time"

	resultdomain "dna-clinic-go/internal/domain/result"
)

type resultResponse struct {
	ID          string    `json:"id"`
	CustomerID  *string   `json:"customer_id"`
	StaffID     *string   `json:"staff_id"`
	ServiceID   *string   `json:"service_id"`
	BookingID   string    `json:"booking_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type locusResponse struct {
	Name     string   `json:"name"`
	AllelesA []string `json:"alleles_a"`
	AllelesB []string `json:"alleles_b"`
	Match    bool     `json:"match"`
}

type assessmentResponse struct {
	Result      resultResponse  `json:"result"`
	Loci        []locusResponse `json:"loci"`
	Total       int             `json:"total"`
	Matching    int             `json:"matching"`
	Mismatching int             `json:"mismatching"`
	Percentage  float64         `json:"percentage"`
	Conclusion  string          `json:"conclusion"`
	Note        string          `json:"note,omitempty"`
}

type createResultRequest struct {
	BookingID   string `json:"booking_id"`
	StaffID     string `json:"staff_id"`
	Date        Date   `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type updateResultRequest struct {
	Date        Date   `json:"date"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h *Handlers) ListResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.Results.List(r.Context())
	if err != nil {
		h.fail(w, "results.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponses(results))
}

func (h *Handlers) ListResultsByBooking(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	if !isStaff(principal) {
		if err := h.Bookings.EnsureOwner(r.Context(), id, principal.UserID); err != nil {
			h.fail(w, "results.by_booking", err, "booking_id", id, "user_id", principal.UserID)
			return
		}
	}
	results, err := h.Results.ListByBooking(r.Context(), id)
	if err != nil {
		h.fail(w, "results.by_booking", err, "booking_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponses(results))
}

func (h *Handlers) ListMyResults(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	results, err := h.Results.ListByCustomer(r.Context(), principal.UserID)
	if err != nil {
		h.fail(w, "results.mine", err, "user_id", principal.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toResultResponses(results))
}

func (h *Handlers) GetResult(w http.ResponseWriter, r *http.Request) {
	result, ok := h.visibleResult(w, r, "results.get")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toResultResponse(*result))
}

func (h *Handlers) AssessResult(w http.ResponseWriter, r *http.Request) {
	result, ok := h.visibleResult(w, r, "results.assess")
	if !ok {
		return
	}
	_, assessment, err := h.Results.Assess(r.Context(), result.ID)
	if err != nil {
		h.fail(w, "results.assess", err, "result_id", result.ID)
		return
	}

	loci := make([]locusResponse, 0, len(assessment.Loci))
	for _, locus := range assessment.Loci {
		loci = append(loci, locusResponse{
			Name:     locus.Name,
			AllelesA: locus.AllelesA,
			AllelesB: locus.AllelesB,
			Match:    locus.Match,
		})
	}
	writeJSON(w, http.StatusOK, assessmentResponse{
		Result:      toResultResponse(*result),
		Loci:        loci,
		Total:       assessment.Total,
		Matching:    assessment.Matching,
		Mismatching: assessment.Mismatching,
		Percentage:  assessment.Percentage,
		Conclusion:  string(assessment.Conclusion),
		Note:        assessment.Note,
	})
}

// ResultPDF streams the rendered report inline; nothing is persisted.
func (h *Handlers) ResultPDF(w http.ResponseWriter, r *http.Request) {
	result, ok := h.visibleResult(w, r, "results.pdf")
	if !ok {
		return
	}
	data, err := h.Results.Report(r.Context(), result.ID)
	if err != nil {
		h.fail(w, "results.pdf", err, "result_id", result.ID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="ket-qua-`+result.ID+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handlers) visibleResult(w http.ResponseWriter, r *http.Request, op string) (*resultdomain.TestResult, bool) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return nil, false
	}
	result, err := h.Results.Get(r.Context(), id)
	if err != nil {
		h.fail(w, op, err, "result_id", id)
		return nil, false
	}
	if isStaff(principal) {
		return result, true
	}
	if result.CustomerID == nil || *result.CustomerID != principal.UserID {
		writeError(w, http.StatusForbidden, "forbidden", "Bạn không có quyền xem kết quả này")
		return nil, false
	}
	return result, true
}

func (h *Handlers) CreateResult(w http.ResponseWriter, r *http.Request) {
	var req createResultRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.StaffID == "" {
		principal, ok := h.principal(w, r)
		if !ok {
			return
		}
		req.StaffID = principal.UserID
	}
	result, err := h.Results.Create(r.Context(), resultdomain.CreateInput{
		BookingID:   req.BookingID,
		StaffID:     req.StaffID,
		Date:        req.Date.Time,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, "results.create", err, "booking_id", req.BookingID)
		return
	}
	writeMessage(w, http.StatusCreated, "Ghi nhận kết quả thành công", toResultResponse(*result))
}

func (h *Handlers) UpdateResult(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req updateResultRequest
	if !h.decode(w, r, &req) {
		return
	}
	result, err := h.Results.Update(r.Context(), id, resultdomain.UpdateInput{
		Date:        req.Date.Time,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, "results.update", err, "result_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật kết quả thành công", toResultResponse(*result))
}

func (h *Handlers) DeleteResult(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.Results.Delete(r.Context(), id); err != nil {
		h.fail(w, "results.delete", err, "result_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa kết quả thành công", nil)
}

func toResultResponses(results []resultdomain.TestResult) []resultResponse {
	response := make([]resultResponse, 0, len(results))
	for _, result := range results {
		response = append(response, toResultResponse(result))
	}
	return response
}

func toResultResponse(result resultdomain.TestResult) resultResponse {
	return resultResponse{
		ID:          result.ID,
		CustomerID:  result.CustomerID,
		StaffID:     result.StaffID,
		ServiceID:   result.ServiceID,
		BookingID:   result.BookingID,
		Date:        result.Date,
		Description: result.Description,
		Status:      result.Status,
		CreatedAt:   result.CreatedAt,
		UpdatedAt:   result.UpdatedAt,
	}
}
