package handler

import (
	"net/http"
	"time"

	statsdomain "dna-clinic-go/internal/domain/stats"
	"github.com/shopspring/decimal"
)

type revenueResponse struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Total     decimal.Decimal `json:"total"`
	Invoices  int64           `json:"invoices"`
	AvgPerDay decimal.Decimal `json:"avg_per_day"`
}

type monthlyRevenueResponse struct {
	Month    string          `json:"month"`
	Total    decimal.Decimal `json:"total"`
	Invoices int64           `json:"invoices"`
}

type statusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type serviceUsageResponse struct {
	ServiceID   string          `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Bookings    int64           `json:"bookings"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type topServicesResponse struct {
	Status string                 `json:"status"`
	Items  []serviceUsageResponse `json:"items"`
}

type periodResponse struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Total    decimal.Decimal `json:"total"`
	Invoices int64           `json:"invoices"`
}

type compareResponse struct {
	PeriodA periodResponse `json:"period_a"`
	PeriodB periodResponse `json:"period_b"`
	Delta   struct {
		Amount  decimal.Decimal `json:"amount"`
		Percent decimal.Decimal `json:"percent"`
	} `json:"delta"`
}

func (h *Handlers) Revenue(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.rangeFilter(w, r, "from", "to")
	if !ok {
		return
	}
	summary, err := h.Stats.Revenue(r.Context(), filter)
	if err != nil {
		h.fail(w, "stats.revenue", err)
		return
	}
	writeJSON(w, http.StatusOK, revenueResponse{
		From:      filter.From.Format("2006-01-02"),
		To:        filter.To.Format("2006-01-02"),
		Total:     summary.Total,
		Invoices:  summary.Invoices,
		AvgPerDay: summary.AvgPerDay,
	})
}

func (h *Handlers) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.rangeFilter(w, r, "from", "to")
	if !ok {
		return
	}
	rows, err := h.Stats.MonthlyRevenue(r.Context(), filter)
	if err != nil {
		h.fail(w, "stats.monthly_revenue", err)
		return
	}
	response := make([]monthlyRevenueResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, monthlyRevenueResponse{Month: row.Month, Total: row.Total, Invoices: row.Invoices})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) BookingsByStatus(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.rangeFilter(w, r, "from", "to")
	if !ok {
		return
	}
	rows, err := h.Stats.BookingsByStatus(r.Context(), filter)
	if err != nil {
		h.fail(w, "stats.bookings_by_status", err)
		return
	}
	response := make([]statusCountResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, statusCountResponse{Status: row.Status, Count: row.Count})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) TopServices(w http.ResponseWriter, r *http.Request) {
	result, err := h.Stats.TopServices(r.Context())
	if err != nil {
		h.fail(w, "stats.top_services", err)
		return
	}
	response := topServicesResponse{Status: string(result.Status), Items: make([]serviceUsageResponse, 0, len(result.Items))}
	for _, item := range result.Items {
		response.Items = append(response.Items, serviceUsageResponse{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Bookings:    item.Bookings,
			Revenue:     item.Revenue,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CompareRevenue(w http.ResponseWriter, r *http.Request) {
	periodA, ok := h.rangeFilter(w, r, "from_a", "to_a")
	if !ok {
		return
	}
	periodB, ok := h.rangeFilter(w, r, "from_b", "to_b")
	if !ok {
		return
	}
	result, err := h.Stats.Compare(r.Context(), statsdomain.CompareFilter{
		FromA: periodA.From,
		ToA:   periodA.To,
		FromB: periodB.From,
		ToB:   periodB.To,
	})
	if err != nil {
		h.fail(w, "stats.compare", err)
		return
	}

	var response compareResponse
	response.PeriodA = periodResponse{From: result.PeriodA.From, To: result.PeriodA.To, Total: result.PeriodA.Total, Invoices: result.PeriodA.Invoices}
	response.PeriodB = periodResponse{From: result.PeriodB.From, To: result.PeriodB.To, Total: result.PeriodB.Total, Invoices: result.PeriodB.Invoices}
	response.Delta.Amount = result.Delta.Amount
	response.Delta.Percent = result.Delta.Percent
	writeJSON(w, http.StatusOK, response)
}

// rangeFilter reads a date range from the query. A missing start defaults to
// the first day of the current month and a missing end to today.
func (h *Handlers) rangeFilter(w http.ResponseWriter, r *http.Request, fromKey, toKey string) (statsdomain.RangeFilter, bool) {
	query := r.URL.Query()
	from, err := parseDateParam(query.Get(fromKey))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return statsdomain.RangeFilter{}, false
	}
	to, err := parseDateParam(query.Get(toKey))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return statsdomain.RangeFilter{}, false
	}

	now := time.Now()
	filter := statsdomain.RangeFilter{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		To:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
	}
	if from != nil {
		filter.From = *from
	}
	if to != nil {
		filter.To = *to
	}
	return filter, true
}
