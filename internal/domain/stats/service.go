package stats

import (
	"context"
	"sync"
	"time"

	"dna-clinic-go/internal/domain/lifecycle"
	"github.com/shopspring/decimal"
)

type Service struct {
	repo              Repository
	topServicesConfig TopServicesConfig
	topServicesCache  topServicesCache
	now               func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithTopServicesConfig(repo, TopServicesConfig{
		Enabled:       true,
		LookbackDays:  defaultTopServicesLookbackDays,
		MinBookings:   defaultTopServicesMinBookings,
		ResponseCount: defaultTopServicesResponseCount,
		CacheTTL:      defaultTopServicesCacheTTL,
	})
}

func NewServiceWithTopServicesConfig(repo Repository, cfg TopServicesConfig) *Service {
	return &Service{
		repo:              repo,
		topServicesConfig: normalizeTopServicesConfig(cfg),
		now:               time.Now,
	}
}

func (s *Service) Revenue(ctx context.Context, filter RangeFilter) (RevenueSummary, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return RevenueSummary{}, err
	}
	result, err := s.repo.Revenue(ctx, filter)
	if err != nil {
		return RevenueSummary{}, err
	}

	days := daysBetweenInclusive(filter.From, filter.To)
	result.AvgPerDay = decimal.Zero
	if days > 0 {
		result.AvgPerDay = result.Total.Div(decimal.NewFromInt(int64(days))).Round(2)
	}
	return result, nil
}

func (s *Service) MonthlyRevenue(ctx context.Context, filter RangeFilter) ([]MonthlyRevenue, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	return s.repo.MonthlyRevenue(ctx, filter)
}

// BookingsByStatus reports every known status, zero counts included, in
// lifecycle order.
func (s *Service) BookingsByStatus(ctx context.Context, filter RangeFilter) ([]StatusCount, error) {
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	rows, err := s.repo.BookingsByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] += row.Count
	}

	statuses := lifecycle.BookingStatuses()
	result := make([]StatusCount, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, StatusCount{Status: string(status), Count: counts[string(status)]})
		delete(counts, string(status))
	}
	for _, row := range rows {
		if count, ok := counts[row.Status]; ok {
			result = append(result, StatusCount{Status: row.Status, Count: count})
			delete(counts, row.Status)
		}
	}
	return result, nil
}

func (s *Service) TopServices(ctx context.Context) (TopServicesResult, error) {
	if !s.topServicesConfig.Enabled {
		return TopServicesResult{Status: TopServicesStatusDisabled, Items: []ServiceUsage{}}, nil
	}

	now := s.now()
	if s.topServicesConfig.CacheTTL > 0 {
		if result, ok := s.topServicesCache.Get(now); ok {
			return result, nil
		}
	}

	rows, bookings, err := s.repo.TopServices(ctx, s.topServicesFilter(now))
	if err != nil {
		return TopServicesResult{}, err
	}
	result := s.buildTopServicesResult(rows, bookings)
	if s.topServicesConfig.CacheTTL > 0 {
		s.topServicesCache.Set(result, now.Add(s.topServicesConfig.CacheTTL))
	}
	return result, nil
}

func (s *Service) Compare(ctx context.Context, filter CompareFilter) (CompareResult, error) {
	if err := validateRange(filter.FromA, filter.ToA); err != nil {
		return CompareResult{}, err
	}
	if err := validateRange(filter.FromB, filter.ToB); err != nil {
		return CompareResult{}, err
	}

	resultA, err := s.repo.Revenue(ctx, RangeFilter{From: filter.FromA, To: filter.ToA})
	if err != nil {
		return CompareResult{}, err
	}
	resultB, err := s.repo.Revenue(ctx, RangeFilter{From: filter.FromB, To: filter.ToB})
	if err != nil {
		return CompareResult{}, err
	}

	deltaAmount := resultA.Total.Sub(resultB.Total)
	deltaPercent := decimal.Zero
	if !resultB.Total.IsZero() {
		deltaPercent = deltaAmount.Div(resultB.Total).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return CompareResult{
		PeriodA: PeriodSummary{
			From:     filter.FromA.Format("2006-01-02"),
			To:       filter.ToA.Format("2006-01-02"),
			Total:    resultA.Total,
			Invoices: resultA.Invoices,
		},
		PeriodB: PeriodSummary{
			From:     filter.FromB.Format("2006-01-02"),
			To:       filter.ToB.Format("2006-01-02"),
			Total:    resultB.Total,
			Invoices: resultB.Invoices,
		},
		Delta: DeltaResult{Amount: deltaAmount, Percent: deltaPercent},
	}, nil
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return ErrInvalidRange
	}
	return nil
}

func daysBetweenInclusive(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

const (
	defaultTopServicesLookbackDays  = 90
	defaultTopServicesMinBookings   = 5
	defaultTopServicesResponseCount = 5
	defaultTopServicesCacheTTL      = time.Minute
)

func normalizeTopServicesConfig(cfg TopServicesConfig) TopServicesConfig {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = defaultTopServicesLookbackDays
	}
	if cfg.MinBookings < 0 {
		cfg.MinBookings = defaultTopServicesMinBookings
	}
	if cfg.ResponseCount <= 0 {
		cfg.ResponseCount = defaultTopServicesResponseCount
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	return cfg
}

// topServicesFilter covers the last LookbackDays whole days up to the end of today.
func (s *Service) topServicesFilter(now time.Time) TopServicesFilter {
	current := now.UTC()
	to := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -s.topServicesConfig.LookbackDays)
	return TopServicesFilter{From: from, To: to, ResponseCount: s.topServicesConfig.ResponseCount}
}

func (s *Service) buildTopServicesResult(rows []ServiceUsage, bookings int64) TopServicesResult {
	if bookings < int64(s.topServicesConfig.MinBookings) || len(rows) == 0 {
		return TopServicesResult{Status: TopServicesStatusNeedMoreData, Items: []ServiceUsage{}}
	}
	if len(rows) > s.topServicesConfig.ResponseCount {
		rows = rows[:s.topServicesConfig.ResponseCount]
	}
	return TopServicesResult{Status: TopServicesStatusOK, Items: cloneUsage(rows)}
}

type topServicesCache struct {
	mu        sync.RWMutex
	result    TopServicesResult
	expiresAt time.Time
}

func (c *topServicesCache) Get(now time.Time) (TopServicesResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.expiresAt.After(now) {
		return TopServicesResult{}, false
	}
	return TopServicesResult{Status: c.result.Status, Items: cloneUsage(c.result.Items)}, true
}

func (c *topServicesCache) Set(result TopServicesResult, expiresAt time.Time) {
	c.mu.Lock()
	c.result = TopServicesResult{Status: result.Status, Items: cloneUsage(result.Items)}
	c.expiresAt = expiresAt
	c.mu.Unlock()
}

func cloneUsage(rows []ServiceUsage) []ServiceUsage {
	if rows == nil {
		return nil
	}
	cloned := make([]ServiceUsage, len(rows))
	copy(cloned, rows)
	return cloned
}
