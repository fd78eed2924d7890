package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

type RangeFilter struct {
	From time.Time
	To   time.Time
}

type RevenueSummary struct {
	Total     decimal.Decimal
	Invoices  int64
	AvgPerDay decimal.Decimal
}

type MonthlyRevenue struct {
	Month    string
	Total    decimal.Decimal
	Invoices int64
}

type StatusCount struct {
	Status string
	Count  int64
}

type ServiceUsage struct {
	ServiceID   string
	ServiceName string
	Bookings    int64
	Revenue     decimal.Decimal
}

type TopServicesFilter struct {
	From          time.Time
	To            time.Time
	ResponseCount int
}

type TopServicesStatus string

const (
	TopServicesStatusOK           TopServicesStatus = "OK"
	TopServicesStatusNeedMoreData TopServicesStatus = "NEED_MORE_DATA"
	TopServicesStatusDisabled     TopServicesStatus = "TOP_SERVICES_DISABLED"
)

type TopServicesResult struct {
	Status TopServicesStatus
	Items  []ServiceUsage
}

// TopServicesConfig tunes the manager dashboard ranking. MinBookings below
// which the ranking is considered noise and withheld.
type TopServicesConfig struct {
	Enabled       bool
	LookbackDays  int
	MinBookings   int
	ResponseCount int
	CacheTTL      time.Duration
}

type CompareFilter struct {
	FromA time.Time
	ToA   time.Time
	FromB time.Time
	ToB   time.Time
}

type PeriodSummary struct {
	From     string
	To       string
	Total    decimal.Decimal
	Invoices int64
}

type DeltaResult struct {
	Amount  decimal.Decimal
	Percent decimal.Decimal
}

type CompareResult struct {
	PeriodA PeriodSummary
	PeriodB PeriodSummary
	Delta   DeltaResult
}
