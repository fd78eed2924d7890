package stats

import (
	"context"
	"fmt"
	"time"

	"dna-clinic-go/internal/domain/lifecycle"
	statsdomain "dna-clinic-go/internal/domain/stats"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Revenue sums invoices dated within [From, To] inclusive of the whole To day.
func (r *PostgresRepository) Revenue(ctx context.Context, filter statsdomain.RangeFilter) (statsdomain.RevenueSummary, error) {
	query := "SELECT COALESCE(SUM(i.price), 0) AS total, COUNT(*) AS invoices FROM invoices i WHERE i.date >= ? AND i.date < ?"

	var row struct {
		Total    decimal.Decimal `gorm:"column:total"`
		Invoices int64           `gorm:"column:invoices"`
	}
	if err := r.db.WithContext(ctx).Raw(query, filter.From, endOfDay(filter.To)).Scan(&row).Error; err != nil {
		return statsdomain.RevenueSummary{}, err
	}
	return statsdomain.RevenueSummary{Total: row.Total, Invoices: row.Invoices}, nil
}

func (r *PostgresRepository) MonthlyRevenue(ctx context.Context, filter statsdomain.RangeFilter) ([]statsdomain.MonthlyRevenue, error) {
	periodExpr := "date_trunc('month', i.date)"
	query := fmt.Sprintf(
		"SELECT to_char(%s, 'YYYY-MM') AS month, COALESCE(SUM(i.price), 0) AS total, COUNT(*) AS invoices FROM invoices i WHERE i.date >= ? AND i.date < ? GROUP BY %s ORDER BY %s",
		periodExpr, periodExpr, periodExpr,
	)

	var rows []struct {
		Month    string          `gorm:"column:month"`
		Total    decimal.Decimal `gorm:"column:total"`
		Invoices int64           `gorm:"column:invoices"`
	}
	if err := r.db.WithContext(ctx).Raw(query, filter.From, endOfDay(filter.To)).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]statsdomain.MonthlyRevenue, 0, len(rows))
	for _, row := range rows {
		result = append(result, statsdomain.MonthlyRevenue{Month: row.Month, Total: row.Total, Invoices: row.Invoices})
	}
	return result, nil
}

func (r *PostgresRepository) BookingsByStatus(ctx context.Context, filter statsdomain.RangeFilter) ([]statsdomain.StatusCount, error) {
	query := "SELECT b.status AS status, COUNT(*) AS count FROM bookings b WHERE b.date >= ? AND b.date < ? GROUP BY b.status ORDER BY b.status"

	var rows []struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).Raw(query, filter.From, endOfDay(filter.To)).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]statsdomain.StatusCount, 0, len(rows))
	for _, row := range rows {
		result = append(result, statsdomain.StatusCount{Status: row.Status, Count: row.Count})
	}
	return result, nil
}

func (r *PostgresRepository) TopServices(ctx context.Context, filter statsdomain.TopServicesFilter) ([]statsdomain.ServiceUsage, int64, error) {
	responseCount := filter.ResponseCount
	if responseCount <= 0 {
		responseCount = 5
	}

	var countRow struct {
		Bookings int64 `gorm:"column:bookings"`
	}
	countQuery := "SELECT COUNT(*) AS bookings FROM bookings b WHERE b.date >= ? AND b.date < ? AND b.status <> ?"
	if err := r.db.WithContext(ctx).Raw(countQuery, filter.From, filter.To, string(lifecycle.BookingCancelled)).Scan(&countRow).Error; err != nil {
		return nil, 0, err
	}

	query := "SELECT s.id AS service_id, s.name AS service_name, COUNT(b.id) AS bookings, COALESCE(SUM(s.price), 0) AS revenue " +
		"FROM bookings b " +
		"JOIN services s ON s.id = b.service_id " +
		"WHERE b.date >= ? AND b.date < ? AND b.status <> ? " +
		"GROUP BY s.id, s.name " +
		"ORDER BY bookings DESC, revenue DESC, s.id " +
		"LIMIT ?"

	var rows []struct {
		ServiceID   string          `gorm:"column:service_id"`
		ServiceName string          `gorm:"column:service_name"`
		Bookings    int64           `gorm:"column:bookings"`
		Revenue     decimal.Decimal `gorm:"column:revenue"`
	}
	if err := r.db.WithContext(ctx).Raw(query, filter.From, filter.To, string(lifecycle.BookingCancelled), responseCount).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	result := make([]statsdomain.ServiceUsage, 0, len(rows))
	for _, row := range rows {
		result = append(result, statsdomain.ServiceUsage{
			ServiceID:   row.ServiceID,
			ServiceName: row.ServiceName,
			Bookings:    row.Bookings,
			Revenue:     row.Revenue,
		})
	}
	return result, countRow.Bookings, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
