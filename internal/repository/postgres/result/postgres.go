package result

import (
	"context"
	"errors"

	"dna-clinic-go/internal/db"
	bookingdomain "dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/ids"
	resultdomain "dna-clinic-go/internal/domain/result"
	bookingrepo "dna-clinic-go/internal/repository/postgres/booking"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(resultdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Bookings() bookingdomain.Repository {
	return bookingrepo.NewPostgres(r.db)
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "test_results", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*resultdomain.TestResult, error) {
	var result resultdomain.TestResult
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, resultdomain.ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]resultdomain.TestResult, error) {
	return r.find(r.db.WithContext(ctx).Order("date desc, id asc"))
}

func (r *PostgresRepository) ListByBooking(ctx context.Context, bookingID string) ([]resultdomain.TestResult, error) {
	return r.find(r.db.WithContext(ctx).Where("booking_id = ?", bookingID).Order("date desc, id asc"))
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]resultdomain.TestResult, error) {
	return r.find(r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("date desc, id asc"))
}

func (r *PostgresRepository) find(query *gorm.DB) ([]resultdomain.TestResult, error) {
	var results []resultdomain.TestResult
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *PostgresRepository) Create(ctx context.Context, result *resultdomain.TestResult) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), result)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, result *resultdomain.TestResult) error {
	return r.db.WithContext(ctx).
		Model(&resultdomain.TestResult{}).
		Where("id = ?", result.ID).
		Updates(map[string]interface{}{
			"date":        result.Date,
			"description": result.Description,
			"status":      result.Status,
			"updated_at":  result.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) ReportNames(ctx context.Context, customerID, serviceID string) (string, string, error) {
	customer, err := r.pluckOne(ctx, "users", "fullname", customerID)
	if err != nil {
		return "", "", err
	}
	service, err := r.pluckOne(ctx, "services", "name", serviceID)
	if err != nil {
		return "", "", err
	}
	return customer, service, nil
}

func (r *PostgresRepository) pluckOne(ctx context.Context, table, column, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	var values []string
	if err := r.db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		Limit(1).
		Pluck(column, &values).Error; err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}
