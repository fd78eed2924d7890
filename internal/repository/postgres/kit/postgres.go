package kit

import (
	"context"
	"errors"
	"time"

	"dna-clinic-go/internal/db"
	"dna-clinic-go/internal/domain/ids"
	kitdomain "dna-clinic-go/internal/domain/kit"
	"dna-clinic-go/internal/domain/lifecycle"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "kits", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*kitdomain.Kit, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetByBooking(ctx context.Context, bookingID string) (*kitdomain.Kit, error) {
	return r.first(ctx, "booking_id = ?", bookingID)
}

func (r *PostgresRepository) first(ctx context.Context, query string, arg interface{}) (*kitdomain.Kit, error) {
	var kit kitdomain.Kit
	if err := r.db.WithContext(ctx).Where(query, arg).First(&kit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, kitdomain.ErrKitNotFound
		}
		return nil, err
	}
	return &kit, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]kitdomain.Kit, error) {
	var kits []kitdomain.Kit
	if err := r.db.WithContext(ctx).Order("id asc").Find(&kits).Error; err != nil {
		return nil, err
	}
	return kits, nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, statuses []lifecycle.KitStatus) ([]kitdomain.Kit, error) {
	var kits []kitdomain.Kit
	if err := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("id asc").
		Find(&kits).Error; err != nil {
		return nil, err
	}
	return kits, nil
}

func (r *PostgresRepository) ListTracking(ctx context.Context, customerID string) ([]kitdomain.Tracking, error) {
	type trackingRow struct {
		kitdomain.Kit
		BookingDate   time.Time `gorm:"column:booking_date"`
		ServiceID     string    `gorm:"column:service_id"`
		Method        string    `gorm:"column:method"`
		BookingStatus string    `gorm:"column:booking_status"`
	}

	var rows []trackingRow
	if err := r.db.WithContext(ctx).
		Table("kits").
		Select("kits.*, bookings.date AS booking_date, bookings.service_id, bookings.method, bookings.status AS booking_status").
		Joins("join bookings on bookings.id = kits.booking_id").
		Where("bookings.customer_id = ?", customerID).
		Order("bookings.date desc, kits.id asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	tracking := make([]kitdomain.Tracking, 0, len(rows))
	for _, row := range rows {
		tracking = append(tracking, kitdomain.Tracking{
			Kit:           row.Kit,
			BookingDate:   row.BookingDate,
			ServiceID:     row.ServiceID,
			Method:        lifecycle.Method(row.Method),
			BookingStatus: lifecycle.BookingStatus(row.BookingStatus),
		})
	}
	return tracking, nil
}

func (r *PostgresRepository) Create(ctx context.Context, kit *kitdomain.Kit) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), kit)
	if db.IsUniqueViolation(err) {
		return kitdomain.ErrKitExists
	}
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, kit *kitdomain.Kit) error {
	return r.db.WithContext(ctx).
		Model(&kitdomain.Kit{}).
		Where("id = ?", kit.ID).
		Updates(map[string]interface{}{
			"description": kit.Description,
			"staff_id":    kit.StaffID,
			"updated_at":  kit.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status lifecycle.KitStatus, receiveDate *time.Time, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&kitdomain.Kit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"receive_date": receiveDate,
			"updated_at":   at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return kitdomain.ErrKitNotFound
	}
	return nil
}

func (r *PostgresRepository) BookingCustomer(ctx context.Context, bookingID string) (string, error) {
	var customers []string
	if err := r.db.WithContext(ctx).
		Table("bookings").
		Where("id = ?", bookingID).
		Limit(1).
		Pluck("customer_id", &customers).Error; err != nil {
		return "", err
	}
	if len(customers) == 0 {
		return "", kitdomain.ErrBookingNotFound
	}
	return customers[0], nil
}

func (r *PostgresRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "users", id)
}
