package booking

import (
	"context"
	"errors"
	"time"

	"dna-clinic-go/internal/db"
	bookingdomain "dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/ids"
	"dna-clinic-go/internal/domain/lifecycle"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(bookingdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "bookings", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*bookingdomain.Booking, error) {
	return r.first(r.db.WithContext(ctx), id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*bookingdomain.Booking, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *PostgresRepository) first(query *gorm.DB, id string) (*bookingdomain.Booking, error) {
	var booking bookingdomain.Booking
	if err := query.Where("id = ?", id).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingdomain.ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]bookingdomain.Booking, error) {
	return r.find(r.db.WithContext(ctx).Order("date desc, id asc"))
}

func (r *PostgresRepository) ListByService(ctx context.Context, serviceID string) ([]bookingdomain.Booking, error) {
	return r.find(r.db.WithContext(ctx).Where("service_id = ?", serviceID).Order("date desc, id asc"))
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID string) ([]bookingdomain.Booking, error) {
	return r.find(r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("date desc, id asc"))
}

func (r *PostgresRepository) ListBetween(ctx context.Context, from, to time.Time, staffID string) ([]bookingdomain.Booking, error) {
	query := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date asc, id asc")
	if staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	return r.find(query)
}

func (r *PostgresRepository) find(query *gorm.DB) ([]bookingdomain.Booking, error) {
	var bookings []bookingdomain.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *PostgresRepository) Create(ctx context.Context, booking *bookingdomain.Booking) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), booking)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, booking *bookingdomain.Booking) error {
	return r.db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]interface{}{
			"date":       booking.Date,
			"address":    booking.Address,
			"staff_id":   booking.StaffID,
			"updated_at": booking.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status lifecycle.BookingStatus, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&bookingdomain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return bookingdomain.ErrBookingNotFound
	}
	return nil
}

func (r *PostgresRepository) KitStatus(ctx context.Context, bookingID string) (*lifecycle.KitStatus, error) {
	var statuses []string
	if err := r.db.WithContext(ctx).
		Table("kits").
		Where("booking_id = ?", bookingID).
		Limit(1).
		Pluck("status", &statuses).Error; err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, nil
	}
	status, err := lifecycle.ParseKitStatus(statuses[0])
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *PostgresRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "users", id)
}

func (r *PostgresRepository) ServiceExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "services", id)
}
