package relative

import (
	"context"
	"errors"

	"dna-clinic-go/internal/db"
	"dna-clinic-go/internal/domain/ids"
	relativedomain "dna-clinic-go/internal/domain/relative"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "relatives", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*relativedomain.Relative, error) {
	var relative relativedomain.Relative
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&relative).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, relativedomain.ErrRelativeNotFound
		}
		return nil, err
	}
	return &relative, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]relativedomain.Relative, error) {
	return r.find(ctx, nil)
}

func (r *PostgresRepository) ListByBooking(ctx context.Context, bookingID string) ([]relativedomain.Relative, error) {
	return r.find(ctx, map[string]interface{}{"booking_id": bookingID})
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]relativedomain.Relative, error) {
	return r.find(ctx, map[string]interface{}{"user_id": userID})
}

func (r *PostgresRepository) find(ctx context.Context, where map[string]interface{}) ([]relativedomain.Relative, error) {
	query := r.db.WithContext(ctx)
	if len(where) > 0 {
		query = query.Where(where)
	}
	var relatives []relativedomain.Relative
	if err := query.Order("id asc").Find(&relatives).Error; err != nil {
		return nil, err
	}
	return relatives, nil
}

func (r *PostgresRepository) Create(ctx context.Context, relative *relativedomain.Relative) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), relative)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, relative *relativedomain.Relative) error {
	return r.db.WithContext(ctx).
		Model(&relativedomain.Relative{}).
		Where("id = ?", relative.ID).
		Updates(map[string]interface{}{
			"user_id":      relative.UserID,
			"booking_id":   relative.BookingID,
			"fullname":     relative.Fullname,
			"gender":       relative.Gender,
			"birthdate":    relative.Birthdate,
			"relationship": relative.Relationship,
		}).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "users", id)
}

func (r *PostgresRepository) BookingExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "bookings", id)
}
