package notification

import (
	"context"
	"errors"

	"dna-clinic-go/internal/db"
	"dna-clinic-go/internal/domain/ids"
	notificationdomain "dna-clinic-go/internal/domain/notification"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "notifications", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*notificationdomain.Notification, error) {
	var notification notificationdomain.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationdomain.ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]notificationdomain.Notification, error) {
	var notifications []notificationdomain.Notification
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]notificationdomain.Notification, error) {
	var notifications []notificationdomain.Notification
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *PostgresRepository) Create(ctx context.Context, notification *notificationdomain.Notification) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), notification)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, notification *notificationdomain.Notification) error {
	return r.db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("id = ?", notification.ID).
		Updates(map[string]interface{}{
			"title":   notification.Title,
			"message": notification.Message,
		}).Error
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notificationdomain.ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "users", id)
}
