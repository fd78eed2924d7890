package feedback

import (
	"context"
	"errors"

	"dna-clinic-go/internal/db"
	feedbackdomain "dna-clinic-go/internal/domain/feedback"
	"dna-clinic-go/internal/domain/ids"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "feedbacks", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*feedbackdomain.Feedback, error) {
	var feedback feedbackdomain.Feedback
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&feedback).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, feedbackdomain.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]feedbackdomain.Feedback, error) {
	var feedbacks []feedbackdomain.Feedback
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *PostgresRepository) ListByService(ctx context.Context, serviceID string) ([]feedbackdomain.Feedback, error) {
	var feedbacks []feedbackdomain.Feedback
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("created_at desc, id desc").
		Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *PostgresRepository) Create(ctx context.Context, feedback *feedbackdomain.Feedback) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), feedback)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, feedback *feedbackdomain.Feedback) error {
	return r.db.WithContext(ctx).
		Model(&feedbackdomain.Feedback{}).
		Where("id = ?", feedback.ID).
		Updates(map[string]interface{}{
			"rating":  feedback.Rating,
			"content": feedback.Content,
		}).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "users", id)
}

func (r *PostgresRepository) ServiceExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "services", id)
}
