package course

import (
	"context"
	"errors"

	"dna-clinic-go/internal/db"
	coursedomain "dna-clinic-go/internal/domain/course"
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
	return db.ListIDs(r.db.WithContext(ctx), "courses", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*coursedomain.Course, error) {
	var course coursedomain.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, coursedomain.ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]coursedomain.Course, error) {
	var courses []coursedomain.Course
	if err := r.db.WithContext(ctx).Order("id asc").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *PostgresRepository) Create(ctx context.Context, course *coursedomain.Course) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), course)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, course *coursedomain.Course) error {
	return r.db.WithContext(ctx).
		Model(&coursedomain.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"manager_id":  course.ManagerID,
			"title":       course.Title,
			"description": course.Description,
			"image":       course.Image,
			"updated_at":  course.UpdatedAt,
		}).Error
}

func (r *PostgresRepository) UserExists(ctx context.Context, id string) (bool, error) {
	return db.Exists(r.db.WithContext(ctx), "users", id)
}
