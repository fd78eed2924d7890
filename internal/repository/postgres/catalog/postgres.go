package catalog

import (
	"context"
	"errors"

	"dna-clinic-go/internal/db"
	catalogdomain "dna-clinic-go/internal/domain/catalog"
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
	return db.ListIDs(r.db.WithContext(ctx), "services", prefix)
}

func (r *PostgresRepository) List(ctx context.Context) ([]catalogdomain.Offering, error) {
	var offerings []catalogdomain.Offering
	if err := r.db.WithContext(ctx).Order("id asc").Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *PostgresRepository) ListByType(ctx context.Context, offeringType string) ([]catalogdomain.Offering, error) {
	var offerings []catalogdomain.Offering
	if err := r.db.WithContext(ctx).
		Where("type = ?", offeringType).
		Order("id asc").
		Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&catalogdomain.Offering{}).
		Where("type <> ''").
		Distinct("type").
		Order("type asc").
		Pluck("type", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*catalogdomain.Offering, error) {
	var offering catalogdomain.Offering
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&offering).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalogdomain.ErrOfferingNotFound
		}
		return nil, err
	}
	return &offering, nil
}

func (r *PostgresRepository) Create(ctx context.Context, offering *catalogdomain.Offering) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), offering)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, offering *catalogdomain.Offering) error {
	return r.db.WithContext(ctx).
		Model(&catalogdomain.Offering{}).
		Where("id = ?", offering.ID).
		Updates(map[string]interface{}{
			"type":        offering.Type,
			"name":        offering.Name,
			"description": offering.Description,
			"price":       offering.Price,
			"image":       offering.Image,
			"updated_at":  offering.UpdatedAt,
		}).Error
}
