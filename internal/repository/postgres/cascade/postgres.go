package cascade

import (
	"context"
	"fmt"

	"dna-clinic-go/internal/db"
	cascadedomain "dna-clinic-go/internal/domain/cascade"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(conn *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: conn}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(cascadedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// Savepoint runs fn so that its failure only undoes its own statements; a
// failed statement would otherwise abort the whole postgres transaction.
func (r *PostgresRepository) Savepoint(ctx context.Context, name string, fn func(cascadedomain.Repository) error) error {
	tx := r.db.WithContext(ctx)
	if err := tx.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(&PostgresRepository{db: tx}); err != nil {
		if rbErr := tx.RollbackTo(name).Error; rbErr != nil {
			return rbErr
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) SelectIDs(ctx context.Context, table cascadedomain.Table, column string, values []string) ([]string, error) {
	var ids []string
	if len(values) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).
		Table(string(table)).
		Where(column+" IN ?", values).
		Order("id asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) Count(ctx context.Context, table cascadedomain.Table, column string, values []string) (int64, error) {
	var count int64
	if len(values) == 0 {
		return 0, nil
	}
	if err := r.db.WithContext(ctx).Table(string(table)).Where(column+" IN ?", values).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, table cascadedomain.Table, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Exec("DELETE FROM "+string(table)+" WHERE id IN ?", ids)
	if result.Error != nil {
		if db.IsForeignKeyViolation(result.Error) {
			return 0, fmt.Errorf("%w: %v", cascadedomain.ErrReferenced, result.Error)
		}
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) Nullify(ctx context.Context, table cascadedomain.Table, column string, values []string) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Table(string(table)).Where(column+" IN ?", values).Update(column, nil)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
