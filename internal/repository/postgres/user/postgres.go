package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"dna-clinic-go/internal/db"
	"dna-clinic-go/internal/domain/ids"
	domain "dna-clinic-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "users", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "lower(email) = ?", strings.ToLower(email))
}

func (r *PostgresRepository) first(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) List(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := r.db.WithContext(ctx).Order("id asc")
	if role != 0 {
		query = query.Where("role_id = ?", role)
	}

	var users []domain.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), user)
	if err != nil {
		return translateUnique(err)
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"fullname":   user.Fullname,
			"email":      user.Email,
			"phone":      user.Phone,
			"gender":     user.Gender,
			"address":    user.Address,
			"birthdate":  user.Birthdate,
			"role_id":    user.RoleID,
			"updated_at": user.UpdatedAt,
		}).Error
	return translateUnique(err)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateColumn(ctx, id, "password_hash", passwordHash)
}

func (r *PostgresRepository) UpdateImage(ctx context.Context, id, image string) error {
	return r.updateColumn(ctx, id, "image", image)
}

func (r *PostgresRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			column:       value,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateReset(ctx context.Context, reset *domain.PasswordReset) error {
	err := r.db.WithContext(ctx).Create(reset).Error
	if db.IsUniqueViolation(err) {
		return domain.ErrResetCodeConflict
	}
	return err
}

func (r *PostgresRepository) GetResetByHash(ctx context.Context, codeHash string) (*domain.PasswordReset, error) {
	var reset domain.PasswordReset
	if err := r.db.WithContext(ctx).Where("code_hash = ?", codeHash).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResetCodeInvalid
		}
		return nil, err
	}
	return &reset, nil
}

func (r *PostgresRepository) DeleteReset(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.PasswordReset{}).Error
}

func (r *PostgresRepository) DeleteResetsByUsername(ctx context.Context, username string) error {
	return r.db.WithContext(ctx).Where("username = ?", username).Delete(&domain.PasswordReset{}).Error
}

func (r *PostgresRepository) DeleteExpiredResets(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&domain.PasswordReset{})
	return result.RowsAffected, result.Error
}

func translateUnique(err error) error {
	if !db.IsUniqueViolation(err) {
		return err
	}
	switch db.ViolatedConstraint(err) {
	case "users_email_key":
		return domain.ErrEmailTaken
	case "users_username_key":
		return domain.ErrUsernameTaken
	}
	return err
}
