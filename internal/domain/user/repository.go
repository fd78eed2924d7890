package user

import (
	"context"
	"time"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, role Role) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateImage(ctx context.Context, id, image string) error

	CreateReset(ctx context.Context, reset *PasswordReset) error
	GetResetByHash(ctx context.Context, codeHash string) (*PasswordReset, error)
	DeleteReset(ctx context.Context, id string) error
	DeleteResetsByUsername(ctx context.Context, username string) error
	DeleteExpiredResets(ctx context.Context, now time.Time) (int64, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}

type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenIssuer interface {
	Issue(userID, username, role string) (string, time.Time, error)
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

type Mailer interface {
	SendResetCode(ctx context.Context, to, fullname, code string, expiresAt time.Time) error
}
