package notification

import (
	"context"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context) ([]Notification, error)
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	Create(ctx context.Context, notification *Notification) error
	Update(ctx context.Context, notification *Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
