package relative

import (
	"context"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Relative, error)
	List(ctx context.Context) ([]Relative, error)
	ListByBooking(ctx context.Context, bookingID string) ([]Relative, error)
	ListByUser(ctx context.Context, userID string) ([]Relative, error)
	Create(ctx context.Context, relative *Relative) error
	Update(ctx context.Context, relative *Relative) error
	UserExists(ctx context.Context, id string) (bool, error)
	BookingExists(ctx context.Context, id string) (bool, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
