package booking

import (
	"context"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/lifecycle"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// GetForUpdate reads the booking and locks its row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
	ListByService(ctx context.Context, serviceID string) ([]Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]Booking, error)
	ListBetween(ctx context.Context, from, to time.Time, staffID string) ([]Booking, error)
	Create(ctx context.Context, booking *Booking) error
	Update(ctx context.Context, booking *Booking) error
	UpdateStatus(ctx context.Context, id string, status lifecycle.BookingStatus, at time.Time) error
	// KitStatus returns nil when the booking has no kit.
	KitStatus(ctx context.Context, bookingID string) (*lifecycle.KitStatus, error)
	UserExists(ctx context.Context, id string) (bool, error)
	ServiceExists(ctx context.Context, id string) (bool, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
