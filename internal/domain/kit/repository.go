package kit

import (
	"context"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/lifecycle"
)

type Repository interface {
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Kit, error)
	GetByBooking(ctx context.Context, bookingID string) (*Kit, error)
	List(ctx context.Context) ([]Kit, error)
	ListByStatus(ctx context.Context, statuses []lifecycle.KitStatus) ([]Kit, error)
	ListTracking(ctx context.Context, customerID string) ([]Tracking, error)
	Create(ctx context.Context, kit *Kit) error
	Update(ctx context.Context, kit *Kit) error
	UpdateStatus(ctx context.Context, id string, status lifecycle.KitStatus, receiveDate *time.Time, at time.Time) error
	// BookingCustomer returns the customer of a booking.
	BookingCustomer(ctx context.Context, bookingID string) (string, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
