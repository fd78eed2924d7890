package result

import (
	"context"

	"dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Bookings exposes the booking repository on the same connection or
	// transaction.
	Bookings() booking.Repository
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*TestResult, error)
	List(ctx context.Context) ([]TestResult, error)
	ListByBooking(ctx context.Context, bookingID string) ([]TestResult, error)
	ListByCustomer(ctx context.Context, customerID string) ([]TestResult, error)
	Create(ctx context.Context, result *TestResult) error
	Update(ctx context.Context, result *TestResult) error
	// ReportNames resolves the display names printed on a report. Missing
	// rows yield empty names.
	ReportNames(ctx context.Context, customerID, serviceID string) (customer, service string, err error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}

type Renderer interface {
	Render(doc Document) ([]byte, error)
}
