package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"dna-clinic-go/internal/domain/cascade"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListIDs(ctx context.Context, prefix string) ([]string, error)
	ListDetailIDs(ctx context.Context, prefix string) ([]string, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	ListByBooking(ctx context.Context, bookingID string) ([]Invoice, error)
	ListDetails(ctx context.Context, invoiceIDs []string) ([]Detail, error)
	Create(ctx context.Context, invoice *Invoice) error
	CreateDetail(ctx context.Context, detail *Detail) error
	Update(ctx context.Context, invoice *Invoice) error
	BookingService(ctx context.Context, bookingID string) (string, error)
	ServicePrice(ctx context.Context, serviceID string) (decimal.Decimal, error)
}

type Remover interface {
	Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error)
}
