package invoice

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"dna-clinic-go/internal/db"
	"dna-clinic-go/internal/domain/ids"
	invoicedomain "dna-clinic-go/internal/domain/invoice"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(invoicedomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "invoices", prefix)
}

func (r *PostgresRepository) ListDetailIDs(ctx context.Context, prefix string) ([]string, error) {
	return db.ListIDs(r.db.WithContext(ctx), "invoice_details", prefix)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoicedomain.ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	if err := r.db.WithContext(ctx).Order("date desc, id asc").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *PostgresRepository) ListByBooking(ctx context.Context, bookingID string) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("date desc, id asc").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *PostgresRepository) ListDetails(ctx context.Context, invoiceIDs []string) ([]invoicedomain.Detail, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	var details []invoicedomain.Detail
	if err := r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Order("id asc").
		Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *PostgresRepository) Create(ctx context.Context, invoice *invoicedomain.Invoice) error {
	return r.createIfAbsent(ctx, invoice)
}

func (r *PostgresRepository) CreateDetail(ctx context.Context, detail *invoicedomain.Detail) error {
	return r.createIfAbsent(ctx, detail)
}

func (r *PostgresRepository) createIfAbsent(ctx context.Context, value interface{}) error {
	inserted, err := db.CreateIfAbsent(r.db.WithContext(ctx), value)
	if err != nil {
		return err
	}
	if !inserted {
		return ids.ErrConflict
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, invoice *invoicedomain.Invoice) error {
	return r.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"date":  invoice.Date,
			"price": invoice.Price,
		}).Error
}

func (r *PostgresRepository) BookingService(ctx context.Context, bookingID string) (string, error) {
	var services []string
	if err := r.db.WithContext(ctx).
		Table("bookings").
		Where("id = ?", bookingID).
		Limit(1).
		Pluck("service_id", &services).Error; err != nil {
		return "", err
	}
	if len(services) == 0 {
		return "", invoicedomain.ErrBookingNotFound
	}
	return services[0], nil
}

func (r *PostgresRepository) ServicePrice(ctx context.Context, serviceID string) (decimal.Decimal, error) {
	var prices []decimal.Decimal
	if err := r.db.WithContext(ctx).
		Table("services").
		Where("id = ?", serviceID).
		Limit(1).
		Pluck("price", &prices).Error; err != nil {
		return decimal.Zero, err
	}
	if len(prices) == 0 {
		return decimal.Zero, invoicedomain.ErrServiceNotFound
	}
	return prices[0], nil
}
