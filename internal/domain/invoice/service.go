package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/ids"
)

type Service struct {
	repo    Repository
	remover Remover
	now     func() time.Time
}

func NewService(repo Repository, remover Remover) *Service {
	return &Service{repo: repo, remover: remover, now: time.Now}
}

// Create bills a booking. With details the price is the sum of quantity
// times the current service price; without details and without a price the
// booking's own service is billed once.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Invoice, error) {
	bookingID := strings.TrimSpace(input.BookingID)
	if bookingID == "" {
		return nil, ErrBookingRequired
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}
	for _, detail := range input.Details {
		if detail.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
	}

	invoice := Invoice{
		BookingID: bookingID,
		Date:      input.Date.UTC(),
	}
	if input.Date.IsZero() {
		invoice.Date = s.now().UTC()
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		serviceID, err := tx.BookingService(ctx, bookingID)
		if err != nil {
			return err
		}

		lines := input.Details
		if len(lines) == 0 && input.Price == nil {
			lines = []DetailInput{{ServiceID: serviceID, Quantity: 1}}
		}

		details := make([]Detail, 0, len(lines))
		for _, line := range lines {
			price, err := tx.ServicePrice(ctx, strings.TrimSpace(line.ServiceID))
			if err != nil {
				return err
			}
			quantity := line.Quantity
			if quantity == 0 {
				quantity = 1
			}
			details = append(details, Detail{
				ServiceID: strings.TrimSpace(line.ServiceID),
				Quantity:  quantity,
				Price:     price,
			})
		}
		invoice.Details = details

		if len(details) > 0 {
			invoice.Price = invoice.Total()
		} else {
			invoice.Price = *input.Price
		}

		_, err = ids.Reserve(ctx, ids.Invoice, tx.ListIDs, func(ctx context.Context, id string) error {
			invoice.ID = id
			return tx.Create(ctx, &invoice)
		}, s.now)
		if err != nil {
			return err
		}

		for i := range invoice.Details {
			detail := &invoice.Details[i]
			detail.InvoiceID = invoice.ID
			_, err = ids.Reserve(ctx, ids.InvoiceDetail, tx.ListDetailIDs, func(ctx context.Context, id string) error {
				detail.ID = id
				return tx.CreateDetail(ctx, detail)
			}, s.now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.ListDetails(ctx, []string{invoice.ID})
	if err != nil {
		return nil, err
	}
	invoice.Details = details
	return invoice, nil
}

func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	invoices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, invoices)
}

func (s *Service) ListByBooking(ctx context.Context, bookingID string) ([]Invoice, error) {
	invoices, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, invoices)
}

func (s *Service) withDetails(ctx context.Context, invoices []Invoice) ([]Invoice, error) {
	if len(invoices) == 0 {
		return invoices, nil
	}

	invoiceIDs := make([]string, 0, len(invoices))
	for _, invoice := range invoices {
		invoiceIDs = append(invoiceIDs, invoice.ID)
	}
	details, err := s.repo.ListDetails(ctx, invoiceIDs)
	if err != nil {
		return nil, err
	}

	byInvoice := make(map[string][]Detail, len(invoices))
	for _, detail := range details {
		byInvoice[detail.InvoiceID] = append(byInvoice[detail.InvoiceID], detail)
	}
	for i := range invoices {
		invoices[i].Details = byInvoice[invoices[i].ID]
	}
	return invoices, nil
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Invoice, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !input.Date.IsZero() {
		invoice.Date = input.Date.UTC()
	}
	if input.Price != nil {
		invoice.Price = *input.Price
	}

	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete removes the invoice and its details.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.Invoices, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrInvoiceNotFound
	}
	return err
}
