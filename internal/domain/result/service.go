package result

import (
	"context"
	"errors"
	"strings"
	"time"

	"dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/ids"
)

type Service struct {
	repo     Repository
	remover  Remover
	policy   MatchPolicy
	renderer Renderer
	now      func() time.Time
}

func NewService(repo Repository, remover Remover, renderer Renderer) *Service {
	return &Service{
		repo:     repo,
		remover:  remover,
		policy:   PlaceholderMatchPolicy{},
		renderer: renderer,
		now:      time.Now,
	}
}

// Create records a result and completes its booking in the same
// transaction. Further results for a completed booking are accepted.
func (s *Service) Create(ctx context.Context, input CreateInput) (*TestResult, error) {
	bookingID := strings.TrimSpace(input.BookingID)
	if bookingID == "" {
		return nil, ErrBookingRequired
	}
	staffID := strings.TrimSpace(input.StaffID)

	now := s.now().UTC()
	result := TestResult{
		BookingID:   bookingID,
		Date:        input.Date.UTC(),
		Description: input.Description,
		Status:      strings.TrimSpace(input.Status),
	}
	if input.Date.IsZero() {
		result.Date = now
	}
	if result.Status == "" {
		result.Status = DefaultStatus
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		bookings := tx.Bookings()
		if staffID != "" {
			ok, err := bookings.UserExists(ctx, staffID)
			if err != nil {
				return err
			}
			if !ok {
				return ErrStaffNotFound
			}
			result.StaffID = &staffID
		}

		completed, err := booking.MarkCompleted(ctx, bookings, bookingID, now)
		if err != nil {
			return err
		}
		result.CustomerID = &completed.CustomerID
		result.ServiceID = &completed.ServiceID

		_, err = ids.Reserve(ctx, ids.TestResult, tx.ListIDs, func(ctx context.Context, id string) error {
			result.ID = id
			return tx.Create(ctx, &result)
		}, s.now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*TestResult, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]TestResult, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByBooking(ctx context.Context, bookingID string) ([]TestResult, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]TestResult, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*TestResult, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !input.Date.IsZero() {
		result.Date = input.Date.UTC()
	}
	if input.Description != "" {
		result.Description = input.Description
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		result.Status = status
	}
	result.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.TestResults, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrResultNotFound
	}
	return err
}

// Assess parses the stored comparison table and evaluates it.
func (s *Service) Assess(ctx context.Context, id string) (*TestResult, Assessment, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, Assessment{}, err
	}
	loci, err := ParseDescription(result.Description)
	if err != nil {
		return nil, Assessment{}, err
	}
	return result, s.policy.Evaluate(loci), nil
}

// Report renders the result as a PDF document.
func (s *Service) Report(ctx context.Context, id string) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrRendererMissing
	}

	result, assessment, err := s.Assess(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := Document{
		Result:      *result,
		Assessment:  assessment,
		GeneratedAt: s.now().UTC(),
	}
	doc.CustomerName, doc.ServiceName, err = s.repo.ReportNames(ctx, deref(result.CustomerID), deref(result.ServiceID))
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(doc)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
