package kit

import (
	"context"
	"errors"
	"strings"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/ids"
	"dna-clinic-go/internal/domain/lifecycle"
)

type Service struct {
	repo    Repository
	remover Remover
	now     func() time.Time
}

func NewService(repo Repository, remover Remover) *Service {
	return &Service{repo: repo, remover: remover, now: time.Now}
}

// Create attaches a kit to a booking. A booking holds at most one kit.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Kit, error) {
	bookingID := strings.TrimSpace(input.BookingID)
	if bookingID == "" {
		return nil, ErrBookingRequired
	}

	status := lifecycle.KitPendingDispatch
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := lifecycle.ParseKitStatus(input.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	customerID, err := s.repo.BookingCustomer(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByBooking(ctx, bookingID); err == nil {
		return nil, ErrKitExists
	} else if !errors.Is(err, ErrKitNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	kit := Kit{
		CustomerID:  &customerID,
		BookingID:   bookingID,
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}
	if status == lifecycle.KitArrivedAtStorage {
		kit.ReceiveDate = &now
	}
	if staffID := strings.TrimSpace(input.StaffID); staffID != "" {
		if err := s.ensureStaff(ctx, staffID); err != nil {
			return nil, err
		}
		kit.StaffID = &staffID
	}

	_, err = ids.Reserve(ctx, ids.Kit, s.repo.ListIDs, func(ctx context.Context, id string) error {
		kit.ID = id
		return s.repo.Create(ctx, &kit)
	}, s.now)
	if err != nil {
		return nil, err
	}
	return &kit, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Kit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByBooking(ctx context.Context, bookingID string) (*Kit, error) {
	return s.repo.GetByBooking(ctx, bookingID)
}

func (s *Service) List(ctx context.Context) ([]Kit, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Kit, error) {
	kit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if description := strings.TrimSpace(input.Description); description != "" {
		kit.Description = description
	}
	if staffID := strings.TrimSpace(input.StaffID); staffID != "" {
		if err := s.ensureStaff(ctx, staffID); err != nil {
			return nil, err
		}
		kit.StaffID = &staffID
	}
	kit.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, kit); err != nil {
		return nil, err
	}
	return kit, nil
}

// UpdateStatus moves a kit along its logistics states. The first arrival at
// the warehouse stamps the receive date.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Kit, error) {
	target, err := lifecycle.ParseKitStatus(status)
	if err != nil {
		return nil, err
	}

	kit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if target == lifecycle.KitArrivedAtStorage && kit.ReceiveDate == nil {
		kit.ReceiveDate = &now
	}
	kit.Status = target
	kit.UpdatedAt = now

	if err := s.repo.UpdateStatus(ctx, id, target, kit.ReceiveDate, now); err != nil {
		return nil, err
	}
	return kit, nil
}

// Tracking lists a customer's kits with their booking details.
func (s *Service) Tracking(ctx context.Context, customerID string) ([]Tracking, error) {
	return s.repo.ListTracking(ctx, customerID)
}

// Collection lists kits carrying a sample staff still has to process.
func (s *Service) Collection(ctx context.Context) ([]Kit, error) {
	return s.repo.ListByStatus(ctx, collectionStatuses)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.Kits, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrKitNotFound
	}
	return err
}

func (s *Service) ensureStaff(ctx context.Context, id string) error {
	ok, err := s.repo.UserExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStaffNotFound
	}
	return nil
}
