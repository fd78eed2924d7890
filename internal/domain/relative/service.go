package relative

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

func (s *Service) Create(ctx context.Context, input Input) (*Relative, error) {
	relative := Relative{}
	if err := s.apply(ctx, &relative, input); err != nil {
		return nil, err
	}

	_, err := ids.Reserve(ctx, ids.Relative, s.repo.ListIDs, func(ctx context.Context, id string) error {
		relative.ID = id
		return s.repo.Create(ctx, &relative)
	}, s.now)
	if err != nil {
		return nil, err
	}
	return &relative, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Relative, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Relative, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByBooking(ctx context.Context, bookingID string) ([]Relative, error) {
	return s.repo.ListByBooking(ctx, bookingID)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Relative, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Relative, error) {
	relative, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.UserID) == "" {
		input.UserID = relative.UserID
	}
	if err := s.apply(ctx, relative, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, relative); err != nil {
		return nil, err
	}
	return relative, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.Relatives, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrRelativeNotFound
	}
	return err
}

func (s *Service) apply(ctx context.Context, relative *Relative, input Input) error {
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		return ErrFullnameRequired
	}

	userID := strings.TrimSpace(input.UserID)
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}

	relative.BookingID = nil
	if bookingID := strings.TrimSpace(input.BookingID); bookingID != "" {
		ok, err := s.repo.BookingExists(ctx, bookingID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBookingNotFound
		}
		relative.BookingID = &bookingID
	}

	relative.UserID = userID
	relative.Fullname = fullname
	relative.Gender = strings.TrimSpace(input.Gender)
	relative.Birthdate = input.Birthdate
	relative.Relationship = strings.TrimSpace(input.Relationship)
	return nil
}
