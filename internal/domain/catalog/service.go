package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/ids"
)

type Service struct {
	repo     Repository
	remover  Remover
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

type Option func(*Service)

func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
			s.cacheTTL = ttl
		}
	}
}

func NewService(repo Repository, remover Remover, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		remover: remover,
		cache:   noopCache{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]Offering, error) {
	if cached, ok := s.cache.GetAll(ctx); ok {
		return cached, nil
	}

	offerings, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetAll(ctx, offerings, s.cacheTTL)
	return offerings, nil
}

func (s *Service) ListByType(ctx context.Context, offeringType string) ([]Offering, error) {
	offeringType = strings.TrimSpace(offeringType)
	if offeringType == "" {
		return s.List(ctx)
	}
	return s.repo.ListByType(ctx, offeringType)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, input OfferingInput) (*Offering, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	offering := Offering{
		Type:        input.Type,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
	}

	_, err = ids.Reserve(ctx, ids.Service, s.repo.ListIDs, func(ctx context.Context, id string) error {
		offering.ID = id
		return s.repo.Create(ctx, &offering)
	}, s.now)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return &offering, nil
}

func (s *Service) Update(ctx context.Context, id string, input OfferingInput) (*Offering, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	offering, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	offering.Type = input.Type
	offering.Name = input.Name
	offering.Description = input.Description
	offering.Price = input.Price
	if input.Image != "" {
		offering.Image = input.Image
	}
	offering.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, offering); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return offering, nil
}

// Delete refuses to remove an offering that anything still references.
func (s *Service) Delete(ctx context.Context, id string) error {
	dependents, err := s.remover.DeleteUnreferenced(ctx, cascade.Services, id)
	switch {
	case errors.Is(err, cascade.ErrReferenced):
		return &DependentsError{Dependents: dependents}
	case errors.Is(err, cascade.ErrNothingDeleted):
		return ErrOfferingNotFound
	case err != nil:
		return err
	}

	s.cache.Invalidate(ctx)
	return nil
}

// DeleteCascade removes the offering together with its bookings, kits,
// invoices, results and feedback.
func (s *Service) DeleteCascade(ctx context.Context, id string) (cascade.Report, error) {
	report, err := s.remover.Delete(ctx, cascade.Services, id)
	if err != nil {
		if errors.Is(err, cascade.ErrNothingDeleted) {
			return report, ErrOfferingNotFound
		}
		return report, err
	}

	s.cache.Invalidate(ctx)
	return report, nil
}

func normalizeInput(input OfferingInput) (OfferingInput, error) {
	input.Type = strings.TrimSpace(input.Type)
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Image = strings.TrimSpace(input.Image)

	if input.Name == "" {
		return input, ErrNameRequired
	}
	if input.Price.IsNegative() {
		return input, ErrNegativePrice
	}
	return input, nil
}
