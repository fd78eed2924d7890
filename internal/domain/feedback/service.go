package feedback

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

func (s *Service) Create(ctx context.Context, input Input) (*Feedback, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	userID := strings.TrimSpace(input.UserID)
	serviceID := strings.TrimSpace(input.ServiceID)
	if err := s.ensure(ctx, s.repo.UserExists, userID, ErrUserNotFound); err != nil {
		return nil, err
	}
	if err := s.ensure(ctx, s.repo.ServiceExists, serviceID, ErrServiceNotFound); err != nil {
		return nil, err
	}

	feedback := Feedback{
		UserID:    userID,
		ServiceID: serviceID,
		Rating:    input.Rating,
		Content:   strings.TrimSpace(input.Content),
	}
	_, err := ids.Reserve(ctx, ids.Feedback, s.repo.ListIDs, func(ctx context.Context, id string) error {
		feedback.ID = id
		return s.repo.Create(ctx, &feedback)
	}, s.now)
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Feedback, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Feedback, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByService(ctx context.Context, serviceID string) ([]Feedback, error) {
	return s.repo.ListByService(ctx, serviceID)
}

// Update edits rating and content. authorID, when set, must be the author.
func (s *Service) Update(ctx context.Context, id, authorID string, input Input) (*Feedback, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	feedback, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if authorID != "" && feedback.UserID != authorID {
		return nil, ErrNotAuthor
	}

	feedback.Rating = input.Rating
	feedback.Content = strings.TrimSpace(input.Content)
	if err := s.repo.Update(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.Feedbacks, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrFeedbackNotFound
	}
	return err
}

func (s *Service) ensure(ctx context.Context, exists func(context.Context, string) (bool, error), id string, missing error) error {
	if id == "" {
		return missing
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return missing
	}
	return nil
}

func validateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
