package notification

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

func (s *Service) Create(ctx context.Context, input Input) (*Notification, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	userID := strings.TrimSpace(input.UserID)
	ok, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	notification := Notification{
		UserID:  userID,
		Title:   title,
		Message: strings.TrimSpace(input.Message),
	}
	_, err = ids.Reserve(ctx, ids.Notification, s.repo.ListIDs, func(ctx context.Context, id string) error {
		notification.ID = id
		return s.repo.Create(ctx, &notification)
	}, s.now)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// Notify sends a notification to userID. It satisfies the notifier other
// services use for status updates.
func (s *Service) Notify(ctx context.Context, userID, title, message string) error {
	_, err := s.Create(ctx, Input{UserID: userID, Title: title, Message: message})
	return err
}

func (s *Service) Get(ctx context.Context, id string) (*Notification, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Notification, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Notification, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	notification.Title = title
	notification.Message = strings.TrimSpace(input.Message)
	if err := s.repo.Update(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.Notifications, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrNotificationNotFound
	}
	return err
}
