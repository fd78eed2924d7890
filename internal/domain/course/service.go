package course

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

func (s *Service) Create(ctx context.Context, input Input) (*Course, error) {
	course := Course{}
	if err := s.apply(ctx, &course, input); err != nil {
		return nil, err
	}

	_, err := ids.Reserve(ctx, ids.Course, s.repo.ListIDs, func(ctx context.Context, id string) error {
		course.ID = id
		return s.repo.Create(ctx, &course)
	}, s.now)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Course, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*Course, error) {
	course, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ManagerID) == "" && course.ManagerID != nil {
		input.ManagerID = *course.ManagerID
	}
	if input.Image == "" {
		input.Image = course.Image
	}
	if err := s.apply(ctx, course, input); err != nil {
		return nil, err
	}
	course.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.remover.Delete(ctx, cascade.Courses, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return ErrCourseNotFound
	}
	return err
}

func (s *Service) apply(ctx context.Context, course *Course, input Input) error {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return ErrTitleRequired
	}

	course.ManagerID = nil
	if managerID := strings.TrimSpace(input.ManagerID); managerID != "" {
		ok, err := s.repo.UserExists(ctx, managerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrManagerNotFound
		}
		course.ManagerID = &managerID
	}

	course.Title = title
	course.Description = strings.TrimSpace(input.Description)
	course.Image = strings.TrimSpace(input.Image)
	return nil
}
