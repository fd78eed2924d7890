package course

import (
	"context"
	"errors"
	"testing"

	"dna-clinic-go/internal/domain/cascade"
)

type fakeCourseRepo struct {
	courses map[string]*Course
	users   map[string]bool
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses: make(map[string]*Course),
		users:   map[string]bool{"U0001": true},
	}
}

func (r *fakeCourseRepo) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	result := make([]string, 0, len(r.courses))
	for id := range r.courses {
		result = append(result, id)
	}
	return result, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id string) (*Course, error) {
	course, ok := r.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) List(ctx context.Context) ([]Course, error) {
	result := make([]Course, 0, len(r.courses))
	for _, course := range r.courses {
		result = append(result, *course)
	}
	return result, nil
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *Course) error {
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, course *Course) error {
	copied := *course
	r.courses[course.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) UserExists(ctx context.Context, id string) (bool, error) {
	return r.users[id], nil
}

type fakeRemover struct {
	repo *fakeCourseRepo
}

func (r fakeRemover) Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error) {
	for _, id := range ids {
		if _, ok := r.repo.courses[id]; !ok {
			return cascade.Report{}, cascade.ErrNothingDeleted
		}
		delete(r.repo.courses, id)
	}
	return cascade.Report{}, nil
}

func TestCourseCRUD(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()

	course, err := svc.Create(ctx, Input{ManagerID: "U0001", Title: "ADN là gì?", Image: "/images/a.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.ID != "C001" {
		t.Fatalf("expected C001, got %s", course.ID)
	}

	updated, err := svc.Update(ctx, course.ID, Input{Title: "ADN cơ bản"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ManagerID == nil || *updated.ManagerID != "U0001" || updated.Image != "/images/a.png" {
		t.Fatalf("expected manager and image kept, got %+v", updated)
	}

	unmanaged, err := svc.Create(ctx, Input{Title: "Không quản lý"})
	if err != nil {
		t.Fatalf("create without manager: %v", err)
	}
	if unmanaged.ManagerID != nil {
		t.Fatalf("expected no manager")
	}

	if err := svc.Delete(ctx, course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, course.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseValidation(t *testing.T) {
	repo := newFakeCourseRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{Title: "A", ManagerID: "U0404"}); !errors.Is(err, ErrManagerNotFound) {
		t.Fatalf("expected ErrManagerNotFound, got %v", err)
	}
}
