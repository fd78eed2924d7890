package feedback

import (
	"context"
	"errors"
	"testing"

	"dna-clinic-go/internal/domain/cascade"
)

type fakeFeedbackRepo struct {
	feedbacks map[string]*Feedback
	users     map[string]bool
	services  map[string]bool
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{
		feedbacks: make(map[string]*Feedback),
		users:     map[string]bool{"U0001": true, "U0002": true},
		services:  map[string]bool{"S001": true, "S002": true},
	}
}

func (r *fakeFeedbackRepo) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	result := make([]string, 0, len(r.feedbacks))
	for id := range r.feedbacks {
		result = append(result, id)
	}
	return result, nil
}

func (r *fakeFeedbackRepo) GetByID(ctx context.Context, id string) (*Feedback, error) {
	feedback, ok := r.feedbacks[id]
	if !ok {
		return nil, ErrFeedbackNotFound
	}
	copied := *feedback
	return &copied, nil
}

func (r *fakeFeedbackRepo) List(ctx context.Context) ([]Feedback, error) {
	result := make([]Feedback, 0, len(r.feedbacks))
	for _, feedback := range r.feedbacks {
		result = append(result, *feedback)
	}
	return result, nil
}

func (r *fakeFeedbackRepo) ListByService(ctx context.Context, serviceID string) ([]Feedback, error) {
	result := make([]Feedback, 0)
	for _, feedback := range r.feedbacks {
		if feedback.ServiceID == serviceID {
			result = append(result, *feedback)
		}
	}
	return result, nil
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, feedback *Feedback) error {
	copied := *feedback
	r.feedbacks[feedback.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) Update(ctx context.Context, feedback *Feedback) error {
	copied := *feedback
	r.feedbacks[feedback.ID] = &copied
	return nil
}

func (r *fakeFeedbackRepo) UserExists(ctx context.Context, id string) (bool, error) {
	return r.users[id], nil
}

func (r *fakeFeedbackRepo) ServiceExists(ctx context.Context, id string) (bool, error) {
	return r.services[id], nil
}

type fakeRemover struct {
	repo *fakeFeedbackRepo
}

func (r fakeRemover) Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error) {
	for _, id := range ids {
		if _, ok := r.repo.feedbacks[id]; !ok {
			return cascade.Report{}, cascade.ErrNothingDeleted
		}
		delete(r.repo.feedbacks, id)
	}
	return cascade.Report{}, nil
}

func TestCreateValidatesRating(t *testing.T) {
	repo := newFakeFeedbackRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Create(ctx, Input{UserID: "U0001", ServiceID: "S001", Rating: rating}); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	for _, rating := range []int{1, 5} {
		if _, err := svc.Create(ctx, Input{UserID: "U0001", ServiceID: "S001", Rating: rating}); err != nil {
			t.Fatalf("rating %d: %v", rating, err)
		}
	}
	if _, ok := repo.feedbacks["F0002"]; !ok {
		t.Fatalf("expected F0002 to exist")
	}
}

func TestCreateChecksReferences(t *testing.T) {
	repo := newFakeFeedbackRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{UserID: "U0404", ServiceID: "S001", Rating: 4}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{UserID: "U0001", ServiceID: "", Rating: 4}); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestListByServiceAndUpdate(t *testing.T) {
	repo := newFakeFeedbackRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{UserID: "U0001", ServiceID: "S001", Rating: 3, Content: "Ổn"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, Input{UserID: "U0002", ServiceID: "S002", Rating: 5}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.ListByService(ctx, "S001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("unexpected list %+v", list)
	}

	if _, err := svc.Update(ctx, created.ID, "U0002", Input{Rating: 1}); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
	updated, err := svc.Update(ctx, created.ID, "U0001", Input{Rating: 5, Content: "Rất tốt"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rating != 5 || updated.Content != "Rất tốt" {
		t.Fatalf("unexpected feedback %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, ErrFeedbackNotFound) {
		t.Fatalf("expected ErrFeedbackNotFound, got %v", err)
	}
}
