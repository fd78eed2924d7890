package relative

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dna-clinic-go/internal/domain/cascade"
)

type fakeRelativeRepo struct {
	relatives map[string]*Relative
	users     map[string]bool
	bookings  map[string]bool
}

func newFakeRelativeRepo() *fakeRelativeRepo {
	return &fakeRelativeRepo{
		relatives: make(map[string]*Relative),
		users:     map[string]bool{"U0001": true, "U0002": true},
		bookings:  map[string]bool{"B0001": true},
	}
}

func (r *fakeRelativeRepo) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	result := make([]string, 0, len(r.relatives))
	for id := range r.relatives {
		result = append(result, id)
	}
	return result, nil
}

func (r *fakeRelativeRepo) GetByID(ctx context.Context, id string) (*Relative, error) {
	relative, ok := r.relatives[id]
	if !ok {
		return nil, ErrRelativeNotFound
	}
	copied := *relative
	return &copied, nil
}

func (r *fakeRelativeRepo) filter(keep func(*Relative) bool) []Relative {
	result := make([]Relative, 0)
	for _, relative := range r.relatives {
		if keep(relative) {
			result = append(result, *relative)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeRelativeRepo) List(ctx context.Context) ([]Relative, error) {
	return r.filter(func(*Relative) bool { return true }), nil
}

func (r *fakeRelativeRepo) ListByBooking(ctx context.Context, bookingID string) ([]Relative, error) {
	return r.filter(func(rel *Relative) bool { return rel.BookingID != nil && *rel.BookingID == bookingID }), nil
}

func (r *fakeRelativeRepo) ListByUser(ctx context.Context, userID string) ([]Relative, error) {
	return r.filter(func(rel *Relative) bool { return rel.UserID == userID }), nil
}

func (r *fakeRelativeRepo) Create(ctx context.Context, relative *Relative) error {
	copied := *relative
	r.relatives[relative.ID] = &copied
	return nil
}

func (r *fakeRelativeRepo) Update(ctx context.Context, relative *Relative) error {
	copied := *relative
	r.relatives[relative.ID] = &copied
	return nil
}

func (r *fakeRelativeRepo) UserExists(ctx context.Context, id string) (bool, error) {
	return r.users[id], nil
}

func (r *fakeRelativeRepo) BookingExists(ctx context.Context, id string) (bool, error) {
	return r.bookings[id], nil
}

type fakeRemover struct {
	repo *fakeRelativeRepo
}

func (r fakeRemover) Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error) {
	for _, id := range ids {
		if _, ok := r.repo.relatives[id]; !ok {
			return cascade.Report{}, cascade.ErrNothingDeleted
		}
		delete(r.repo.relatives, id)
	}
	return cascade.Report{}, nil
}

func TestRelativeLifecycle(t *testing.T) {
	repo := newFakeRelativeRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()
	birthdate := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)

	child, err := svc.Create(ctx, Input{UserID: "U0001", BookingID: "B0001", Fullname: " Bé An ", Birthdate: &birthdate, Relationship: "Con"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if child.ID != "RL0001" || child.Fullname != "Bé An" {
		t.Fatalf("unexpected relative %+v", child)
	}
	if _, err := svc.Create(ctx, Input{UserID: "U0001", Fullname: "Bà Ba", Relationship: "Bà"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	byBooking, err := svc.ListByBooking(ctx, "B0001")
	if err != nil {
		t.Fatalf("list by booking: %v", err)
	}
	if len(byBooking) != 1 {
		t.Fatalf("expected one relative on booking, got %d", len(byBooking))
	}
	byUser, err := svc.ListByUser(ctx, "U0001")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("expected two relatives for user, got %d", len(byUser))
	}

	updated, err := svc.Update(ctx, child.ID, Input{Fullname: "Nguyễn An", Relationship: "Con"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UserID != "U0001" || updated.BookingID != nil {
		t.Fatalf("unexpected update %+v", updated)
	}

	if err := svc.Delete(ctx, child.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, child.ID); !errors.Is(err, ErrRelativeNotFound) {
		t.Fatalf("expected ErrRelativeNotFound, got %v", err)
	}
}

func TestRelativeValidation(t *testing.T) {
	repo := newFakeRelativeRepo()
	svc := NewService(repo, fakeRemover{repo: repo})
	ctx := context.Background()

	if _, err := svc.Create(ctx, Input{UserID: "U0001"}); !errors.Is(err, ErrFullnameRequired) {
		t.Fatalf("expected ErrFullnameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{UserID: "U0404", Fullname: "An"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, Input{UserID: "U0001", BookingID: "B0404", Fullname: "An"}); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
