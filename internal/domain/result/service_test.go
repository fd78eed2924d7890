package result

import (
	"context"
	"errors"
	"testing"
	"time"

	"dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/lifecycle"
)

type fakeBookings struct {
	booking.Repository
	bookings map[string]*booking.Booking
	users    map[string]bool
}

func (r *fakeBookings) GetForUpdate(ctx context.Context, id string) (*booking.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookings) KitStatus(ctx context.Context, bookingID string) (*lifecycle.KitStatus, error) {
	status := lifecycle.KitArrivedAtStorage
	return &status, nil
}

func (r *fakeBookings) UpdateStatus(ctx context.Context, id string, status lifecycle.BookingStatus, at time.Time) error {
	r.bookings[id].Status = status
	return nil
}

func (r *fakeBookings) UserExists(ctx context.Context, id string) (bool, error) {
	return r.users[id], nil
}

type fakeResultRepo struct {
	bookings *fakeBookings
	results  map[string]*TestResult
	failNext bool
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{
		bookings: &fakeBookings{
			bookings: map[string]*booking.Booking{
				"B0001": {ID: "B0001", CustomerID: "U0001", ServiceID: "S001", Method: lifecycle.MethodSelfCollect, Status: lifecycle.BookingInProgress},
				"B0002": {ID: "B0002", CustomerID: "U0001", ServiceID: "S001", Method: lifecycle.MethodFacility, Status: lifecycle.BookingCheckedIn},
			},
			users: map[string]bool{"U0002": true},
		},
		results: make(map[string]*TestResult),
	}
}

func (r *fakeResultRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	statuses := make(map[string]lifecycle.BookingStatus)
	for id, b := range r.bookings.bookings {
		statuses[id] = b.Status
	}
	results := make(map[string]*TestResult, len(r.results))
	for id, res := range r.results {
		results[id] = res
	}
	if err := fn(r); err != nil {
		for id, status := range statuses {
			r.bookings.bookings[id].Status = status
		}
		r.results = results
		return err
	}
	return nil
}

func (r *fakeResultRepo) Bookings() booking.Repository {
	return r.bookings
}

func (r *fakeResultRepo) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	result := make([]string, 0, len(r.results))
	for id := range r.results {
		result = append(result, id)
	}
	return result, nil
}

func (r *fakeResultRepo) GetByID(ctx context.Context, id string) (*TestResult, error) {
	res, ok := r.results[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeResultRepo) List(ctx context.Context) ([]TestResult, error) {
	result := make([]TestResult, 0, len(r.results))
	for _, res := range r.results {
		result = append(result, *res)
	}
	return result, nil
}

func (r *fakeResultRepo) ListByBooking(ctx context.Context, bookingID string) ([]TestResult, error) {
	result := make([]TestResult, 0)
	for _, res := range r.results {
		if res.BookingID == bookingID {
			result = append(result, *res)
		}
	}
	return result, nil
}

func (r *fakeResultRepo) ListByCustomer(ctx context.Context, customerID string) ([]TestResult, error) {
	result := make([]TestResult, 0)
	for _, res := range r.results {
		if res.CustomerID != nil && *res.CustomerID == customerID {
			result = append(result, *res)
		}
	}
	return result, nil
}

func (r *fakeResultRepo) Create(ctx context.Context, res *TestResult) error {
	if r.failNext {
		r.failNext = false
		return errors.New("insert failed")
	}
	copied := *res
	r.results[res.ID] = &copied
	return nil
}

func (r *fakeResultRepo) Update(ctx context.Context, res *TestResult) error {
	copied := *res
	r.results[res.ID] = &copied
	return nil
}

func (r *fakeResultRepo) ReportNames(ctx context.Context, customerID, serviceID string) (string, string, error) {
	return "Nguyễn Văn A", "ADN cha con", nil
}

type fakeRemover struct {
	repo *fakeResultRepo
}

func (r fakeRemover) Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error) {
	for _, id := range ids {
		if _, ok := r.repo.results[id]; !ok {
			return cascade.Report{}, cascade.ErrNothingDeleted
		}
		delete(r.repo.results, id)
	}
	return cascade.Report{}, nil
}

type fakeRenderer struct {
	doc Document
}

func (r *fakeRenderer) Render(doc Document) ([]byte, error) {
	r.doc = doc
	return []byte("%PDF-fake"), nil
}

func newTestService(repo *fakeResultRepo, renderer Renderer) *Service {
	svc := NewService(repo, fakeRemover{repo: repo}, renderer)
	svc.now = func() time.Time { return time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC) }
	return svc
}

const sampleDescription = "Locus\tNgười A\tNgười B\n" +
	"D8S1179\t12,13\t13,14\n" +
	"D21S11\t28/30\t30/31\n" +
	"TH01\t6,9\t9,9.3\n"

func TestCreateCompletesBooking(t *testing.T) {
	repo := newFakeResultRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateInput{BookingID: "B0001", StaffID: "U0002", Description: sampleDescription})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.ID != "R0001" || res.Status != DefaultStatus {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.CustomerID == nil || *res.CustomerID != "U0001" || res.ServiceID == nil || *res.ServiceID != "S001" {
		t.Fatalf("expected booking details copied, got %+v", res)
	}
	if repo.bookings.bookings["B0001"].Status != lifecycle.BookingCompleted {
		t.Fatalf("expected booking completed, got %s", repo.bookings.bookings["B0001"].Status)
	}

	second, err := svc.Create(ctx, CreateInput{BookingID: "B0001"})
	if err != nil {
		t.Fatalf("expected extra result on completed booking, got %v", err)
	}
	if second.ID != "R0002" {
		t.Fatalf("expected R0002, got %s", second.ID)
	}
}

func TestCreateRejectsBookingNotInProgress(t *testing.T) {
	repo := newFakeResultRepo()
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), CreateInput{BookingID: "B0002"})
	var rejection *lifecycle.RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if len(repo.results) != 0 || repo.bookings.bookings["B0002"].Status != lifecycle.BookingCheckedIn {
		t.Fatalf("expected nothing changed")
	}
}

func TestCreateRollsBackBookingOnInsertFailure(t *testing.T) {
	repo := newFakeResultRepo()
	repo.failNext = true
	svc := newTestService(repo, nil)

	if _, err := svc.Create(context.Background(), CreateInput{BookingID: "B0001"}); err == nil {
		t.Fatalf("expected insert failure")
	}
	if repo.bookings.bookings["B0001"].Status != lifecycle.BookingInProgress {
		t.Fatalf("expected booking status rolled back")
	}
}

func TestCreateValidates(t *testing.T) {
	repo := newFakeResultRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{}); !errors.Is(err, ErrBookingRequired) {
		t.Fatalf("expected ErrBookingRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{BookingID: "B0404"}); !errors.Is(err, booking.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{BookingID: "B0001", StaffID: "U0404"}); !errors.Is(err, ErrStaffNotFound) {
		t.Fatalf("expected ErrStaffNotFound, got %v", err)
	}
}

func TestReport(t *testing.T) {
	repo := newFakeResultRepo()
	renderer := &fakeRenderer{}
	svc := newTestService(repo, renderer)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateInput{BookingID: "B0001", Description: sampleDescription})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pdf, err := svc.Report(ctx, res.ID)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if string(pdf) != "%PDF-fake" {
		t.Fatalf("unexpected output %q", pdf)
	}
	if renderer.doc.ServiceName != "ADN cha con" || renderer.doc.Assessment.Total != 3 {
		t.Fatalf("unexpected document %+v", renderer.doc)
	}
	if renderer.doc.Assessment.Conclusion != ConclusionInclusion {
		t.Fatalf("expected inclusion, got %s", renderer.doc.Assessment.Conclusion)
	}

	noRenderer := newTestService(repo, nil)
	if _, err := noRenderer.Report(ctx, res.ID); !errors.Is(err, ErrRendererMissing) {
		t.Fatalf("expected ErrRendererMissing, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	repo := newFakeResultRepo()
	svc := newTestService(repo, nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, CreateInput{BookingID: "B0001"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := svc.Update(ctx, res.ID, UpdateInput{Status: "Đã duyệt"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != "Đã duyệt" {
		t.Fatalf("expected status updated, got %q", updated.Status)
	}
	if err := svc.Delete(ctx, res.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, res.ID); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("expected ErrResultNotFound, got %v", err)
	}
}
