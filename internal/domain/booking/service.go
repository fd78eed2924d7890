package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/ids"
	"dna-clinic-go/internal/domain/lifecycle"
	"dna-clinic-go/pkg/logger"
)

// Notifier tells a customer about a change to their booking.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message string) error
}

type Service struct {
	repo     Repository
	remover  Remover
	notifier Notifier
	log      logger.Logger
	now      func() time.Time
}

type Option func(*Service)

// WithNotifier sends a notification to the customer after each status
// change. Delivery failures are logged and do not undo the change.
func WithNotifier(notifier Notifier, log logger.Logger) Option {
	return func(s *Service) {
		s.notifier = notifier
		s.log = log
	}
}

func NewService(repo Repository, remover Remover, opts ...Option) *Service {
	s := &Service{repo: repo, remover: remover, log: logger.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Booking, error) {
	input.CustomerID = strings.TrimSpace(input.CustomerID)
	input.ServiceID = strings.TrimSpace(input.ServiceID)
	input.StaffID = strings.TrimSpace(input.StaffID)

	if input.CustomerID == "" {
		return nil, ErrCustomerRequired
	}
	if input.ServiceID == "" {
		return nil, ErrServiceRequired
	}
	if input.Date.IsZero() {
		return nil, ErrDateRequired
	}
	method, err := lifecycle.ParseMethod(input.Method)
	if err != nil {
		return nil, err
	}

	if err := s.ensureExists(ctx, s.repo.UserExists, input.CustomerID, ErrCustomerNotFound); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, s.repo.ServiceExists, input.ServiceID, ErrServiceNotFound); err != nil {
		return nil, err
	}

	booking := Booking{
		CustomerID: input.CustomerID,
		ServiceID:  input.ServiceID,
		Date:       input.Date.UTC(),
		Address:    strings.TrimSpace(input.Address),
		Method:     method,
		Status:     lifecycle.InitialStatus(method),
	}
	if input.StaffID != "" {
		if err := s.ensureExists(ctx, s.repo.UserExists, input.StaffID, ErrStaffNotFound); err != nil {
			return nil, err
		}
		booking.StaffID = &input.StaffID
	}

	_, err = ids.Reserve(ctx, ids.Booking, s.repo.ListIDs, func(ctx context.Context, id string) error {
		booking.ID = id
		return s.repo.Create(ctx, &booking)
	}, s.now)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByService(ctx context.Context, serviceID string) ([]Booking, error) {
	return s.repo.ListByService(ctx, serviceID)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]Booking, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// Schedule lists bookings dated in [from, to), optionally for one staff member.
func (s *Service) Schedule(ctx context.Context, from, to time.Time, staffID string) ([]Booking, error) {
	if from.IsZero() {
		from = s.now().UTC().Truncate(24 * time.Hour)
	}
	if to.IsZero() {
		to = from.Add(7 * 24 * time.Hour)
	}
	if !to.After(from) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListBetween(ctx, from.UTC(), to.UTC(), strings.TrimSpace(staffID))
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !input.Date.IsZero() {
		booking.Date = input.Date.UTC()
	}
	if address := strings.TrimSpace(input.Address); address != "" {
		booking.Address = address
	}
	if staffID := strings.TrimSpace(input.StaffID); staffID != "" {
		if err := s.ensureExists(ctx, s.repo.UserExists, staffID, ErrStaffNotFound); err != nil {
			return nil, err
		}
		booking.StaffID = &staffID
	}
	booking.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateStatus applies a user-requested status change. The booking row stays
// locked while the kit is read and the transition is checked.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Booking, error) {
	target, err := lifecycle.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}

	var (
		updated *Booking
		changed bool
	)
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		updated, changed, err = transition(ctx, tx, id, target, lifecycle.TriggerUser, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.notifyStatus(ctx, updated)
	}
	return updated, nil
}

func (s *Service) notifyStatus(ctx context.Context, booking *Booking) {
	if s.notifier == nil {
		return
	}
	message := "Lịch hẹn " + booking.ID + " đã chuyển sang trạng thái: " + string(booking.Status)
	if err := s.notifier.Notify(ctx, booking.CustomerID, "Cập nhật lịch hẹn", message); err != nil {
		s.log.Warn("booking.update_status: notify failed", "booking_id", booking.ID, "err", err)
	}
}

// MarkCompleted moves a booking to Hoàn thành after a test result was
// recorded. repo must be bound to the caller's transaction. A booking that is
// already completed is left as is.
func MarkCompleted(ctx context.Context, repo Repository, id string, at time.Time) (*Booking, error) {
	booking, _, err := transition(ctx, repo, id, lifecycle.BookingCompleted, lifecycle.TriggerResultRecorded, at)
	return booking, err
}

func transition(ctx context.Context, repo Repository, id string, target lifecycle.BookingStatus, trigger lifecycle.Trigger, at time.Time) (*Booking, bool, error) {
	booking, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, false, err
	}

	kit, err := repo.KitStatus(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if err := lifecycle.CheckTransition(booking.Status, target, booking.Method, kit, trigger); err != nil {
		return nil, false, err
	}
	if booking.Status == target {
		return booking, false, nil
	}

	at = at.UTC()
	if err := repo.UpdateStatus(ctx, id, target, at); err != nil {
		return nil, false, err
	}
	booking.Status = target
	booking.UpdatedAt = at
	return booking, true, nil
}

// Delete removes the booking with its invoices, kit, results and relatives.
func (s *Service) Delete(ctx context.Context, id string) (cascade.Report, error) {
	report, err := s.remover.Delete(ctx, cascade.Bookings, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return report, ErrBookingNotFound
	}
	return report, err
}

// EnsureOwner fails unless customerID booked id.
func (s *Service) EnsureOwner(ctx context.Context, id, customerID string) error {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if booking.CustomerID != customerID {
		return ErrNotOwner
	}
	return nil
}

func (s *Service) ensureExists(ctx context.Context, exists func(context.Context, string) (bool, error), id string, missing error) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return missing
	}
	return nil
}
