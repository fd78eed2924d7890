package ids

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	maxScan           = 1000
	maxInsertAttempts = 5
)

var (
	// ErrConflict is returned by inserters when the candidate id is already taken.
	ErrConflict          = errors.New("id already taken")
	ErrAttemptsExhausted = errors.New("id reservation attempts exhausted")
)

// Scheme describes a prefixed, zero padded sequential id such as S001.
type Scheme struct {
	Prefix string
	Width  int
}

var (
	Service       = Scheme{Prefix: "S", Width: 3}
	Course        = Scheme{Prefix: "C", Width: 3}
	User          = Scheme{Prefix: "U", Width: 4}
	Booking       = Scheme{Prefix: "B", Width: 4}
	Kit           = Scheme{Prefix: "K", Width: 4}
	TestResult    = Scheme{Prefix: "R", Width: 4}
	Invoice       = Scheme{Prefix: "I", Width: 4}
	InvoiceDetail = Scheme{Prefix: "ID", Width: 4}
	Relative      = Scheme{Prefix: "RL", Width: 4}
	Feedback      = Scheme{Prefix: "F", Width: 4}
	Notification  = Scheme{Prefix: "N", Width: 4}
)

func (s Scheme) Format(counter int) string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Width, counter)
}

// Matches reports whether id has the prefix+fixed-width-number form.
func (s Scheme) Matches(id string) bool {
	if !strings.HasPrefix(id, s.Prefix) {
		return false
	}
	digits := id[len(s.Prefix):]
	if len(digits) != s.Width {
		return false
	}
	_, err := strconv.Atoi(digits)
	return err == nil
}

func (s Scheme) limit() int {
	limit := 1
	for i := 0; i < s.Width; i++ {
		limit *= 10
		if limit > maxScan {
			return maxScan
		}
	}
	return limit - 1
}

// Next returns the lowest free counter id. When the counter space is used up it
// falls back to a time derived id which is longer than the counter form.
func (s Scheme) Next(existing []string, now time.Time) string {
	taken := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		if s.Matches(id) {
			taken[id] = struct{}{}
		}
	}

	for counter := 1; counter <= s.limit(); counter++ {
		candidate := s.Format(counter)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}

	return s.fallback(now)
}

func (s Scheme) fallback(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("%sT%s%03d", s.Prefix, now.Format("060102150405"), now.Nanosecond()/int(time.Millisecond))
}

// Lister returns the ids already stored that start with prefix.
type Lister func(ctx context.Context, prefix string) ([]string, error)

// Inserter persists the row under id and returns ErrConflict on a unique violation.
type Inserter func(ctx context.Context, id string) error

// Reserve picks the next id and inserts with it, retrying on conflicts so two
// concurrent creations can never end up with the same id.
func Reserve(ctx context.Context, s Scheme, list Lister, insert Inserter, clock func() time.Time) (string, error) {
	if clock == nil {
		clock = time.Now
	}

	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		existing, err := list(ctx, s.Prefix)
		if err != nil {
			return "", err
		}

		id := s.Next(existing, clock())
		err = insert(ctx, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrConflict) {
			return "", err
		}
	}

	return "", ErrAttemptsExhausted
}
