package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/catalog"
	"dna-clinic-go/internal/domain/kit"
	"dna-clinic-go/internal/domain/lifecycle"
	"dna-clinic-go/internal/domain/user"
	"dna-clinic-go/pkg/logger"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", booking.ErrBookingNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("load: %w", kit.ErrKitNotFound), http.StatusNotFound, "not_found"},
		{"validation", user.ErrUsernameRequired, http.StatusBadRequest, "invalid_request"},
		{"duplicate", user.ErrEmailTaken, http.StatusConflict, "conflict"},
		{"credentials", user.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"ownership", booking.ErrNotOwner, http.StatusForbidden, "forbidden"},
		{"dependents", &catalog.DependentsError{}, http.StatusConflict, "conflict"},
		{"transition", &lifecycle.RejectionError{From: lifecycle.BookingAwaitingSample, To: lifecycle.BookingInProgress, Reason: lifecycle.ErrKitMissing}, http.StatusBadRequest, "invalid_transition"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, code, _ := classify(tc.err)
			if status != tc.status || code != tc.code {
				t.Fatalf("expected %d %s, got %d %s", tc.status, tc.code, status, code)
			}
		})
	}
}

func TestFailHidesInternalErrors(t *testing.T) {
	h := New(Services{}, nil, 0, logger.NewNop())

	rec := httptest.NewRecorder()
	h.fail(rec, "test.op", errors.New("SQLSTATE 42P01 relation missing"))
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusInternalServerError || body.Message == "" || body.Message == "SQLSTATE 42P01 relation missing" {
		t.Fatalf("expected generic 500 body, got %d %+v", rec.Code, body)
	}

	rec = httptest.NewRecorder()
	h.fail(rec, "test.op", &lifecycle.RejectionError{From: lifecycle.BookingAwaitingSample, To: lifecycle.BookingInProgress, Reason: lifecycle.ErrKitMissing})
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Code != http.StatusBadRequest || body.Code != "invalid_transition" {
		t.Fatalf("expected 400 invalid_transition, got %d %+v", rec.Code, body)
	}
}

func TestDateUnmarshal(t *testing.T) {
	var payload struct {
		Date      Date  `json:"date"`
		Birthdate *Date `json:"birthdate"`
	}
	if err := json.Unmarshal([]byte(`{"date":"2026-03-10T09:30:00+07:00","birthdate":"1990-01-02"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Date.Equal(time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC)) {
		t.Fatalf("expected RFC3339 date, got %v", payload.Date.Time)
	}
	if got := payload.Birthdate.Ptr(); got == nil || got.Format("2006-01-02") != "1990-01-02" {
		t.Fatalf("expected birthdate 1990-01-02, got %v", got)
	}

	if err := json.Unmarshal([]byte(`{"date":"10/03/2026"}`), &payload); err == nil {
		t.Fatalf("expected invalid date error")
	}
}
