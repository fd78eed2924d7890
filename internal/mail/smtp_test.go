package mail

import (
	"context"
	"errors"
	"mime"
	"strings"
	"testing"
	"time"

	"dna-clinic-go/pkg/logger"
	gomail "github.com/wneessen/go-mail"
)

type fakeSender struct {
	messages []*gomail.Msg
	err      error
}

func (s *fakeSender) DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error {
	s.messages = append(s.messages, messages...)
	return s.err
}

func TestRenderResetIsDeterministic(t *testing.T) {
	now := time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC)
	expires := now.Add(30 * time.Minute)

	first, err := renderReset("Nguyễn Văn A", "123456", now, expires, time.UTC)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, _ := renderReset("Nguyễn Văn A", "123456", now, expires, time.UTC)
	if first != second {
		t.Fatalf("expected identical output for identical input")
	}
	for _, want := range []string{"Nguyễn Văn A", "123456", "30 phút", "01:30 01/05/2024"} {
		if !strings.Contains(first, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
}

func TestRenderResetEscapesName(t *testing.T) {
	now := time.Now()
	body, err := renderReset("<script>", "000000", now, now.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected name to be escaped")
	}
}

func TestSendResetCode(t *testing.T) {
	client := &fakeSender{}
	mailer := newSMTPMailer(client, "no-reply@clinic.test", logger.NewNop())

	err := mailer.SendResetCode(context.Background(), "an@example.com", "An", "654321", time.Now().Add(30*time.Minute))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(client.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(client.messages))
	}
	recipients, err := client.messages[0].GetRecipients()
	if err != nil || len(recipients) != 1 || recipients[0] != "an@example.com" {
		t.Fatalf("expected recipient an@example.com, got %v (%v)", recipients, err)
	}
	header := client.messages[0].GetGenHeader(gomail.HeaderSubject)
	if len(header) != 1 {
		t.Fatalf("expected one subject header, got %v", header)
	}
	subject, err := new(mime.WordDecoder).DecodeHeader(header[0])
	if err != nil || subject != resetSubject {
		t.Fatalf("expected subject %q, got %q (%v)", resetSubject, subject, err)
	}
}

func TestSendResetCodeReportsFailure(t *testing.T) {
	client := &fakeSender{err: errors.New("connection refused")}
	mailer := newSMTPMailer(client, "no-reply@clinic.test", logger.NewNop())

	if err := mailer.SendResetCode(context.Background(), "an@example.com", "An", "654321", time.Now()); err == nil {
		t.Fatalf("expected delivery error")
	}
	if err := mailer.SendResetCode(context.Background(), "not an address", "An", "654321", time.Now()); err == nil {
		t.Fatalf("expected invalid address error")
	}
}
