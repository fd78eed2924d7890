package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dna-clinic-go/internal/config"
	"dna-clinic-go/pkg/logger"
	gomail "github.com/wneessen/go-mail"
)

const resetSubject = "Mã xác nhận đặt lại mật khẩu"

var ErrNotConfigured = errors.New("smtp host not configured")

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer delivers reset codes over SMTP.
type SMTPMailer struct {
	client   sender
	from     string
	location *time.Location
	now      func() time.Time
	log      logger.Logger
}

func NewSMTPMailer(cfg config.MailConfig, log logger.Logger) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, ErrNotConfigured
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(10 * time.Second),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.SMTPUsername),
			gomail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return newSMTPMailer(client, cfg.From, log), nil
}

func newSMTPMailer(client sender, from string, log logger.Logger) *SMTPMailer {
	location, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		location = time.UTC
	}
	return &SMTPMailer{
		client:   client,
		from:     from,
		location: location,
		now:      time.Now,
		log:      log,
	}
}

func (m *SMTPMailer) SendResetCode(ctx context.Context, to, fullname, code string, expiresAt time.Time) error {
	body, err := renderReset(fullname, code, m.now(), expiresAt, m.location)
	if err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(resetSubject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Warn("mail.send_reset: delivery failed", "to", to, "err", err)
		return err
	}
	m.log.Info("mail.send_reset: sent", "to", to)
	return nil
}
