package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"lms/internal/otp"
)

// Mailer delivers one-time codes out of band. Implementations must report
// delivery failure so the caller can abort before persisting any state.
type Mailer interface {
	SendCode(ctx context.Context, to, code string, kind otp.ChangeKind) error
}

// SMTPMailer sends codes over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendCode emails the code to the given address.
func (m *SMTPMailer) SendCode(ctx context.Context, to, code string, kind otp.ChangeKind) error {
	subject := "Password Change OTP"
	if kind == otp.KindEmailChange {
		subject = "Email Change OTP"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", fmt.Sprintf("Your OTP is: %s", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
