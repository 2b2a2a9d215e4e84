// Package mailer delivers outbound OTP mail. Delivery itself is outside the
// core chat flow, so the service layer only depends on the Mailer interface.
package mailer

import (
	"fmt"
	"net/smtp"

	"konsul-pajak-go/internal/config"
	"konsul-pajak-go/pkg/log"
)

// Mailer sends a one-time login code to the given address.
type Mailer interface {
	SendOTP(to, code string) error
}

type smtpMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a Mailer backed by a plain SMTP server.
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendOTP(to, code string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	subject := "Kode Masuk Konsul Pajak"
	body := fmt.Sprintf("Kode verifikasi Anda: %s\nKode berlaku selama 5 menit.", code)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.cfg.From, to, subject, body))

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send otp mail: %w", err)
	}
	return nil
}

type logMailer struct{}

// NewLogMailer creates a Mailer that only logs the code. Used in
// development when no SMTP server is configured.
func NewLogMailer() Mailer {
	return &logMailer{}
}

func (m *logMailer) SendOTP(to, code string) error {
	log.Infow("OTP mail (dev mode, not delivered)", "to", to, "code", code)
	return nil
}
