package notifier

import (
	"fmt"

	"github.com/go-mail/mail/v2"
)

// Sender delivers a single email. Implemented by Mailer for SMTP and by
// test doubles.
type Sender interface {
	Send(to, subject, body string) error
}

// Mailer sends plain-text email over SMTP.
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

// NewMailer creates a Mailer for the given SMTP endpoint.
func NewMailer(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// Send delivers one message. Single-shot: callers treat failure as
// best-effort and only log it.
func (m *Mailer) Send(to, subject, body string) error {
	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// welcomeMessage builds the signup email.
func welcomeMessage(name string) (subject, body string) {
	subject = "Thanks for joining in!"
	body = fmt.Sprintf("Hello %s,\nwelcome to the app.\nThanks,\nAdmin", name)
	return subject, body
}

// cancellationMessage builds the account-deletion email.
func cancellationMessage(name string) (subject, body string) {
	subject = "Thanks for your services"
	body = fmt.Sprintf("Hello %s,\nit was nice having you around. If you faced any difficulties from our side please let us know.\nThanks,\nAdmin", name)
	return subject, body
}
