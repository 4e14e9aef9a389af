// Package notifier turns account events into best-effort emails. Sends run
// on the event bus goroutines; failures are logged and never reach the
// request that triggered them.
package notifier

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/example/task-manager-api/modules/events"
)

// Module wires account events to the mailer.
type Module struct {
	bus    *events.Bus
	sender Sender
}

// NewModule creates a notifier for the given bus. When sender is nil the
// SMTP configuration is read from the environment; with no SMTP_HOST set the
// module stays registered but sends nothing.
func NewModule(bus *events.Bus, sender Sender) *Module {
	if sender == nil {
		sender = mailerFromEnv()
	}
	return &Module{
		bus:    bus,
		sender: sender,
	}
}

// mailerFromEnv builds an SMTP mailer from environment configuration.
func mailerFromEnv() Sender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}

	return NewMailer(
		host,
		port,
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_SENDER"),
	)
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notifier"
}

// Start subscribes to account events.
func (m *Module) Start(_ context.Context) error {
	m.bus.Subscribe(events.EventTypeAccountCreated, m.onAccountCreated)
	m.bus.Subscribe(events.EventTypeAccountDeleted, m.onAccountDeleted)

	if m.sender == nil {
		log.Println("[notifier] Module started (no SMTP configuration, emails disabled)")
	} else {
		log.Println("[notifier] Module started")
	}
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[notifier] Module stopped")
	return nil
}

func (m *Module) onAccountCreated(event events.AccountEvent) {
	subject, body := welcomeMessage(event.Name)
	m.send(event.Email, subject, body)
}

func (m *Module) onAccountDeleted(event events.AccountEvent) {
	subject, body := cancellationMessage(event.Name)
	m.send(event.Email, subject, body)
}

func (m *Module) send(to, subject, body string) {
	if m.sender == nil {
		return
	}
	if err := m.sender.Send(to, subject, body); err != nil {
		log.Printf("[notifier] Failed to send %q to %s: %v", subject, to, err)
		return
	}
	log.Printf("[notifier] Sent %q to %s", subject, to)
}
