package events

import (
	"context"
	"log"
)

// Module provides the account event bus as a mono module.
type Module struct {
	bus *Bus
}

// NewModule creates a new events module. The bus is created eagerly so
// sibling modules can be wired to it before the application starts.
func NewModule() *Module {
	return &Module{bus: New()}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "events"
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	log.Println("[events] Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[events] Module stopped")
	return nil
}

// GetBus returns the event bus instance.
func (m *Module) GetBus() *Bus {
	return m.bus
}
