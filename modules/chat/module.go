package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/rob-vincent/chat-app/events"
)

// Module wires the coordinator into the mono application and declares the
// chat domain events.
type Module struct {
	directory   *Directory
	coordinator *Coordinator
	logger      types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the chat module with the default profanity moderator
// and the wall clock.
func NewModule(logger types.Logger) *Module {
	directory := NewDirectory()
	return &Module{
		directory:   directory,
		coordinator: NewCoordinator(directory, NewProfanityModerator(), time.Now, logger),
		logger:      logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.coordinator.SetEventBus(bus)
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.UserJoinedV1.ToBase(),
		events.UserLeftV1.ToBase(),
		events.MessageSentV1.ToBase(),
	}
}

// SetRouter wires the broadcast hub into the coordinator. Called from
// main.go once the hub exists; the hub itself needs the directory first.
func (m *Module) SetRouter(router Router) {
	m.coordinator.SetRouter(router)
}

// Start verifies the wiring is complete.
func (m *Module) Start(_ context.Context) error {
	if m.coordinator.router == nil {
		return fmt.Errorf("chat: broadcast router not set")
	}
	m.logger.Info("Chat module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Chat module stopped")
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"live_users": m.directory.Count(),
		},
	}
}

// Directory returns the user directory.
func (m *Module) Directory() *Directory {
	return m.directory
}

// Coordinator returns the connection lifecycle coordinator.
func (m *Module) Coordinator() *Coordinator {
	return m.coordinator
}
