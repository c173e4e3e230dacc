package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/rob-vincent/chat-app/modules/broadcast"
	"github.com/rob-vincent/chat-app/modules/chat"
	"github.com/rob-vincent/chat-app/modules/presence"
	"github.com/rob-vincent/chat-app/modules/wsserver"
)

const shutdownTimeout = 30 * time.Second

func main() {
	port := getEnv("PORT", "3000")

	log.Println("=== Chat App - Connection & Room Coordinator ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	appLogger := app.Logger()

	// Create modules
	chatModule := chat.NewModule(appLogger)
	broadcastModule := broadcast.NewModule(chatModule.Directory(), appLogger)
	presenceModule := presence.NewModule(appLogger)
	wsModule := wsserver.NewModule(":"+port, chatModule.Coordinator(), broadcastModule.Hub(), appLogger)

	// Inject the broadcast hub into the coordinator.
	// (Done manually because the hub is not exposed via ServiceContainer.)
	chatModule.SetRouter(broadcastModule.Hub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - chat: core domain (directory + coordinator, event emitter)
	// - broadcast: WebSocket fan-out hub
	// - presence: event consumer (activity counters + snapshot service)
	// - ws-server: driving adapter (Fiber WebSocket transport, depends on presence)
	app.Register(chatModule)
	app.Register(broadcastModule)
	app.Register(presenceModule)
	app.Register(wsModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(port)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port string) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("HTTP endpoints (http://localhost:%s):", port)
	log.Println("  GET /health - module health")
	log.Println("  GET /stats  - room activity snapshot")
	log.Println("")
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws", port)
	log.Println("  Inbound:  join {username, room}, sendMessage {text}, sendLocation {latitude, longitude}")
	log.Println("  Outbound: message, locationMessage, roomData")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
