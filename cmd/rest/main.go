package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-notecapture-be/internal/bootstrap"
	"ai-notecapture-be/internal/config"
	"ai-notecapture-be/internal/server"
	"ai-notecapture-be/internal/tracer"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Restore notes and prime the discover feed
	if err := container.NoteRepository.Load(ctx); err != nil {
		log.Fatalf("[FATAL] Failed to load notes: %v", err)
	}
	if err := container.CaptureService.RefreshDiscover(ctx); err != nil {
		log.Printf("[WARN] Initial discover refresh failed: %v", err)
	}

	// 4. Start Background Services
	go container.WebSocketHub.Run()
	log.Println("Background: Starting Relatedness Consumer...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
