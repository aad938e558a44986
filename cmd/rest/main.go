package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speaksmart-be/internal/bootstrap"
	"speaksmart-be/internal/config"
	"speaksmart-be/internal/server"
	"speaksmart-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer
	shutdownTracer := tracer.InitTracer(cfg.OTel)

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// 5. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := container.Close(ctx); err != nil {
		log.Printf("Container close error: %v", err)
	}
	if err := shutdownTracer(ctx); err != nil {
		log.Printf("Tracer shutdown error: %v", err)
	}
}
