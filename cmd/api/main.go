package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tedgershon/SafePlate/config"
	"github.com/tedgershon/SafePlate/internal/database"
	"github.com/tedgershon/SafePlate/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: without it the API still serves requests, just
	// without result caching or rate limiting.
	var redisClient *redis.Client
	if redisClient, err = database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, continuing without caching: %v", err)
		redisClient = nil
	}

	srv := server.New(cfg, db.Gorm, redisClient)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
