package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dropdeck-dev/dropdeck/db"
	"github.com/dropdeck-dev/dropdeck/internal/auth"
	"github.com/dropdeck-dev/dropdeck/internal/cache"
	"github.com/dropdeck-dev/dropdeck/internal/config"
	"github.com/dropdeck-dev/dropdeck/internal/handlers"
	"github.com/dropdeck-dev/dropdeck/internal/router"
	"github.com/dropdeck-dev/dropdeck/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.RedisAddr != "" {
		listingCache, err := cache.New(context.Background(), cfg.RedisAddr, cfg.RedisPass)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		handlers.ListingCache = listingCache
	} else {
		log.Println("REDIS_ADDR not set, listing cache disabled")
	}

	scheduler.Initialize(cfg.ResetHour, cfg.ResetUTCOffset)
	defer scheduler.Shutdown()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		scheduler.Shutdown()
		os.Exit(0)
	}()

	r := router.NewRouter(cfg.StaticDir)

	log.Printf("Dropdeck listening on :%s", cfg.Port)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
