package main

import (
	"context"
	"log"
	"time"

	"go-jobmarket-scraper/internal/api"
	"go-jobmarket-scraper/internal/config"
	"go-jobmarket-scraper/internal/database"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := database.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	r := api.NewRouter(store)

	log.Printf("Server listening on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
