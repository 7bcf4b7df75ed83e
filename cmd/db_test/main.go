package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-jobmarket-scraper/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		godotenv.Load("../../.env") // Fallback
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set. Please check your .env file.")
	}

	fmt.Println("Attempting to connect to the database...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := database.Open(ctx, dbURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to the database. Error: %v\n(Check your connection string, password, and Ensure you have internet access)", err)
	}
	defer store.Close()

	count, err := store.CountJobs(ctx)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	jobs, err := store.ListJobs(ctx, 5, 0)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}

	fmt.Println("✅ Successfully connected and migrated the jobs table!")
	fmt.Printf("📦 Jobs stored: %d\n", count)
	for _, job := range jobs {
		fmt.Printf("   %s  %s @ %s  %s\n", job.PostDate.Format("2006-01-02"), job.Title, job.Company, job.JobLink)
	}
}
