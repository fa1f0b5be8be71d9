// Command indexes creates the MongoDB indexes the API relies on. Run it once
// against a fresh database, or after upgrading.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, database.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	log.Println("Creating indexes...")
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Println("Indexes created successfully")
}
