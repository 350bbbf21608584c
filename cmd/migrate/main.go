package main

import (
	"log"
	"os"

	"deck-align-be/internal/model"
	"deck-align-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
		`CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models (The Core Task)
	log.Println("Step 2: Running AutoMigrate for 8 Tables...")

	models := []interface{}{
		&model.Lecture{},
		&model.SlideConcept{},
		&model.Deck{},
		&model.RawCard{},
		&model.CardConcept{},
		&model.CardAlignment{},
		&model.CoverageGap{},
		&model.ProcessingJob{},
	}

	// Migrate strictly
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Search Indexes
	log.Println("Step 3: Creating Search Indexes...")

	postMigrationSQL := []string{
		// Trigram indexes backing the lexical candidate search
		`CREATE INDEX IF NOT EXISTS idx_raw_cards_front_trgm ON raw_cards USING gin (front_text gin_trgm_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_raw_cards_back_trgm ON raw_cards USING gin (back_text gin_trgm_ops);`,

		// ANN indexes for cosine distance over enrichment embeddings
		`CREATE INDEX IF NOT EXISTS idx_card_concepts_embedding ON card_concepts USING hnsw (embedding vector_cosine_ops);`,
		`CREATE INDEX IF NOT EXISTS idx_slide_concepts_embedding ON slide_concepts USING hnsw (embedding vector_cosine_ops);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
