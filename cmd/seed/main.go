package main

import (
	"context"
	"log"
	"os"

	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/internal/service"
	"deck-align-be/pkg/database"

	"github.com/joho/godotenv"
)

// Seeds a small demo lecture and deck so the alignment flow can be exercised
// against a fresh database without real course material.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger("logs/seed.log", false)
	defer sysLogger.Sync()

	ctx := context.Background()

	lectureService := service.NewLectureService(uowFactory, sysLogger)
	lecture, err := lectureService.ImportLecture(ctx, &dto.ImportLectureRequest{
		Title: "Demo: Cell Biology Week 3",
		Slides: []dto.SlideConceptInput{
			{SlideNumber: 1, Summary: "The mitochondrion generates ATP through oxidative phosphorylation across its inner membrane."},
			{SlideNumber: 2, Summary: "Osmosis moves water across a semipermeable membrane from low to high solute concentration."},
			{SlideNumber: 3, Summary: "The sodium-potassium pump maintains the resting membrane potential using active transport."},
		},
	})
	if err != nil {
		log.Fatalf("Error: Failed to seed lecture: %v", err)
	}
	log.Printf("Seeded lecture %s with %d slides", lecture.Id, lecture.SlideCount)

	deckService := service.NewDeckService(uowFactory, nil, sysLogger)
	deck, err := deckService.ImportDeck(ctx, &dto.ImportDeckRequest{
		Name:     "Demo: Cell Biology Flashcards",
		FileType: "csv",
		Content: `What organelle produces ATP?,The mitochondrion via oxidative phosphorylation
What is osmosis?,Movement of water across a semipermeable membrane toward higher solute concentration
What does the sodium-potassium pump do?,Maintains resting membrane potential by pumping 3 Na+ out and 2 K+ in
What is the powerhouse of the cell?,The mitochondrion
Define diffusion,Net movement of particles from high to low concentration
`,
	})
	if err != nil {
		log.Fatalf("Error: Failed to seed deck: %v", err)
	}
	log.Printf("Seeded deck %s with %d cards", deck.Id, deck.CardCount)

	log.Printf("✅ Seed complete. Run alignment with lecture_id=%s deck_id=%s", lecture.Id, deck.Id)
}
