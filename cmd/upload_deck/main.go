package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/internal/service"
	"deck-align-be/pkg/anki"
	"deck-align-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Imports an Anki/CSV deck export straight into the database, bypassing the
// HTTP body-size limit for large decks.
func main() {
	filePath := flag.String("file", "", "path to the deck export (.txt/.tsv/.csv)")
	name := flag.String("name", "", "deck name (defaults to the file name)")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing to the database")
	flag.Parse()

	if *filePath == "" {
		color.Red("Usage: upload_deck --file <export> [--name <deck name>] [--dry-run]")
		os.Exit(1)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		color.Red("Failed to read %s: %v", *filePath, err)
		os.Exit(1)
	}

	deckName := *name
	if deckName == "" {
		base := filepath.Base(*filePath)
		deckName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	fileType := "csv"
	if ext := strings.ToLower(filepath.Ext(*filePath)); ext == ".txt" || ext == ".tsv" {
		fileType = "tsv"
	}

	color.Cyan("🚀 Importing deck %q (%s)", deckName, *filePath)

	cards, err := anki.Parse(strings.NewReader(string(raw)))
	if err != nil {
		color.Red("Failed to parse export: %v", err)
		os.Exit(1)
	}
	color.Green("Parsed %d unique cards", len(cards))
	if len(cards) == 0 {
		color.Red("Export contains no cards, nothing to import")
		os.Exit(1)
	}

	if *dryRun {
		for i, c := range cards {
			if i >= 5 {
				break
			}
			color.Yellow("  [%s] %s", c.ExternalId, truncate(c.Front, 70))
		}
		color.Cyan("Dry run complete, nothing written")
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDB(dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger("logs/upload_deck.log", false)
	defer sysLogger.Sync()

	deckService := service.NewDeckService(uowFactory, nil, sysLogger)
	res, err := deckService.ImportDeck(context.Background(), &dto.ImportDeckRequest{
		Name:     deckName,
		FileType: fileType,
		Content:  string(raw),
	})
	if err != nil {
		color.Red("Import failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Deck %s imported with %d cards", res.Id, res.CardCount)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
