package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.DeckRepository())
	assert.NotNil(t, uow.RawCardRepository())
	assert.NotNil(t, uow.ProcessingJobRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	ctx := context.Background()

	t.Run("Transactional Deck Ingest and Candidate Search", func(t *testing.T) {
		tx := uowFactory.NewUnitOfWork(ctx)
		assert.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		deck := &entity.Deck{
			Id:               uuid.New(),
			Name:             "integration-" + uuid.New().String(),
			FileType:         "csv",
			VersionHash:      "0000000000000000",
			ProcessingStatus: "ready",
		}
		assert.NoError(t, tx.DeckRepository().Create(ctx, deck))

		cards := []*entity.RawCard{
			{
				Id:             uuid.New(),
				DeckId:         deck.Id,
				ExternalCardId: "it-card-1",
				FrontRaw:       "What organelle produces ATP?",
				FrontText:      "What organelle produces ATP?",
				BackText:       "The mitochondrion via oxidative phosphorylation",
			},
			{
				Id:             uuid.New(),
				DeckId:         deck.Id,
				ExternalCardId: "it-card-2",
				FrontRaw:       "Define osmosis",
				FrontText:      "Define osmosis",
				BackText:       "Water movement across a semipermeable membrane",
			},
		}
		assert.NoError(t, tx.RawCardRepository().CreateBulk(ctx, cards))

		count, err := tx.RawCardRepository().CountByDeckId(ctx, deck.Id)
		assert.NoError(t, err)
		assert.EqualValues(t, 2, count)

		scored, err := tx.RawCardRepository().SearchCandidates(ctx, "mitochondrion ATP production", deck.Id, 10, false)
		assert.NoError(t, err)
		if assert.NotEmpty(t, scored) {
			assert.Equal(t, "it-card-1", scored[0].Card.ExternalCardId)
			assert.Greater(t, scored[0].Score, 0.0)
		}
	})

	t.Run("Processing Job Lifecycle", func(t *testing.T) {
		tx := uowFactory.NewUnitOfWork(ctx)
		assert.NoError(t, tx.Begin(ctx))
		defer tx.Rollback()

		lecture := &entity.Lecture{
			Id:               uuid.New(),
			Title:            "integration lecture",
			ProcessingStatus: "ready",
		}
		assert.NoError(t, tx.LectureRepository().Create(ctx, lecture))

		job := &entity.ProcessingJob{
			Id:        uuid.New(),
			LectureId: lecture.Id,
			JobType:   "alignment",
			Status:    "pending",
		}
		assert.NoError(t, tx.ProcessingJobRepository().Create(ctx, job))

		current, err := tx.ProcessingJobRepository().FindCurrent(ctx, lecture.Id, "alignment")
		assert.NoError(t, err)
		if assert.NotNil(t, current) {
			assert.Equal(t, job.Id, current.Id)
			assert.Equal(t, "pending", current.Status)
		}
	})
}
