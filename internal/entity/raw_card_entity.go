package entity

import (
	"time"

	"github.com/google/uuid"
)

// RawCard is one flashcard as imported from the source deck export.
// FrontRaw keeps the original markup; FrontText/BackText are cleaned for
// search and classification. Read-only after deck ingestion.
type RawCard struct {
	Id             uuid.UUID
	DeckId         uuid.UUID
	ExternalCardId string
	FrontRaw       string
	FrontText      string
	BackText       string
	Tags           []string
	CreatedAt      time.Time
}
