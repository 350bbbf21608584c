package entity

import (
	"time"

	"github.com/google/uuid"
)

// CardConcept is the deck-scoped identity record that alignments join
// against. Materialized lazily the first time a raw card becomes relevant to
// any slide; Summary and Embedding stay nil until enrichment runs.
type CardConcept struct {
	Id             uuid.UUID
	DeckId         uuid.UUID
	ExternalCardId string
	Summary        *string
	Embedding      []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
