package entity

import (
	"time"

	"github.com/google/uuid"
)

// SlideConcept is the per-slide teaching summary produced by upstream lecture
// ingestion. The embedding is precomputed there; this service only carries it.
// Immutable once created.
type SlideConcept struct {
	Id          uuid.UUID
	LectureId   uuid.UUID
	SlideNumber int
	Summary     string
	Embedding   []float32
	CreatedAt   time.Time
}
