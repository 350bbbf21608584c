package entity

import (
	"time"

	"github.com/google/uuid"
)

// CardAlignment links one slide concept to one card concept with the
// classifier's verdict. SimilarityScore is the classifier's 0-100 relevance
// normalized to [0,1]. Unique per (slide, card); rebuilt wholesale each run.
type CardAlignment struct {
	Id              uuid.UUID
	SlideConceptId  uuid.UUID
	CardConceptId   uuid.UUID
	AlignmentType   string
	SimilarityScore float64
	Reasoning       string
	CreatedAt       time.Time
}
