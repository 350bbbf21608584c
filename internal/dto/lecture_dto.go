package dto

import (
	"time"

	"github.com/google/uuid"
)

// SlideConceptInput is one slide's concept as produced by upstream lecture
// processing. The embedding arrives precomputed.
type SlideConceptInput struct {
	SlideNumber int       `json:"slide_number" validate:"required,min=1"`
	Summary     string    `json:"summary" validate:"required"`
	Embedding   []float32 `json:"embedding"`
}

type ImportLectureRequest struct {
	Title  string              `json:"title" validate:"required"`
	Slides []SlideConceptInput `json:"slides" validate:"required,min=1,dive"`
}

type ImportLectureResponse struct {
	Id         uuid.UUID `json:"id"`
	SlideCount int       `json:"slide_count"`
}

type ShowLectureResponse struct {
	Id               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	ProcessingStatus string     `json:"processing_status"`
	SlideCount       int        `json:"slide_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}
