package dto

import (
	"time"

	"github.com/google/uuid"
)

type RunAlignmentRequest struct {
	LectureId uuid.UUID `json:"lecture_id" validate:"required"`
	DeckId    uuid.UUID `json:"deck_id" validate:"required"`
}

type RunAlignmentResponse struct {
	JobId uuid.UUID `json:"job_id"`
}

type JobProgressResponse struct {
	JobId        uuid.UUID `json:"job_id"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

type CancelJobResponse struct {
	JobId  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// RunAlignmentMessage is the async trigger payload carried on the internal
// pubsub channel.
type RunAlignmentMessage struct {
	JobId     uuid.UUID `json:"job_id"`
	LectureId uuid.UUID `json:"lecture_id"`
	DeckId    uuid.UUID `json:"deck_id"`
}

// EnrichCardConceptMessage asks the enrichment worker to fill in a card
// concept's summary and embedding after it was materialized by a run.
type EnrichCardConceptMessage struct {
	CardConceptId uuid.UUID `json:"card_concept_id"`
}

type AlignmentItemResponse struct {
	CardConceptId   uuid.UUID `json:"card_concept_id"`
	ExternalCardId  string    `json:"external_card_id"`
	AlignmentType   string    `json:"alignment_type"`
	SimilarityScore float64   `json:"similarity_score"`
	Reasoning       string    `json:"reasoning"`
}

type SlideReportResponse struct {
	SlideConceptId uuid.UUID               `json:"slide_concept_id"`
	SlideNumber    int                     `json:"slide_number"`
	Summary        string                  `json:"summary"`
	Alignments     []AlignmentItemResponse `json:"alignments"`
	Gaps           []string                `json:"gaps"`
}

type AlignmentReportResponse struct {
	LectureId   uuid.UUID             `json:"lecture_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Slides      []SlideReportResponse `json:"slides"`
}
