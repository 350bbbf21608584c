package dto

import (
	"time"

	"github.com/google/uuid"
)

type ImportDeckRequest struct {
	Name     string `json:"name" validate:"required"`
	FileType string `json:"file_type" validate:"required,oneof=csv tsv"`
	// Content is the raw export text. Large decks should use the CLI
	// importer instead of this endpoint.
	Content string `json:"content" validate:"required"`
}

type ImportDeckResponse struct {
	Id        uuid.UUID `json:"id"`
	CardCount int       `json:"card_count"`
}

type ShowDeckResponse struct {
	Id               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	FileType         string     `json:"file_type"`
	VersionHash      string     `json:"version_hash"`
	ProcessingStatus string     `json:"processing_status"`
	CardCount        int        `json:"card_count"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}
