package entity

import (
	"time"

	"github.com/google/uuid"
)

type Deck struct {
	Id               uuid.UUID
	Name             string
	FileType         string
	VersionHash      string
	ProcessingStatus string
	CardCount        int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
