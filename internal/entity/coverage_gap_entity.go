package entity

import (
	"time"

	"github.com/google/uuid"
)

type CoverageGap struct {
	Id             uuid.UUID
	SlideConceptId uuid.UUID
	Description    string
	CreatedAt      time.Time
}
