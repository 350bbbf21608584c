package entity

import (
	"time"

	"github.com/google/uuid"
)

type Lecture struct {
	Id               uuid.UUID
	Title            string
	ProcessingStatus string
	SlideCount       int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
