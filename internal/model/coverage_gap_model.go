package model

import (
	"time"

	"github.com/google/uuid"
)

type CoverageGap struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SlideConceptId uuid.UUID `gorm:"type:uuid;not null;index"`
	Description    string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (CoverageGap) TableName() string {
	return "coverage_gaps"
}
