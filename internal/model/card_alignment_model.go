package model

import (
	"time"

	"github.com/google/uuid"
)

type CardAlignment struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SlideConceptId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_slide_card_pair,priority:1"`
	CardConceptId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_slide_card_pair,priority:2"`
	AlignmentType   string    `gorm:"type:varchar(32);not null"`
	SimilarityScore float64   `gorm:"not null"`
	Reasoning       string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (CardAlignment) TableName() string {
	return "card_alignments"
}
