package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type SlideConcept struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LectureId   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SlideNumber int             `gorm:"not null"`
	Summary     string          `gorm:"type:text;not null"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (SlideConcept) TableName() string {
	return "slide_concepts"
}
