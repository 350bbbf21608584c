package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CardConcept struct {
	Id             uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeckId         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_deck_card_concept,priority:1"`
	ExternalCardId string           `gorm:"type:varchar(128);not null;uniqueIndex:idx_deck_card_concept,priority:2"`
	Summary        *string          `gorm:"type:text"`
	Embedding      *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime"`
}

func (CardConcept) TableName() string {
	return "card_concepts"
}
