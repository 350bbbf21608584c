package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type RawCard struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DeckId         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_deck_external_card,priority:1"`
	ExternalCardId string         `gorm:"type:varchar(128);not null;uniqueIndex:idx_deck_external_card,priority:2"`
	FrontRaw       string         `gorm:"type:text"`
	FrontText      string         `gorm:"type:text;not null"`
	BackText       string         `gorm:"type:text"`
	Tags           datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (RawCard) TableName() string {
	return "raw_cards"
}
