package model

import (
	"time"

	"github.com/google/uuid"
)

type Deck struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name             string    `gorm:"type:varchar(255);not null"`
	FileType         string    `gorm:"type:varchar(16);not null;default:'csv'"`
	VersionHash      string    `gorm:"type:varchar(64);not null"`
	ProcessingStatus string    `gorm:"type:varchar(32);not null;default:'processing'"`
	CardCount        int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Deck) TableName() string {
	return "decks"
}
