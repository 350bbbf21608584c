package model

import (
	"time"

	"github.com/google/uuid"
)

type Lecture struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title            string    `gorm:"type:varchar(255);not null"`
	ProcessingStatus string    `gorm:"type:varchar(32);not null;default:'processing'"`
	SlideCount       int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Lecture) TableName() string {
	return "lectures"
}
