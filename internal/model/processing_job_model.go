package model

import (
	"time"

	"github.com/google/uuid"
)

type ProcessingJob struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LectureId    uuid.UUID  `gorm:"type:uuid;not null;index:idx_job_lecture_type"`
	JobType      string     `gorm:"type:varchar(32);not null;index:idx_job_lecture_type"`
	Status       string     `gorm:"type:varchar(32);not null;default:'pending'"`
	Progress     int        `gorm:"not null;default:0"`
	ErrorMessage *string    `gorm:"type:text"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
	CompletedAt  *time.Time `gorm:""`
}

func (ProcessingJob) TableName() string {
	return "processing_jobs"
}
