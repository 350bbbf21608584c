package entity

import (
	"time"

	"deck-align-be/internal/constant"

	"github.com/google/uuid"
)

// ProcessingJob is both the progress surface for external pollers and the
// cancellation control point: an external writer flipping Status to a
// terminal value stops the run at the next batch boundary.
type ProcessingJob struct {
	Id           uuid.UUID
	LectureId    uuid.UUID
	JobType      string
	Status       string
	Progress     int
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	CompletedAt  *time.Time
}

func (j *ProcessingJob) IsTerminal() bool {
	return j.Status == constant.JobStatusCompleted || j.Status == constant.JobStatusFailed
}
