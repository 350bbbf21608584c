package contract

import (
	"context"

	"deck-align-be/internal/entity"

	"github.com/google/uuid"
)

type ProcessingJobRepository interface {
	Create(ctx context.Context, job *entity.ProcessingJob) error
	Update(ctx context.Context, job *entity.ProcessingJob) error
	// FindCurrent returns the authoritative job for (lecture, jobType),
	// meaning the most recently created one, or nil when none exists.
	FindCurrent(ctx context.Context, lectureId uuid.UUID, jobType string) (*entity.ProcessingJob, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error
	// MarkStatus sets a job's status, progress and optional error message in
	// one write. Terminal statuses also stamp completed_at.
	MarkStatus(ctx context.Context, id uuid.UUID, status string, progress int, errorMessage *string) error
}
