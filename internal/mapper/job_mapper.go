package mapper

import (
	"time"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/model"
)

type ProcessingJobMapper struct{}

func NewProcessingJobMapper() *ProcessingJobMapper {
	return &ProcessingJobMapper{}
}

func (m *ProcessingJobMapper) ToEntity(j *model.ProcessingJob) *entity.ProcessingJob {
	if j == nil {
		return nil
	}

	var updatedAt *time.Time
	if !j.UpdatedAt.IsZero() {
		t := j.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProcessingJob{
		Id:           j.Id,
		LectureId:    j.LectureId,
		JobType:      j.JobType,
		Status:       j.Status,
		Progress:     j.Progress,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
		CompletedAt:  j.CompletedAt,
	}
}

func (m *ProcessingJobMapper) ToModel(j *entity.ProcessingJob) *model.ProcessingJob {
	if j == nil {
		return nil
	}

	var updatedAt time.Time
	if j.UpdatedAt != nil {
		updatedAt = *j.UpdatedAt
	}

	return &model.ProcessingJob{
		Id:           j.Id,
		LectureId:    j.LectureId,
		JobType:      j.JobType,
		Status:       j.Status,
		Progress:     j.Progress,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    updatedAt,
		CompletedAt:  j.CompletedAt,
	}
}
