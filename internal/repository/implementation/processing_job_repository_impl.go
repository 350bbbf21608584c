package implementation

import (
	"context"
	"errors"
	"time"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/entity"
	"deck-align-be/internal/mapper"
	"deck-align-be/internal/model"
	"deck-align-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcessingJobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcessingJobMapper
}

func NewProcessingJobRepository(db *gorm.DB) contract.ProcessingJobRepository {
	return &ProcessingJobRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcessingJobMapper(),
	}
}

func (r *ProcessingJobRepositoryImpl) Create(ctx context.Context, job *entity.ProcessingJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessingJobRepositoryImpl) Update(ctx context.Context, job *entity.ProcessingJob) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProcessingJobRepositoryImpl) FindCurrent(ctx context.Context, lectureId uuid.UUID, jobType string) (*entity.ProcessingJob, error) {
	var m model.ProcessingJob
	err := r.db.WithContext(ctx).
		Where("lecture_id = ?", lectureId).
		Where("job_type = ?", jobType).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProcessingJobRepositoryImpl) UpdateProgress(ctx context.Context, id uuid.UUID, progress int) error {
	return r.db.WithContext(ctx).
		Model(&model.ProcessingJob{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

func (r *ProcessingJobRepositoryImpl) MarkStatus(ctx context.Context, id uuid.UUID, status string, progress int, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"progress":      progress,
		"error_message": errorMessage,
	}
	if status == constant.JobStatusCompleted || status == constant.JobStatusFailed {
		now := time.Now()
		updates["completed_at"] = &now
	}
	return r.db.WithContext(ctx).
		Model(&model.ProcessingJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}
