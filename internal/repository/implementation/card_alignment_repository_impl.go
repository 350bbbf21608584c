package implementation

import (
	"context"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/mapper"
	"deck-align-be/internal/model"
	"deck-align-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardAlignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CardAlignmentMapper
}

func NewCardAlignmentRepository(db *gorm.DB) contract.CardAlignmentRepository {
	return &CardAlignmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewCardAlignmentMapper(),
	}
}

func (r *CardAlignmentRepositoryImpl) CreateBulk(ctx context.Context, alignments []*entity.CardAlignment) error {
	if len(alignments) == 0 {
		return nil
	}
	models := r.mapper.ToModels(alignments)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 500).Error; err != nil {
		return err
	}
	for i, m := range models {
		*alignments[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CardAlignmentRepositoryImpl) DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error {
	subQuery := r.db.Table("slide_concepts").Select("id").Where("lecture_id = ?", lectureId)
	return r.db.WithContext(ctx).Where("slide_concept_id IN (?)", subQuery).Delete(&model.CardAlignment{}).Error
}

func (r *CardAlignmentRepositoryImpl) FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.CardAlignment, error) {
	subQuery := r.db.Table("slide_concepts").Select("id").Where("lecture_id = ?", lectureId)
	var models []*model.CardAlignment
	err := r.db.WithContext(ctx).
		Where("slide_concept_id IN (?)", subQuery).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
