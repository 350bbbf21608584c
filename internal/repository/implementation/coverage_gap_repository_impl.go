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

type CoverageGapRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CoverageGapMapper
}

func NewCoverageGapRepository(db *gorm.DB) contract.CoverageGapRepository {
	return &CoverageGapRepositoryImpl{
		db:     db,
		mapper: mapper.NewCoverageGapMapper(),
	}
}

func (r *CoverageGapRepositoryImpl) CreateBulk(ctx context.Context, gaps []*entity.CoverageGap) error {
	if len(gaps) == 0 {
		return nil
	}
	models := r.mapper.ToModels(gaps)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*gaps[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CoverageGapRepositoryImpl) DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error {
	subQuery := r.db.Table("slide_concepts").Select("id").Where("lecture_id = ?", lectureId)
	return r.db.WithContext(ctx).Where("slide_concept_id IN (?)", subQuery).Delete(&model.CoverageGap{}).Error
}

func (r *CoverageGapRepositoryImpl) FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.CoverageGap, error) {
	subQuery := r.db.Table("slide_concepts").Select("id").Where("lecture_id = ?", lectureId)
	var models []*model.CoverageGap
	err := r.db.WithContext(ctx).
		Where("slide_concept_id IN (?)", subQuery).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
