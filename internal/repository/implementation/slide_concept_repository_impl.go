package implementation

import (
	"context"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/mapper"
	"deck-align-be/internal/model"
	"deck-align-be/internal/repository/contract"
	"deck-align-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SlideConceptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SlideConceptMapper
}

func NewSlideConceptRepository(db *gorm.DB) contract.SlideConceptRepository {
	return &SlideConceptRepositoryImpl{
		db:     db,
		mapper: mapper.NewSlideConceptMapper(),
	}
}

func (r *SlideConceptRepositoryImpl) CreateBulk(ctx context.Context, concepts []*entity.SlideConcept) error {
	models := make([]*model.SlideConcept, len(concepts))
	for i, c := range concepts {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*concepts[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *SlideConceptRepositoryImpl) FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.SlideConcept, error) {
	var models []*model.SlideConcept
	err := r.db.WithContext(ctx).
		Where("lecture_id = ?", lectureId).
		Order("slide_number ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SlideConceptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	err := query.Model(&model.SlideConcept{}).Count(&count).Error
	return count, err
}
