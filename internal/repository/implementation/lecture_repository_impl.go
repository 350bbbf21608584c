package implementation

import (
	"context"
	"errors"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/mapper"
	"deck-align-be/internal/model"
	"deck-align-be/internal/repository/contract"
	"deck-align-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LectureRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LectureMapper
}

func NewLectureRepository(db *gorm.DB) contract.LectureRepository {
	return &LectureRepositoryImpl{
		db:     db,
		mapper: mapper.NewLectureMapper(),
	}
}

func (r *LectureRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LectureRepositoryImpl) Create(ctx context.Context, lecture *entity.Lecture) error {
	m := r.mapper.ToModel(lecture)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*lecture = *r.mapper.ToEntity(m)
	return nil
}

func (r *LectureRepositoryImpl) Update(ctx context.Context, lecture *entity.Lecture) error {
	m := r.mapper.ToModel(lecture)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*lecture = *r.mapper.ToEntity(m)
	return nil
}

func (r *LectureRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lecture, error) {
	var m model.Lecture
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LectureRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lecture, error) {
	var models []*model.Lecture
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Lecture, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *LectureRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Lecture{}).Count(&count).Error
	return count, err
}
