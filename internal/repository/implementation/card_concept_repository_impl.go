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

type CardConceptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CardConceptMapper
}

func NewCardConceptRepository(db *gorm.DB) contract.CardConceptRepository {
	return &CardConceptRepositoryImpl{
		db:     db,
		mapper: mapper.NewCardConceptMapper(),
	}
}

func (r *CardConceptRepositoryImpl) CreateBulk(ctx context.Context, concepts []*entity.CardConcept) error {
	if len(concepts) == 0 {
		return nil
	}
	models := r.mapper.ToModels(concepts)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*concepts[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CardConceptRepositoryImpl) Update(ctx context.Context, concept *entity.CardConcept) error {
	m := r.mapper.ToModel(concept)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*concept = *r.mapper.ToEntity(m)
	return nil
}

func (r *CardConceptRepositoryImpl) FindAllByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.CardConcept, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []*model.CardConcept
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CardConceptRepositoryImpl) FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.CardConcept, error) {
	if len(externalIds) == 0 {
		return nil, nil
	}
	var models []*model.CardConcept
	err := r.db.WithContext(ctx).
		Where("deck_id = ?", deckId).
		Where("external_card_id IN ?", externalIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
