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

type DeckRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DeckMapper
}

func NewDeckRepository(db *gorm.DB) contract.DeckRepository {
	return &DeckRepositoryImpl{
		db:     db,
		mapper: mapper.NewDeckMapper(),
	}
}

func (r *DeckRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DeckRepositoryImpl) Create(ctx context.Context, deck *entity.Deck) error {
	m := r.mapper.ToModel(deck)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*deck = *r.mapper.ToEntity(m)
	return nil
}

func (r *DeckRepositoryImpl) Update(ctx context.Context, deck *entity.Deck) error {
	m := r.mapper.ToModel(deck)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*deck = *r.mapper.ToEntity(m)
	return nil
}

func (r *DeckRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deck, error) {
	var m model.Deck
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DeckRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Deck, error) {
	var models []*model.Deck
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Deck, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
