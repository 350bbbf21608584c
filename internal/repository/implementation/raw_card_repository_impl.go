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

type RawCardRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RawCardMapper
}

func NewRawCardRepository(db *gorm.DB) contract.RawCardRepository {
	return &RawCardRepositoryImpl{
		db:     db,
		mapper: mapper.NewRawCardMapper(),
	}
}

func (r *RawCardRepositoryImpl) CreateBulk(ctx context.Context, cards []*entity.RawCard) error {
	models := make([]*model.RawCard, len(cards))
	for i, c := range cards {
		models[i] = r.mapper.ToModel(c)
	}
	// Ingestion batches can race with re-uploads of the same export; the
	// (deck_id, external_card_id) unique index is the arbiter.
	if err := r.db.WithContext(ctx).CreateInBatches(models, 500).Error; err != nil {
		return err
	}
	for i, m := range models {
		*cards[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *RawCardRepositoryImpl) CountByDeckId(ctx context.Context, deckId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RawCard{}).
		Where("deck_id = ?", deckId).
		Count(&count).Error
	return count, err
}

func (r *RawCardRepositoryImpl) FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.RawCard, error) {
	if len(externalIds) == 0 {
		return nil, nil
	}
	var models []*model.RawCard
	err := r.db.WithContext(ctx).
		Where("deck_id = ?", deckId).
		Where("external_card_id IN ?", externalIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchCandidates ranks the deck's cards against the slide concept text.
// Primary ranking is Postgres full-text (ts_rank over front+back); when that
// yields nothing and the caller allows it, a pg_trgm similarity pass catches
// near-miss phrasing. Skipping the trigram pass on large decks trades recall
// for bounded latency.
func (r *RawCardRepositoryImpl) SearchCandidates(ctx context.Context, searchText string, deckId uuid.UUID, limit int, lexicalOnly bool) ([]*contract.ScoredRawCard, error) {
	if limit <= 0 {
		limit = 50
	}

	type result struct {
		model.RawCard
		Score float64
	}
	var results []result

	err := r.db.WithContext(ctx).
		Table("raw_cards").
		Select("raw_cards.*, ts_rank(to_tsvector('english', front_text || ' ' || back_text), plainto_tsquery('english', ?)) AS score", searchText).
		Where("deck_id = ?", deckId).
		Where("to_tsvector('english', front_text || ' ' || back_text) @@ plainto_tsquery('english', ?)", searchText).
		Order("score DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	if len(results) == 0 && !lexicalOnly {
		err = r.db.WithContext(ctx).
			Table("raw_cards").
			Select("raw_cards.*, similarity(front_text, ?) AS score", searchText).
			Where("deck_id = ?", deckId).
			Where("similarity(front_text, ?) > 0.1", searchText).
			Order("score DESC").
			Limit(limit).
			Scan(&results).Error
		if err != nil {
			return nil, err
		}
	}

	scored := make([]*contract.ScoredRawCard, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredRawCard{
			Card:  r.mapper.ToEntity(&res.RawCard),
			Score: res.Score,
		}
	}
	return scored, nil
}
