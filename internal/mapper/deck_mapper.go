package mapper

import (
	"encoding/json"
	"time"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/model"

	"gorm.io/datatypes"
)

type DeckMapper struct{}

func NewDeckMapper() *DeckMapper {
	return &DeckMapper{}
}

func (m *DeckMapper) ToEntity(d *model.Deck) *entity.Deck {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Deck{
		Id:               d.Id,
		Name:             d.Name,
		FileType:         d.FileType,
		VersionHash:      d.VersionHash,
		ProcessingStatus: d.ProcessingStatus,
		CardCount:        d.CardCount,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *DeckMapper) ToModel(d *entity.Deck) *model.Deck {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Deck{
		Id:               d.Id,
		Name:             d.Name,
		FileType:         d.FileType,
		VersionHash:      d.VersionHash,
		ProcessingStatus: d.ProcessingStatus,
		CardCount:        d.CardCount,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

type RawCardMapper struct{}

func NewRawCardMapper() *RawCardMapper {
	return &RawCardMapper{}
}

func (m *RawCardMapper) ToEntity(c *model.RawCard) *entity.RawCard {
	if c == nil {
		return nil
	}

	var tags []string
	if len(c.Tags) > 0 {
		// Tags column is a JSON array of strings; a decode failure just means no tags.
		_ = json.Unmarshal(c.Tags, &tags)
	}

	return &entity.RawCard{
		Id:             c.Id,
		DeckId:         c.DeckId,
		ExternalCardId: c.ExternalCardId,
		FrontRaw:       c.FrontRaw,
		FrontText:      c.FrontText,
		BackText:       c.BackText,
		Tags:           tags,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *RawCardMapper) ToModel(c *entity.RawCard) *model.RawCard {
	if c == nil {
		return nil
	}

	var tags datatypes.JSON
	if len(c.Tags) > 0 {
		if b, err := json.Marshal(c.Tags); err == nil {
			tags = datatypes.JSON(b)
		}
	}

	return &model.RawCard{
		Id:             c.Id,
		DeckId:         c.DeckId,
		ExternalCardId: c.ExternalCardId,
		FrontRaw:       c.FrontRaw,
		FrontText:      c.FrontText,
		BackText:       c.BackText,
		Tags:           tags,
		CreatedAt:      c.CreatedAt,
	}
}

func (m *RawCardMapper) ToEntities(cards []*model.RawCard) []*entity.RawCard {
	entities := make([]*entity.RawCard, len(cards))
	for i, c := range cards {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *RawCardMapper) ToModels(cards []*entity.RawCard) []*model.RawCard {
	models := make([]*model.RawCard, len(cards))
	for i, c := range cards {
		models[i] = m.ToModel(c)
	}
	return models
}
