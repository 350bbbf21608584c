package mapper

import (
	"time"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CardConceptMapper struct{}

func NewCardConceptMapper() *CardConceptMapper {
	return &CardConceptMapper{}
}

func (m *CardConceptMapper) ToEntity(c *model.CardConcept) *entity.CardConcept {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if c.Embedding != nil {
		embedding = c.Embedding.Slice()
	}

	return &entity.CardConcept{
		Id:             c.Id,
		DeckId:         c.DeckId,
		ExternalCardId: c.ExternalCardId,
		Summary:        c.Summary,
		Embedding:      embedding,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *CardConceptMapper) ToModel(c *entity.CardConcept) *model.CardConcept {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(c.Embedding) > 0 {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}

	return &model.CardConcept{
		Id:             c.Id,
		DeckId:         c.DeckId,
		ExternalCardId: c.ExternalCardId,
		Summary:        c.Summary,
		Embedding:      embedding,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *CardConceptMapper) ToEntities(concepts []*model.CardConcept) []*entity.CardConcept {
	entities := make([]*entity.CardConcept, len(concepts))
	for i, c := range concepts {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CardConceptMapper) ToModels(concepts []*entity.CardConcept) []*model.CardConcept {
	models := make([]*model.CardConcept, len(concepts))
	for i, c := range concepts {
		models[i] = m.ToModel(c)
	}
	return models
}

type CardAlignmentMapper struct{}

func NewCardAlignmentMapper() *CardAlignmentMapper {
	return &CardAlignmentMapper{}
}

func (m *CardAlignmentMapper) ToEntity(a *model.CardAlignment) *entity.CardAlignment {
	if a == nil {
		return nil
	}
	return &entity.CardAlignment{
		Id:              a.Id,
		SlideConceptId:  a.SlideConceptId,
		CardConceptId:   a.CardConceptId,
		AlignmentType:   a.AlignmentType,
		SimilarityScore: a.SimilarityScore,
		Reasoning:       a.Reasoning,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *CardAlignmentMapper) ToModel(a *entity.CardAlignment) *model.CardAlignment {
	if a == nil {
		return nil
	}
	return &model.CardAlignment{
		Id:              a.Id,
		SlideConceptId:  a.SlideConceptId,
		CardConceptId:   a.CardConceptId,
		AlignmentType:   a.AlignmentType,
		SimilarityScore: a.SimilarityScore,
		Reasoning:       a.Reasoning,
		CreatedAt:       a.CreatedAt,
	}
}

func (m *CardAlignmentMapper) ToEntities(alignments []*model.CardAlignment) []*entity.CardAlignment {
	entities := make([]*entity.CardAlignment, len(alignments))
	for i, a := range alignments {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *CardAlignmentMapper) ToModels(alignments []*entity.CardAlignment) []*model.CardAlignment {
	models := make([]*model.CardAlignment, len(alignments))
	for i, a := range alignments {
		models[i] = m.ToModel(a)
	}
	return models
}

type CoverageGapMapper struct{}

func NewCoverageGapMapper() *CoverageGapMapper {
	return &CoverageGapMapper{}
}

func (m *CoverageGapMapper) ToEntity(g *model.CoverageGap) *entity.CoverageGap {
	if g == nil {
		return nil
	}
	return &entity.CoverageGap{
		Id:             g.Id,
		SlideConceptId: g.SlideConceptId,
		Description:    g.Description,
		CreatedAt:      g.CreatedAt,
	}
}

func (m *CoverageGapMapper) ToModel(g *entity.CoverageGap) *model.CoverageGap {
	if g == nil {
		return nil
	}
	return &model.CoverageGap{
		Id:             g.Id,
		SlideConceptId: g.SlideConceptId,
		Description:    g.Description,
		CreatedAt:      g.CreatedAt,
	}
}

func (m *CoverageGapMapper) ToEntities(gaps []*model.CoverageGap) []*entity.CoverageGap {
	entities := make([]*entity.CoverageGap, len(gaps))
	for i, g := range gaps {
		entities[i] = m.ToEntity(g)
	}
	return entities
}

func (m *CoverageGapMapper) ToModels(gaps []*entity.CoverageGap) []*model.CoverageGap {
	models := make([]*model.CoverageGap, len(gaps))
	for i, g := range gaps {
		models[i] = m.ToModel(g)
	}
	return models
}
