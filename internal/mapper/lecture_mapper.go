package mapper

import (
	"time"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type LectureMapper struct{}

func NewLectureMapper() *LectureMapper {
	return &LectureMapper{}
}

func (m *LectureMapper) ToEntity(l *model.Lecture) *entity.Lecture {
	if l == nil {
		return nil
	}

	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		updatedAt = &t
	}

	return &entity.Lecture{
		Id:               l.Id,
		Title:            l.Title,
		ProcessingStatus: l.ProcessingStatus,
		SlideCount:       l.SlideCount,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *LectureMapper) ToModel(l *entity.Lecture) *model.Lecture {
	if l == nil {
		return nil
	}

	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}

	return &model.Lecture{
		Id:               l.Id,
		Title:            l.Title,
		ProcessingStatus: l.ProcessingStatus,
		SlideCount:       l.SlideCount,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

type SlideConceptMapper struct{}

func NewSlideConceptMapper() *SlideConceptMapper {
	return &SlideConceptMapper{}
}

func (m *SlideConceptMapper) ToEntity(s *model.SlideConcept) *entity.SlideConcept {
	if s == nil {
		return nil
	}
	return &entity.SlideConcept{
		Id:          s.Id,
		LectureId:   s.LectureId,
		SlideNumber: s.SlideNumber,
		Summary:     s.Summary,
		Embedding:   s.Embedding.Slice(),
		CreatedAt:   s.CreatedAt,
	}
}

func (m *SlideConceptMapper) ToModel(s *entity.SlideConcept) *model.SlideConcept {
	if s == nil {
		return nil
	}
	return &model.SlideConcept{
		Id:          s.Id,
		LectureId:   s.LectureId,
		SlideNumber: s.SlideNumber,
		Summary:     s.Summary,
		Embedding:   pgvector.NewVector(s.Embedding),
		CreatedAt:   s.CreatedAt,
	}
}

func (m *SlideConceptMapper) ToEntities(concepts []*model.SlideConcept) []*entity.SlideConcept {
	entities := make([]*entity.SlideConcept, len(concepts))
	for i, s := range concepts {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
