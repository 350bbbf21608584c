package contract

import (
	"context"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SlideConceptRepository interface {
	CreateBulk(ctx context.Context, concepts []*entity.SlideConcept) error
	// FindAllByLectureId returns the lecture's concepts ordered by slide number,
	// which is the processing order the orchestrator batches over.
	FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.SlideConcept, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
