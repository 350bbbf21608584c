package contract

import (
	"context"

	"deck-align-be/internal/entity"

	"github.com/google/uuid"
)

type CoverageGapRepository interface {
	CreateBulk(ctx context.Context, gaps []*entity.CoverageGap) error
	DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error
	FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.CoverageGap, error)
}
