package contract

import (
	"context"

	"deck-align-be/internal/entity"

	"github.com/google/uuid"
)

type CardAlignmentRepository interface {
	CreateBulk(ctx context.Context, alignments []*entity.CardAlignment) error
	// DeleteByLectureId removes every alignment row belonging to the
	// lecture's slides. Regeneration is destructive-and-rebuild.
	DeleteByLectureId(ctx context.Context, lectureId uuid.UUID) error
	FindAllByLectureId(ctx context.Context, lectureId uuid.UUID) ([]*entity.CardAlignment, error)
}
