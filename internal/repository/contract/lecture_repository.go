package contract

import (
	"context"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/repository/specification"
)

type LectureRepository interface {
	Create(ctx context.Context, lecture *entity.Lecture) error
	Update(ctx context.Context, lecture *entity.Lecture) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lecture, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lecture, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
