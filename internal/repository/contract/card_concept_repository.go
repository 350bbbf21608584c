package contract

import (
	"context"

	"deck-align-be/internal/entity"

	"github.com/google/uuid"
)

type CardConceptRepository interface {
	CreateBulk(ctx context.Context, concepts []*entity.CardConcept) error
	Update(ctx context.Context, concept *entity.CardConcept) error
	FindAllByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.CardConcept, error)
	FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.CardConcept, error)
}
