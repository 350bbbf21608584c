package contract

import (
	"context"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/repository/specification"
)

type DeckRepository interface {
	Create(ctx context.Context, deck *entity.Deck) error
	Update(ctx context.Context, deck *entity.Deck) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Deck, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Deck, error)
}
