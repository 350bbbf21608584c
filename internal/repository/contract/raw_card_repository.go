package contract

import (
	"context"

	"deck-align-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredRawCard wraps a RawCard with its retrieval rank score
type ScoredRawCard struct {
	Card  *entity.RawCard
	Score float64
}

type RawCardRepository interface {
	CreateBulk(ctx context.Context, cards []*entity.RawCard) error
	CountByDeckId(ctx context.Context, deckId uuid.UUID) (int64, error)
	FindAllByExternalIds(ctx context.Context, deckId uuid.UUID, externalIds []string) ([]*entity.RawCard, error)
	// SearchCandidates ranks cards in one deck against free text, highest
	// score first. Lexical full-text ranking always runs; the trigram fuzzy
	// fallback only runs when lexicalOnly is false and lexical ranking found
	// nothing. An empty result is not an error.
	SearchCandidates(ctx context.Context, searchText string, deckId uuid.UUID, limit int, lexicalOnly bool) ([]*ScoredRawCard, error)
}
