package align

import (
	"context"

	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/contract"

	"github.com/google/uuid"
)

const (
	// DefaultCandidateLimit bounds how many cards one slide sends to the
	// classifier stage.
	DefaultCandidateLimit = 50

	// DefaultMaxConceptChars bounds the search text length so query cost
	// stays predictable regardless of how verbose the slide summary is.
	DefaultMaxConceptChars = 1000

	// DefaultLexicalOnlyThreshold is the deck size above which the trigram
	// fuzzy fallback is skipped. On large decks the fallback scan dominates
	// latency for little recall gain.
	DefaultLexicalOnlyThreshold = 10000
)

// Retriever is the cheap first-pass filter: it narrows a whole deck down to a
// small ranked candidate set using text search only, no model calls.
type Retriever struct {
	cards           contract.RawCardRepository
	log             logger.ILogger
	limit           int
	maxConceptChars int
}

func NewRetriever(cards contract.RawCardRepository, log logger.ILogger) *Retriever {
	return &Retriever{
		cards:           cards,
		log:             log,
		limit:           DefaultCandidateLimit,
		maxConceptChars: DefaultMaxConceptChars,
	}
}

// Retrieve returns ranked candidates for one slide concept, highest score
// first. An empty slice means nothing matched; an error means the search
// itself failed. Callers must keep the two apart, they produce different gaps.
func (r *Retriever) Retrieve(ctx context.Context, conceptText string, deckId uuid.UUID, lexicalOnly bool) ([]*contract.ScoredRawCard, error) {
	searchText := truncateRunes(conceptText, r.maxConceptChars)

	candidates, err := r.cards.SearchCandidates(ctx, searchText, deckId, r.limit, lexicalOnly)
	if err != nil {
		r.log.Error("align.retriever", "candidate search failed", map[string]interface{}{
			"deck_id": deckId.String(),
			"error":   err.Error(),
		})
		return nil, err
	}

	r.log.Debug("align.retriever", "candidates retrieved", map[string]interface{}{
		"deck_id":      deckId.String(),
		"count":        len(candidates),
		"lexical_only": lexicalOnly,
	})
	return candidates, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
