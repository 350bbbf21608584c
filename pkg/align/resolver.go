package align

import (
	"context"

	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/contract"

	"github.com/google/uuid"
)

// Resolver maps external card ids referenced by a run's matches to
// CardConcept ids, creating concepts where none exist yet. It runs once per
// run, after all slide work completes, so concurrent slides never race on
// first-creation of the same concept.
type Resolver struct {
	concepts contract.CardConceptRepository
	cards    contract.RawCardRepository
	log      logger.ILogger
}

func NewResolver(concepts contract.CardConceptRepository, cards contract.RawCardRepository, log logger.ILogger) *Resolver {
	return &Resolver{
		concepts: concepts,
		cards:    cards,
		log:      log,
	}
}

// Resolve returns externalCardId -> CardConceptId for every id that belongs
// to the deck. The whole run costs three bulk round trips: read existing
// concepts, read the raw cards behind the missing ones, write new concepts.
// Ids with no raw card in the deck are dropped, an alignment must never point
// outside the lecture's target deck.
func (r *Resolver) Resolve(ctx context.Context, deckId uuid.UUID, externalIds []string) (map[string]uuid.UUID, error) {
	unique := dedupeStrings(externalIds)
	if len(unique) == 0 {
		return map[string]uuid.UUID{}, nil
	}

	resolved := make(map[string]uuid.UUID, len(unique))

	existing, err := r.concepts.FindAllByExternalIds(ctx, deckId, unique)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		resolved[c.ExternalCardId] = c.Id
	}

	missing := make([]string, 0, len(unique))
	for _, id := range unique {
		if _, ok := resolved[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return resolved, nil
	}

	rawCards, err := r.cards.FindAllByExternalIds(ctx, deckId, missing)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(rawCards))
	for _, card := range rawCards {
		known[card.ExternalCardId] = true
	}

	newConcepts := make([]*entity.CardConcept, 0, len(missing))
	for _, id := range missing {
		if !known[id] {
			r.log.Warn("align.resolver", "match references card outside deck, dropped", map[string]interface{}{
				"deck_id":          deckId.String(),
				"external_card_id": id,
			})
			continue
		}
		concept := &entity.CardConcept{
			Id:             uuid.New(),
			DeckId:         deckId,
			ExternalCardId: id,
		}
		newConcepts = append(newConcepts, concept)
		resolved[id] = concept.Id
	}

	if len(newConcepts) > 0 {
		if err := r.concepts.CreateBulk(ctx, newConcepts); err != nil {
			return nil, err
		}
		r.log.Info("align.resolver", "card concepts materialized", map[string]interface{}{
			"deck_id": deckId.String(),
			"created": len(newConcepts),
		})
	}

	return resolved, nil
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
