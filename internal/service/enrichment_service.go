package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deck-align-be/internal/dto"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/unitofwork"
	"deck-align-be/pkg/embedding"

	"github.com/google/uuid"
)

// maxSummaryChars bounds the enrichment summary so it stays a cheap preview,
// not a second copy of the card.
const maxSummaryChars = 500

type IEnrichmentService interface {
	// EnrichCardConcept fills in the summary and embedding of a lazily
	// created card concept. Already enriched concepts are skipped.
	EnrichCardConcept(ctx context.Context, msg *dto.EnrichCardConceptMessage) error
}

type enrichmentService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	log               logger.ILogger
}

func NewEnrichmentService(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider, log logger.ILogger) IEnrichmentService {
	return &enrichmentService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		log:               log,
	}
}

func (s *enrichmentService) EnrichCardConcept(ctx context.Context, msg *dto.EnrichCardConceptMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	concepts, err := uow.CardConceptRepository().FindAllByIds(ctx, []uuid.UUID{msg.CardConceptId})
	if err != nil {
		return err
	}
	if len(concepts) == 0 {
		s.log.Warn("enrichment", "card concept not found, skipped", map[string]interface{}{
			"card_concept_id": msg.CardConceptId.String(),
		})
		return nil
	}
	concept := concepts[0]
	if concept.Summary != nil && len(concept.Embedding) > 0 {
		return nil
	}

	cards, err := uow.RawCardRepository().FindAllByExternalIds(ctx, concept.DeckId, []string{concept.ExternalCardId})
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return fmt.Errorf("raw card %s missing for concept %s", concept.ExternalCardId, concept.Id)
	}
	card := cards[0]

	summary := buildSummary(card.FrontText, card.BackText)
	vector, err := s.embeddingProvider.Generate(ctx, summary, embedding.TaskTypeDocument)
	if err != nil {
		return fmt.Errorf("failed to embed card concept %s: %w", concept.Id, err)
	}

	now := time.Now()
	concept.Summary = &summary
	concept.Embedding = vector
	concept.UpdatedAt = &now
	if err := uow.CardConceptRepository().Update(ctx, concept); err != nil {
		return err
	}

	s.log.Debug("enrichment", "card concept enriched", map[string]interface{}{
		"card_concept_id": concept.Id.String(),
	})
	return nil
}

func buildSummary(front, back string) string {
	summary := strings.TrimSpace(front + " - " + back)
	runes := []rune(summary)
	if len(runes) > maxSummaryChars {
		summary = string(runes[:maxSummaryChars])
	}
	return summary
}
