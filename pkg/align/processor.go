package align

import (
	"context"
	"time"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/entity"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/contract"
	"deck-align-be/pkg/align/retry"
	"deck-align-be/pkg/llm"

	"github.com/google/uuid"
)

// SlideMatch is one classified pairing produced for a slide, keyed by the
// card's external id until the resolver assigns concept ids at the end of
// the run. Score is already normalized to [0,1].
type SlideMatch struct {
	ExternalCardId string
	AlignmentType  string
	Score          float64
	Reasoning      string
}

// SlideResult is everything one slide contributes to the run. Matches and Gap
// can both be set: a thinly covered slide keeps its alignments and gains a
// gap note.
type SlideResult struct {
	SlideConceptId uuid.UUID
	Matches        []SlideMatch
	Gap            *string
}

// SlideProcessor runs the retrieve -> classify -> gap-analyze sequence for a
// single slide. Every recoverable failure ends as a gap on the result; the
// only error it returns is quota exhaustion, which must abort the whole run.
type SlideProcessor struct {
	retriever   *Retriever
	classifier  *Classifier
	gapAnalyzer *GapAnalyzer
	retryPolicy retry.Policy
	log         logger.ILogger
}

func NewSlideProcessor(retriever *Retriever, classifier *Classifier, gapAnalyzer *GapAnalyzer, log logger.ILogger) *SlideProcessor {
	return &SlideProcessor{
		retriever:   retriever,
		classifier:  classifier,
		gapAnalyzer: gapAnalyzer,
		retryPolicy: retry.Policy{
			MaxAttempts: 3,
			Backoff:     []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
			Retryable:   llm.IsRateLimited,
		},
		log: log,
	}
}

func (p *SlideProcessor) Process(ctx context.Context, slide *entity.SlideConcept, deckId uuid.UUID, deckSize int64) (*SlideResult, error) {
	result := &SlideResult{SlideConceptId: slide.Id}

	lexicalOnly := deckSize > DefaultLexicalOnlyThreshold
	candidates, err := p.retriever.Retrieve(ctx, slide.Summary, deckId, lexicalOnly)
	if err != nil {
		result.Gap = gapText(constant.GapSearchFailed)
		return result, nil
	}
	if len(candidates) == 0 {
		if deckSize == 0 {
			result.Gap = gapText(constant.GapDeckEmpty)
		} else {
			result.Gap = gapText(constant.GapNoCandidates)
		}
		return result, nil
	}

	var matches []Match
	classifyErr := p.retryPolicy.Do(ctx, func() error {
		var err error
		matches, err = p.classifier.Classify(ctx, slide.Summary, candidates)
		return err
	})
	if classifyErr != nil {
		switch {
		case llm.IsQuotaExhausted(classifyErr):
			return nil, classifyErr
		case llm.IsRateLimited(classifyErr):
			p.log.Warn("align.processor", "classification rate limited after retries", map[string]interface{}{
				"slide_number": slide.SlideNumber,
			})
			result.Gap = gapText(constant.GapRateLimited)
			return result, nil
		default:
			p.log.Warn("align.processor", "classification failed", map[string]interface{}{
				"slide_number": slide.SlideNumber,
				"error":        classifyErr.Error(),
			})
			result.Gap = gapText(constant.GapMatchingFailed)
			return result, nil
		}
	}

	matches = dedupeByCard(matches)
	matches = dropUnknownCards(matches, candidates, p.log)
	if len(matches) == 0 {
		result.Gap = gapText(constant.GapNoRelevantCards)
		return result, nil
	}

	directSummaries := make([]string, 0, 2)
	cardText := candidateTextIndex(candidates)
	for _, m := range matches {
		result.Matches = append(result.Matches, SlideMatch{
			ExternalCardId: m.CardId,
			AlignmentType:  m.AlignmentType,
			Score:          float64(m.RelevanceScore) / 100,
			Reasoning:      m.Reasoning,
		})
		if m.AlignmentType == constant.AlignmentDirectlyAligned {
			directSummaries = append(directSummaries, cardText[m.CardId])
		}
	}

	// Gap analysis only for thin direct coverage. Its failures never block
	// the slide's alignments.
	if n := len(directSummaries); n > 0 && n < 3 {
		gap, err := p.gapAnalyzer.Analyze(ctx, slide.Summary, directSummaries)
		if err != nil {
			p.log.Warn("align.processor", "gap analysis failed, skipped", map[string]interface{}{
				"slide_number": slide.SlideNumber,
				"error":        err.Error(),
			})
		} else {
			result.Gap = gap
		}
	}

	return result, nil
}

func gapText(s string) *string {
	return &s
}

// dedupeByCard keeps the first occurrence per card id, which with a ranked
// candidate block is the model's strongest verdict.
func dedupeByCard(matches []Match) []Match {
	seen := make(map[string]bool, len(matches))
	out := matches[:0]
	for _, m := range matches {
		if seen[m.CardId] {
			continue
		}
		seen[m.CardId] = true
		out = append(out, m)
	}
	return out
}

// dropUnknownCards removes hallucinated ids that were never in the candidate
// set.
func dropUnknownCards(matches []Match, candidates []*contract.ScoredRawCard, log logger.ILogger) []Match {
	known := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		known[c.Card.ExternalCardId] = true
	}
	out := matches[:0]
	for _, m := range matches {
		if !known[m.CardId] {
			log.Warn("align.processor", "classifier returned unknown card id, dropped", map[string]interface{}{
				"card_id": m.CardId,
			})
			continue
		}
		out = append(out, m)
	}
	return out
}

func candidateTextIndex(candidates []*contract.ScoredRawCard) map[string]string {
	idx := make(map[string]string, len(candidates))
	for _, c := range candidates {
		idx[c.Card.ExternalCardId] = c.Card.FrontText
	}
	return idx
}
