package align

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/internal/repository/contract"
	"deck-align-be/pkg/llm"
)

const (
	// DefaultClassifierBatchSize caps how many candidates go into one
	// classification request.
	DefaultClassifierBatchSize = 30

	// DefaultRelevanceFloor is the score below which matches are dropped.
	DefaultRelevanceFloor = 30

	// classifierTemperature is pinned low so identical inputs yield stable
	// classifications.
	classifierTemperature = 0.1
)

// Match is one classified card from a single classification call. Score is
// the raw 0-100 value from the model; normalization happens downstream.
type Match struct {
	CardId         string `json:"card_id"`
	AlignmentType  string `json:"alignment_type"`
	RelevanceScore int    `json:"relevance_score"`
	Reasoning      string `json:"reasoning"`
}

type classifierResponse struct {
	Matches []Match `json:"matches"`
}

// Classifier grades a bounded candidate set against one slide concept in a
// single reasoning-service call.
type Classifier struct {
	provider       llm.LLMProvider
	log            logger.ILogger
	batchSize      int
	relevanceFloor int
}

func NewClassifier(provider llm.LLMProvider, log logger.ILogger) *Classifier {
	return &Classifier{
		provider:       provider,
		log:            log,
		batchSize:      DefaultClassifierBatchSize,
		relevanceFloor: DefaultRelevanceFloor,
	}
}

// Classify sends one request for up to batchSize candidates and returns the
// surviving matches. Fewer matches than candidates is normal; a response that
// does not parse is an error, never an empty result.
func (c *Classifier) Classify(ctx context.Context, conceptText string, candidates []*contract.ScoredRawCard) ([]Match, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > c.batchSize {
		candidates = candidates[:c.batchSize]
	}

	prompt := fmt.Sprintf(constant.ClassifierPromptV2,
		conceptText,
		buildCandidateBlock(candidates),
		c.relevanceFloor,
	)

	raw, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(classifierTemperature))
	if err != nil {
		return nil, err
	}

	var resp classifierResponse
	if err := json.Unmarshal([]byte(stripMarkdownFences(raw)), &resp); err != nil {
		c.log.Warn("align.classifier", "unparsable classifier response", map[string]interface{}{
			"error":    err.Error(),
			"response": truncateRunes(raw, 200),
		})
		return nil, fmt.Errorf("malformed classifier response: %w", err)
	}

	matches := make([]Match, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if !isKnownAlignmentType(m.AlignmentType) {
			c.log.Warn("align.classifier", "unknown alignment type dropped", map[string]interface{}{
				"card_id":        m.CardId,
				"alignment_type": m.AlignmentType,
			})
			continue
		}
		if m.RelevanceScore < c.relevanceFloor {
			continue
		}
		if m.RelevanceScore > 100 {
			m.RelevanceScore = 100
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func buildCandidateBlock(candidates []*contract.ScoredRawCard) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. card_id: %s\n   Front: %s\n   Back: %s\n",
			i+1, c.Card.ExternalCardId, c.Card.FrontText, c.Card.BackText)
	}
	return b.String()
}

func isKnownAlignmentType(t string) bool {
	switch t {
	case constant.AlignmentDirectlyAligned,
		constant.AlignmentDeeperThanLecture,
		constant.AlignmentTooShallow,
		constant.AlignmentNotAligned:
		return true
	}
	return false
}

// stripMarkdownFences unwraps ```json ... ``` blocks some models emit even
// when told not to.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
