package align

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"deck-align-be/internal/constant"
	"deck-align-be/internal/pkg/logger"
	"deck-align-be/pkg/llm"
)

// GapAnalyzer asks the reasoning service what a thin set of directly aligned
// cards fails to cover. It only runs for slides with one or two direct
// matches; zero matches is already a retrieval-level gap and three or more is
// treated as adequate coverage.
type GapAnalyzer struct {
	provider llm.LLMProvider
	log      logger.ILogger
}

func NewGapAnalyzer(provider llm.LLMProvider, log logger.ILogger) *GapAnalyzer {
	return &GapAnalyzer{
		provider: provider,
		log:      log,
	}
}

type gapResponse struct {
	Gap *string `json:"gap"`
}

// Analyze returns a gap description, or nil when coverage is adequate.
func (g *GapAnalyzer) Analyze(ctx context.Context, conceptText string, matchedSummaries []string) (*string, error) {
	var block strings.Builder
	for i, s := range matchedSummaries {
		fmt.Fprintf(&block, "%d. %s\n", i+1, s)
	}

	prompt := fmt.Sprintf(constant.GapAnalysisPromptV1, conceptText, block.String())

	raw, err := g.provider.Generate(ctx, prompt, llm.WithTemperature(classifierTemperature))
	if err != nil {
		return nil, err
	}

	var resp gapResponse
	if err := json.Unmarshal([]byte(stripMarkdownFences(raw)), &resp); err != nil {
		return nil, fmt.Errorf("malformed gap analysis response: %w", err)
	}
	if resp.Gap == nil || strings.TrimSpace(*resp.Gap) == "" {
		return nil, nil
	}
	return resp.Gap, nil
}
